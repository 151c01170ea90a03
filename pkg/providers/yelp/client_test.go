package yelp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-deal/gym-finder/pkg/httpclient"
	"github.com/a-deal/gym-finder/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := testLogger()
	client := NewClient(httpclient.NewClient(httpclient.DefaultConfig(), logger), "test-key", logger)
	client.SetBaseURL(server.URL)
	return client, server
}

func TestSearchMapsBusinesses(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"categories": r.URL.Query().Get("categories"),
			"radius":     r.URL.Query().Get("radius"),
			"limit":      r.URL.Query().Get("limit"),
			"sort_by":    r.URL.Query().Get("sort_by"),
		}

		rating := 4.5
		_ = json.NewEncoder(w).Encode(searchResponse{
			Businesses: []business{
				{
					ID:           "pf-chelsea",
					Name:         "Planet Fitness",
					DisplayPhone: "(212) 555-0134",
					Rating:       &rating,
					ReviewCount:  220,
					Price:        "$",
					URL:          "https://www.yelp.com/biz/planet-fitness-new-york",
					Location: location{
						DisplayAddress: []string{"123 W 23rd St", "New York, NY 10011"},
					},
					Categories: []category{
						{Alias: "gyms", Title: "Gyms"},
						{Alias: "fitness", Title: "Fitness & Instruction"},
					},
					Coordinates: &latLng{Latitude: 40.7440, Longitude: -73.9962},
				},
				{Name: ""}, // dropped
			},
		})
	})

	records, err := client.Search(context.Background(), 40.7484, -73.994, 2)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gyms,fitness", gotQuery["categories"])
	assert.Equal(t, "3218", gotQuery["radius"]) // 2 miles in meters, truncated
	assert.Equal(t, "50", gotQuery["limit"])
	assert.Equal(t, "distance", gotQuery["sort_by"])

	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, "Planet Fitness", record.Name)
	assert.Equal(t, "123 W 23rd St, New York, NY 10011", record.Address)
	assert.Equal(t, "(212) 555-0134", record.Phone)
	assert.Equal(t, "Gyms, Fitness & Instruction", record.Categories)
	assert.Equal(t, "pf-chelsea", record.ProviderID)
	assert.Equal(t, models.SourceYelp, record.Source)
	require.NotNil(t, record.Coordinates)
	assert.InDelta(t, 40.7440, record.Coordinates.Lat, 0.0001)
}

func TestSearchWithoutAPIKey(t *testing.T) {
	logger := testLogger()
	client := NewClient(httpclient.NewClient(httpclient.DefaultConfig(), logger), "", logger)

	records, err := client.Search(context.Background(), 40.7484, -73.994, 2)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), 40.7484, -73.994, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchEmptyResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(searchResponse{})
	})

	records, err := client.Search(context.Background(), 40.7484, -73.994, 2)
	require.NoError(t, err)
	assert.Empty(t, records)
}
