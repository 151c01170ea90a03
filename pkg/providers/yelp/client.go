// Package yelp implements the Yelp Fusion directory provider.
package yelp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/a-deal/gym-finder/pkg/httpclient"
	"github.com/a-deal/gym-finder/pkg/metrics"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/providers"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

const (
	// DefaultBaseURL is the Yelp Fusion API base URL
	DefaultBaseURL = "https://api.yelp.com/v3"

	// searchLimit is the maximum results per search request allowed by Fusion
	searchLimit = 50

	searchCategories = "gyms,fitness"
)

// Client queries the Yelp Fusion businesses API
type Client struct {
	http    *httpclient.Client
	apiKey  string
	baseURL string
	logger  ectologger.Logger
}

// NewClient creates a Yelp provider client
func NewClient(http *httpclient.Client, apiKey string, logger ectologger.Logger) *Client {
	return &Client{
		http:    http,
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		logger:  logger,
	}
}

// SetBaseURL overrides the API base URL
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// Name implements providers.Provider
func (c *Client) Name() models.Source {
	return models.SourceYelp
}

type searchResponse struct {
	Businesses []business `json:"businesses"`
	Total      int        `json:"total"`
}

type business struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	DisplayPhone string     `json:"display_phone"`
	Phone        string     `json:"phone"`
	Rating       *float64   `json:"rating"`
	ReviewCount  int        `json:"review_count"`
	Price        string     `json:"price"`
	URL          string     `json:"url"`
	Location     location   `json:"location"`
	Categories   []category `json:"categories"`
	Coordinates  *latLng    `json:"coordinates"`
}

type location struct {
	DisplayAddress []string `json:"display_address"`
}

type category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Search implements providers.Provider
func (c *Client) Search(ctx context.Context, lat, lng, radiusMiles float64) ([]models.BusinessRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "yelp.Client.Search")
	defer span.End()

	if c.apiKey == "" {
		c.logger.WithContext(ctx).Warn("Yelp API key is not configured, skipping Yelp search")
		return []models.BusinessRecord{}, nil
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("categories", searchCategories)
	params.Set("radius", strconv.Itoa(int(radiusMiles*providers.MetersPerMile)))
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("sort_by", "distance")

	searchURL := fmt.Sprintf("%s/businesses/search?%s", c.baseURL, params.Encode())
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	start := time.Now()
	resp, err := c.http.Get(ctx, searchURL, headers)
	if err != nil {
		metrics.RecordProviderRequest("yelp", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("yelp search request failed: %w", err)
	}

	if !resp.IsSuccess() {
		metrics.RecordProviderRequest("yelp", strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
		return nil, fmt.Errorf("yelp search returned status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := resp.DecodeJSON(&decoded); err != nil {
		metrics.RecordProviderRequest("yelp", "decode_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to decode yelp search response: %w", err)
	}

	metrics.RecordProviderRequest("yelp", "ok", time.Since(start).Seconds())

	records := make([]models.BusinessRecord, 0, len(decoded.Businesses))
	for _, biz := range decoded.Businesses {
		record, ok := c.mapBusiness(biz)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	c.logger.WithContext(ctx).Debugf("Yelp search returned %d businesses", len(records))

	return records, nil
}

// mapBusiness converts a Fusion business into a record. Businesses
// without a name are dropped.
func (c *Client) mapBusiness(biz business) (models.BusinessRecord, bool) {
	name := strings.TrimSpace(biz.Name)
	if name == "" {
		return models.BusinessRecord{}, false
	}

	phone := strings.TrimSpace(biz.DisplayPhone)
	if phone == "" {
		phone = strings.TrimSpace(biz.Phone)
	}

	titles := make([]string, 0, len(biz.Categories))
	for _, cat := range biz.Categories {
		if cat.Title != "" {
			titles = append(titles, cat.Title)
		}
	}

	reviewCount := biz.ReviewCount
	if reviewCount < 0 {
		reviewCount = 0
	}

	record := models.BusinessRecord{
		Name:        name,
		Address:     strings.Join(biz.Location.DisplayAddress, ", "),
		Phone:       phone,
		Rating:      biz.Rating,
		ReviewCount: reviewCount,
		Price:       strings.TrimSpace(biz.Price),
		URL:         strings.TrimSpace(biz.URL),
		Categories:  strings.Join(titles, ", "),
		ProviderID:  biz.ID,
		Source:      models.SourceYelp,
	}

	if biz.Coordinates != nil {
		record.Coordinates = &models.Coordinates{
			Lat: biz.Coordinates.Latitude,
			Lng: biz.Coordinates.Longitude,
		}
	}

	return record, true
}
