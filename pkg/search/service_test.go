package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-deal/gym-finder/pkg/geocode"
	"github.com/a-deal/gym-finder/pkg/httpclient"
	"github.com/a-deal/gym-finder/pkg/matching"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/providers/places"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type stubProvider struct {
	mu        sync.Mutex
	source    models.Source
	records   []models.BusinessRecord
	err       error
	gotRadius float64
	calls     int
}

func (p *stubProvider) Name() models.Source { return p.source }

func (p *stubProvider) Search(_ context.Context, _, _, radiusMiles float64) ([]models.BusinessRecord, error) {
	p.mu.Lock()
	p.gotRadius = radiusMiles
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.records, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type stubEnricher struct {
	enrichments map[string]*places.Enrichment
	calls       []string
}

func (e *stubEnricher) Details(_ context.Context, placeID string) (*places.Enrichment, error) {
	e.calls = append(e.calls, placeID)
	if enrichment, ok := e.enrichments[placeID]; ok {
		return enrichment, nil
	}
	return nil, nil
}

// offlineGeocoder resolves only through the static ZIP table.
func offlineGeocoder(t *testing.T) *geocode.Geocoder {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	logger := testLogger()
	return geocode.NewGeocoder(
		httpclient.NewClient(httpclient.DefaultConfig(), logger),
		server.URL,
		"gymintel-test",
		geocode.NYCZipTable(),
		logger,
	)
}

func yelpPlanetFitness() models.BusinessRecord {
	rating := 4.5
	return models.BusinessRecord{
		Name:        "Planet Fitness",
		Address:     "123 W 23rd St, New York, NY 10011",
		Phone:       "(212) 555-0134",
		Rating:      &rating,
		ReviewCount: 220,
		Price:       "$",
		URL:         "https://www.yelp.com/biz/planet-fitness-new-york",
		Categories:  "Gyms",
		Source:      models.SourceYelp,
		ProviderID:  "pf-yelp",
	}
}

func googlePlanetFitness() models.BusinessRecord {
	rating := 4.3
	level := 1
	return models.BusinessRecord{
		Name:        "Planet Fitness",
		Address:     "123 West 23rd Street, New York, NY 10011",
		Phone:       "(212) 555-0134",
		Rating:      &rating,
		ReviewCount: 190,
		Price:       "$",
		PriceLevel:  &level,
		URL:         "https://www.planetfitness.com/chelsea",
		Website:     "https://www.planetfitness.com/chelsea",
		Types:       []string{"gym"},
		Source:      models.SourceGoogle,
		ProviderID:  "pf-google",
	}
}

func newTestService(t *testing.T, yelpStub, googleStub *stubProvider, enricher Enricher, cfg Config) *Service {
	logger := testLogger()
	engine := matching.NewEngine(logger, matching.DefaultConfig())
	return NewService(offlineGeocoder(t), yelpStub, googleStub, enricher, engine, nil, nil, nil, nil, cfg, logger)
}

func TestSearchMergesProviders(t *testing.T) {
	yelpStub := &stubProvider{source: models.SourceYelp, records: []models.BusinessRecord{yelpPlanetFitness()}}
	googleStub := &stubProvider{source: models.SourceGoogle, records: []models.BusinessRecord{googlePlanetFitness()}}

	service := newTestService(t, yelpStub, googleStub, nil, DefaultConfig())

	result, err := service.Search(context.Background(), Request{Zipcode: "10011", RadiusMiles: 2, UseGoogle: true})
	require.NoError(t, err)

	require.Len(t, result.Gyms, 1)
	gym := result.Gyms[0]
	assert.True(t, gym.IsMerged())
	assert.ElementsMatch(t, []models.Source{models.SourceYelp, models.SourceGoogle}, gym.Sources)
	assert.Greater(t, gym.MatchConfidence, 0.35)

	assert.Equal(t, "10011", result.Info.Zipcode)
	assert.Equal(t, 1, result.Info.YelpResults)
	assert.Equal(t, 1, result.Info.GoogleResults)
	assert.Equal(t, 1, result.Info.MergedCount)
	assert.Equal(t, 1, result.Info.TotalResults)
	assert.InDelta(t, gym.MatchConfidence, result.Info.AvgConfidence, 0.0001)
}

func TestSearchInvalidZipcode(t *testing.T) {
	service := newTestService(t, &stubProvider{source: models.SourceYelp}, &stubProvider{source: models.SourceGoogle}, nil, DefaultConfig())

	_, err := service.Search(context.Background(), Request{Zipcode: "abcde"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid zipcode")
}

func TestSearchRadiusBounds(t *testing.T) {
	yelpStub := &stubProvider{source: models.SourceYelp}
	googleStub := &stubProvider{source: models.SourceGoogle}
	service := newTestService(t, yelpStub, googleStub, nil, DefaultConfig())

	_, err := service.Search(context.Background(), Request{Zipcode: "10001", UseGoogle: true})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, yelpStub.gotRadius, 0.0001) // default

	_, err = service.Search(context.Background(), Request{Zipcode: "10001", RadiusMiles: 100, UseGoogle: true})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, yelpStub.gotRadius, 0.0001) // capped
}

func TestSearchSingleProviderFallback(t *testing.T) {
	yelpStub := &stubProvider{source: models.SourceYelp, records: []models.BusinessRecord{yelpPlanetFitness()}}
	googleStub := &stubProvider{source: models.SourceGoogle, err: errors.New("quota exceeded")}

	service := newTestService(t, yelpStub, googleStub, nil, DefaultConfig())

	result, err := service.Search(context.Background(), Request{Zipcode: "10011", UseGoogle: true})
	require.NoError(t, err)

	require.Len(t, result.Gyms, 1)
	assert.False(t, result.Gyms[0].IsMerged())
	assert.Equal(t, []models.Source{models.SourceYelp}, result.Gyms[0].Sources)
	assert.Equal(t, 0, result.Info.GoogleResults)
}

func TestSearchAllProvidersFailed(t *testing.T) {
	yelpStub := &stubProvider{source: models.SourceYelp, err: errors.New("down")}
	googleStub := &stubProvider{source: models.SourceGoogle, err: errors.New("down")}

	service := newTestService(t, yelpStub, googleStub, nil, DefaultConfig())

	_, err := service.Search(context.Background(), Request{Zipcode: "10011", UseGoogle: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")
}

func TestSearchWithoutGoogle(t *testing.T) {
	yelpStub := &stubProvider{source: models.SourceYelp, records: []models.BusinessRecord{yelpPlanetFitness()}}
	googleStub := &stubProvider{source: models.SourceGoogle, records: []models.BusinessRecord{googlePlanetFitness()}}

	service := newTestService(t, yelpStub, googleStub, nil, DefaultConfig())

	result, err := service.Search(context.Background(), Request{Zipcode: "10011", UseGoogle: false})
	require.NoError(t, err)

	assert.Equal(t, 0, googleStub.callCount())
	require.Len(t, result.Gyms, 1)
	assert.False(t, result.Gyms[0].IsMerged())
}

func TestSearchEnrichmentFillsHours(t *testing.T) {
	googleRecord := googlePlanetFitness()
	require.Nil(t, googleRecord.Hours)

	openNow := true
	enricher := &stubEnricher{
		enrichments: map[string]*places.Enrichment{
			"pf-google": {
				HasHours: true,
				Hours: &models.OpeningHours{
					HasPeriods:  true,
					WeekdayText: []string{"Monday: 5:00 AM – 11:00 PM"},
					OpenNow:     &openNow,
				},
			},
		},
	}

	yelpStub := &stubProvider{source: models.SourceYelp, records: []models.BusinessRecord{yelpPlanetFitness()}}
	googleStub := &stubProvider{source: models.SourceGoogle, records: []models.BusinessRecord{googleRecord}}

	service := newTestService(t, yelpStub, googleStub, enricher, DefaultConfig())

	result, err := service.Search(context.Background(), Request{Zipcode: "10011", UseGoogle: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"pf-google"}, enricher.calls)
	require.Len(t, result.Gyms, 1)
	require.NotNil(t, result.Gyms[0].Hours)
	assert.True(t, result.Gyms[0].Hours.HasPeriods)
}

func TestSearchEnrichmentDisabled(t *testing.T) {
	enricher := &stubEnricher{}

	cfg := DefaultConfig()
	cfg.EnableEnrichment = false

	yelpStub := &stubProvider{source: models.SourceYelp}
	googleStub := &stubProvider{source: models.SourceGoogle, records: []models.BusinessRecord{googlePlanetFitness()}}

	service := newTestService(t, yelpStub, googleStub, enricher, cfg)

	_, err := service.Search(context.Background(), Request{Zipcode: "10011", UseGoogle: true})
	require.NoError(t, err)
	assert.Empty(t, enricher.calls)
}

func TestSearchResultsSortedByConfidence(t *testing.T) {
	weakRating := 3.0
	yelpStub := &stubProvider{source: models.SourceYelp, records: []models.BusinessRecord{
		yelpPlanetFitness(),
		{Name: "Iron Temple", Address: "456 1st Ave, New York, NY 10009", Rating: &weakRating, Source: models.SourceYelp},
	}}
	googleStub := &stubProvider{source: models.SourceGoogle, records: []models.BusinessRecord{googlePlanetFitness()}}

	service := newTestService(t, yelpStub, googleStub, nil, DefaultConfig())

	result, err := service.Search(context.Background(), Request{Zipcode: "10011", UseGoogle: true})
	require.NoError(t, err)

	require.Len(t, result.Gyms, 2)
	assert.Equal(t, "Planet Fitness", result.Gyms[0].Name)
	assert.Equal(t, "Iron Temple", result.Gyms[1].Name)
}

func TestSearchMetroDeduplicates(t *testing.T) {
	yelpStub := &stubProvider{source: models.SourceYelp, records: []models.BusinessRecord{yelpPlanetFitness()}}
	googleStub := &stubProvider{source: models.SourceGoogle, records: []models.BusinessRecord{googlePlanetFitness()}}

	service := newTestService(t, yelpStub, googleStub, nil, DefaultConfig())

	metro := models.MetroArea{
		Code:     "nyc",
		Name:     "New York City",
		Zipcodes: models.StringList{"10001", "10011"},
	}

	result, err := service.SearchMetro(context.Background(), metro, 2, true)
	require.NoError(t, err)

	// The same gym comes back from both ZIP searches and collapses to one.
	assert.Equal(t, 2, result.Stats.ZipcodesSet)
	assert.Equal(t, 0, result.Stats.ZipcodesFailed)
	assert.Equal(t, 2, result.Stats.TotalGyms)
	assert.Equal(t, 1, result.Stats.UniqueGyms)
	require.Len(t, result.Gyms, 1)
	assert.Equal(t, "Planet Fitness", result.Gyms[0].Name)
}

func TestSearchMetroWithoutZipcodes(t *testing.T) {
	service := newTestService(t, &stubProvider{source: models.SourceYelp}, &stubProvider{source: models.SourceGoogle}, nil, DefaultConfig())

	_, err := service.SearchMetro(context.Background(), models.MetroArea{Code: "empty"}, 2, true)
	require.Error(t, err)
}
