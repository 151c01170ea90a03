// Package places implements the Google Places (New) directory provider.
package places

import (
	"context"
	"fmt"
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
	// DefaultBaseURL is the Places API (New) base URL
	DefaultBaseURL = "https://places.googleapis.com/v1"

	// maxResultCount is the per-request result cap imposed by the API
	maxResultCount = 20

	searchFieldMask = "places.id,places.displayName,places.formattedAddress," +
		"places.nationalPhoneNumber,places.internationalPhoneNumber,places.rating," +
		"places.userRatingCount,places.priceLevel,places.websiteUri,places.location," +
		"places.types,places.currentOpeningHours,places.regularOpeningHours"

	detailsFieldMask = "displayName,formattedAddress,nationalPhoneNumber,websiteUri," +
		"regularOpeningHours,priceLevel,rating,userRatingCount,editorialSummary,reviews,photos"
)

// Client queries the Google Places API (New)
type Client struct {
	http    *httpclient.Client
	apiKey  string
	baseURL string
	logger  ectologger.Logger
}

// NewClient creates a Places provider client
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
	return models.SourceGoogle
}

type searchRequest struct {
	IncludedTypes       []string            `json:"includedTypes"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
	MaxResultCount      int                 `json:"maxResultCount"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	Places []place `json:"places"`
}

type place struct {
	ID                       string        `json:"id"`
	DisplayName              *localized    `json:"displayName"`
	FormattedAddress         string        `json:"formattedAddress"`
	NationalPhoneNumber      string        `json:"nationalPhoneNumber"`
	InternationalPhoneNumber string        `json:"internationalPhoneNumber"`
	Rating                   *float64      `json:"rating"`
	UserRatingCount          int           `json:"userRatingCount"`
	PriceLevel               string        `json:"priceLevel"`
	WebsiteURI               string        `json:"websiteUri"`
	Location                 *latLng       `json:"location"`
	Types                    []string      `json:"types"`
	CurrentOpeningHours      *openingHours `json:"currentOpeningHours"`
	RegularOpeningHours      *openingHours `json:"regularOpeningHours"`
	EditorialSummary         *localized    `json:"editorialSummary"`
	Reviews                  []review      `json:"reviews"`
	Photos                   []photo       `json:"photos"`
}

type localized struct {
	Text string `json:"text"`
}

type openingHours struct {
	OpenNow             *bool            `json:"openNow"`
	Periods             []map[string]any `json:"periods"`
	WeekdayDescriptions []string         `json:"weekdayDescriptions"`
}

type review struct {
	Text *localized `json:"text"`
}

type photo struct {
	Name string `json:"name"`
}

// priceSymbols maps the API's price level enum to display symbols
var priceSymbols = map[string]string{
	"PRICE_LEVEL_FREE":           "Free",
	"PRICE_LEVEL_INEXPENSIVE":    "$",
	"PRICE_LEVEL_MODERATE":       "$$",
	"PRICE_LEVEL_EXPENSIVE":      "$$$",
	"PRICE_LEVEL_VERY_EXPENSIVE": "$$$$",
}

// priceLevelValues maps the enum to the numeric 0-4 scale used for comparison
var priceLevelValues = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// PriceSymbol converts a price level enum to a display symbol
func PriceSymbol(priceLevel string) string {
	if symbol, ok := priceSymbols[priceLevel]; ok {
		return symbol
	}
	return ""
}

// PriceLevelValue converts a price level enum to its numeric value,
// or nil when the enum is absent or unknown.
func PriceLevelValue(priceLevel string) *int {
	if value, ok := priceLevelValues[priceLevel]; ok {
		return &value
	}
	return nil
}

// Search implements providers.Provider
func (c *Client) Search(ctx context.Context, lat, lng, radiusMiles float64) ([]models.BusinessRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "places.Client.Search")
	defer span.End()

	if c.apiKey == "" {
		c.logger.WithContext(ctx).Warn("Google Places API key is not configured, skipping Places search")
		return []models.BusinessRecord{}, nil
	}

	payload := searchRequest{
		IncludedTypes: []string{"gym"},
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: latLng{Latitude: lat, Longitude: lng},
				Radius: radiusMiles * providers.MetersPerMile,
			},
		},
		MaxResultCount: maxResultCount,
	}

	headers := map[string]string{
		"X-Goog-Api-Key":   c.apiKey,
		"X-Goog-FieldMask": searchFieldMask,
	}

	start := time.Now()
	resp, err := c.http.PostJSON(ctx, c.baseURL+"/places:searchNearby", payload, headers)
	if err != nil {
		metrics.RecordProviderRequest("google_places", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("places search request failed: %w", err)
	}

	if !resp.IsSuccess() {
		metrics.RecordProviderRequest("google_places", strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
		return nil, fmt.Errorf("places search returned status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := resp.DecodeJSON(&decoded); err != nil {
		metrics.RecordProviderRequest("google_places", "decode_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to decode places search response: %w", err)
	}

	metrics.RecordProviderRequest("google_places", "ok", time.Since(start).Seconds())

	records := make([]models.BusinessRecord, 0, len(decoded.Places))
	for _, pl := range decoded.Places {
		record, ok := c.mapPlace(pl)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	c.logger.WithContext(ctx).Debugf("Places search returned %d businesses", len(records))

	return records, nil
}

// mapPlace converts an API place into a record. Places without a
// display name are dropped.
func (c *Client) mapPlace(pl place) (models.BusinessRecord, bool) {
	if pl.DisplayName == nil || strings.TrimSpace(pl.DisplayName.Text) == "" {
		return models.BusinessRecord{}, false
	}

	phone := strings.TrimSpace(pl.NationalPhoneNumber)
	if phone == "" {
		phone = strings.TrimSpace(pl.InternationalPhoneNumber)
	}

	pageURL := strings.TrimSpace(pl.WebsiteURI)
	if pageURL == "" {
		pageURL = mapsLink(pl.ID)
	}

	reviewCount := pl.UserRatingCount
	if reviewCount < 0 {
		reviewCount = 0
	}

	record := models.BusinessRecord{
		Name:        strings.TrimSpace(pl.DisplayName.Text),
		Address:     strings.TrimSpace(pl.FormattedAddress),
		Phone:       phone,
		Rating:      pl.Rating,
		ReviewCount: reviewCount,
		Price:       PriceSymbol(pl.PriceLevel),
		PriceLevel:  PriceLevelValue(pl.PriceLevel),
		URL:         pageURL,
		Website:     strings.TrimSpace(pl.WebsiteURI),
		Types:       pl.Types,
		ProviderID:  pl.ID,
		Source:      models.SourceGoogle,
	}

	if pl.Location != nil {
		record.Coordinates = &models.Coordinates{
			Lat: pl.Location.Latitude,
			Lng: pl.Location.Longitude,
		}
	}

	if hours := coalesceHours(pl.CurrentOpeningHours, pl.RegularOpeningHours); hours != nil {
		record.Hours = hours
	}

	return record, true
}

func mapsLink(placeID string) string {
	return "https://maps.google.com/?place_id=" + placeID
}

func coalesceHours(current, regular *openingHours) *models.OpeningHours {
	source := current
	if source == nil {
		source = regular
	}
	if source == nil {
		return nil
	}

	return &models.OpeningHours{
		HasPeriods:  len(source.Periods) > 0,
		WeekdayText: source.WeekdayDescriptions,
		OpenNow:     source.OpenNow,
	}
}
