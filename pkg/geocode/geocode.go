// Package geocode resolves ZIP codes and street addresses to coordinates
// using Nominatim, with a static per-ZIP fallback table for when the
// upstream geocoder is unavailable.
package geocode

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/a-deal/gym-finder/pkg/httpclient"
	"github.com/a-deal/gym-finder/pkg/metrics"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

var (
	zipRe       = regexp.MustCompile(`\b(\d{5})\b`)
	streetNumRe = regexp.MustCompile(`^(\d+)`)
)

// Geocoder resolves locations via Nominatim with a static ZIP fallback.
type Geocoder struct {
	http      *httpclient.Client
	baseURL   string
	userAgent string
	fallback  map[string]models.Coordinates
	logger    ectologger.Logger
}

// NewGeocoder creates a geocoder. The fallback table maps five-digit ZIP
// codes to approximate centroids and may be nil.
func NewGeocoder(http *httpclient.Client, baseURL, userAgent string, fallback map[string]models.Coordinates, logger ectologger.Logger) *Geocoder {
	return &Geocoder{
		http:      http,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		fallback:  fallback,
		logger:    logger,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// ResolveZip converts a ZIP code to coordinates. Falls back to the static
// table when the upstream geocoder fails or has no result.
func (g *Geocoder) ResolveZip(ctx context.Context, zipcode string) (*models.Coordinates, error) {
	ctx, span := tracing.StartSpan(ctx, "geocode.Geocoder.ResolveZip")
	defer span.End()

	coords, err := g.query(ctx, fmt.Sprintf("%s, USA", zipcode))
	if err == nil && coords != nil {
		metrics.RecordGeocode("nominatim", "ok")
		return coords, nil
	}
	if err != nil {
		g.logger.WithContext(ctx).WithError(err).Warnf("Nominatim lookup failed for %s, trying fallback table", zipcode)
	}

	if fallback, ok := g.fallback[zipcode]; ok {
		metrics.RecordGeocode("fallback", "ok")
		coords := fallback
		return &coords, nil
	}

	metrics.RecordGeocode("nominatim", "miss")
	return nil, fmt.Errorf("could not resolve coordinates for zipcode %s", zipcode)
}

// ResolveAddress converts a street address to coordinates.
func (g *Geocoder) ResolveAddress(ctx context.Context, address string) (*models.Coordinates, error) {
	ctx, span := tracing.StartSpan(ctx, "geocode.Geocoder.ResolveAddress")
	defer span.End()

	coords, err := g.query(ctx, address)
	if err != nil {
		metrics.RecordGeocode("nominatim", "error")
		return nil, err
	}
	if coords == nil {
		metrics.RecordGeocode("nominatim", "miss")
		return nil, fmt.Errorf("could not resolve coordinates for address")
	}

	metrics.RecordGeocode("nominatim", "ok")
	return coords, nil
}

func (g *Geocoder) query(ctx context.Context, q string) (*models.Coordinates, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")

	headers := map[string]string{
		"User-Agent": g.userAgent,
	}

	resp, err := g.http.Get(ctx, fmt.Sprintf("%s/search?%s", g.baseURL, params.Encode()), headers)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := resp.DecodeJSON(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}

	return &models.Coordinates{Lat: lat, Lng: lng}, nil
}

// EstimateFromAddress approximates coordinates from an address using the
// fallback table, offset by the street number (0.0001 degree steps, about
// 10 meters). Returns nil when the address has no known ZIP.
func (g *Geocoder) EstimateFromAddress(address string) *models.Coordinates {
	if address == "" {
		return nil
	}

	zipMatch := zipRe.FindStringSubmatch(address)
	if zipMatch == nil {
		return nil
	}

	base, ok := g.fallback[zipMatch[1]]
	if !ok {
		return nil
	}

	if numMatch := streetNumRe.FindStringSubmatch(strings.TrimSpace(address)); numMatch != nil {
		streetNum, _ := strconv.Atoi(numMatch[1])
		return &models.Coordinates{
			Lat: base.Lat + float64(streetNum%100)*0.0001,
			Lng: base.Lng + float64((streetNum/100)%100)*0.0001,
		}
	}

	coords := base
	return &coords
}
