// Package search orchestrates a gym search: geocode the location, query
// both directory providers, match and merge their records, then persist,
// cache and publish the outcome.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	gymrepo "github.com/a-deal/gym-finder/internal/repositories/gym"
	searchrepo "github.com/a-deal/gym-finder/internal/repositories/search"
	appcontext "github.com/a-deal/gym-finder/pkg/context"
	"github.com/a-deal/gym-finder/pkg/events"
	"github.com/a-deal/gym-finder/pkg/geocode"
	"github.com/a-deal/gym-finder/pkg/matching"
	"github.com/a-deal/gym-finder/pkg/merging"
	"github.com/a-deal/gym-finder/pkg/metrics"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/providers"
	"github.com/a-deal/gym-finder/pkg/providers/places"
	"github.com/a-deal/gym-finder/pkg/redis"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

var zipcodeRe = regexp.MustCompile(`^\d{5}$`)

// Enricher looks up extra profile data for a provider record. The Places
// details client satisfies this.
type Enricher interface {
	Details(ctx context.Context, placeID string) (*places.Enrichment, error)
}

// Config holds search orchestration settings
type Config struct {
	DefaultRadiusMiles float64
	MaxRadiusMiles     float64
	EnableEnrichment   bool
	MetroConcurrency   int

	// DedupThreshold is the score above which two records from different
	// ZIP searches are considered the same gym.
	DedupThreshold float64
}

// DefaultConfig returns default search settings
func DefaultConfig() Config {
	return Config{
		DefaultRadiusMiles: 5,
		MaxRadiusMiles:     25,
		EnableEnrichment:   true,
		MetroConcurrency:   5,
		DedupThreshold:     0.8,
	}
}

// Request describes one gym search
type Request struct {
	Zipcode     string  `json:"zipcode" validate:"required,len=5"`
	RadiusMiles float64 `json:"radius_miles"`
	UseGoogle   bool    `json:"use_google"`
	SkipCache   bool    `json:"skip_cache"`
}

// Service runs gym searches
type Service struct {
	geocoder *geocode.Geocoder
	yelp     providers.Provider
	google   providers.Provider
	enricher Enricher
	engine   *matching.Engine
	merger   *merging.Merger
	gyms     gymrepo.GymRepository
	history  searchrepo.SearchRepository
	cache    *redis.SearchCache
	emitter  *events.Emitter
	config   Config
	logger   ectologger.Logger
}

// NewService creates a search service. cache, enricher and repositories
// may be nil; the service degrades to in-memory behavior without them.
func NewService(
	geocoder *geocode.Geocoder,
	yelpProvider providers.Provider,
	googleProvider providers.Provider,
	enricher Enricher,
	engine *matching.Engine,
	gyms gymrepo.GymRepository,
	history searchrepo.SearchRepository,
	cache *redis.SearchCache,
	emitter *events.Emitter,
	config Config,
	logger ectologger.Logger,
) *Service {
	return &Service{
		geocoder: geocoder,
		yelp:     yelpProvider,
		google:   googleProvider,
		enricher: enricher,
		engine:   engine,
		merger:   merging.NewMerger(),
		gyms:     gyms,
		history:  history,
		cache:    cache,
		emitter:  emitter,
		config:   config,
		logger:   logger,
	}
}

// Search runs a full gym search for one ZIP code.
func (s *Service) Search(ctx context.Context, req Request) (*models.SearchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "search.Service.Search")
	defer span.End()

	start := time.Now()

	if !zipcodeRe.MatchString(req.Zipcode) {
		return nil, fmt.Errorf("invalid zipcode: %q", req.Zipcode)
	}

	radius := req.RadiusMiles
	if radius <= 0 {
		radius = s.config.DefaultRadiusMiles
	}
	if radius > s.config.MaxRadiusMiles {
		radius = s.config.MaxRadiusMiles
	}

	searchID := uuid.New().String()
	ctx = appcontext.SetSearchID(ctx, searchID)

	if s.cache != nil && !req.SkipCache {
		cached, err := s.cache.Get(ctx, req.Zipcode, radius)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Search cache read failed")
		} else if cached != nil {
			s.logger.WithContext(ctx).Debugf("Serving search for %s from cache", req.Zipcode)
			return cached, nil
		}
	}

	coords, err := s.geocoder.ResolveZip(ctx, req.Zipcode)
	if err != nil {
		metrics.RecordSearch("geocode_failed", time.Since(start).Seconds(), 0)
		return nil, fmt.Errorf("failed to geocode %s: %w", req.Zipcode, err)
	}

	yelpRecords, googleRecords, err := s.queryProviders(ctx, coords, radius, req.UseGoogle)
	if err != nil {
		metrics.RecordSearch("provider_failed", time.Since(start).Seconds(), 0)
		return nil, err
	}

	if s.config.EnableEnrichment {
		s.enrich(ctx, googleRecords)
	}

	merged := s.matchAndMerge(ctx, searchID, yelpRecords, googleRecords)

	sortByConfidence(merged)

	result := &models.SearchResult{
		Info: buildInfo(req.Zipcode, *coords, radius, yelpRecords, googleRecords, merged),
		Gyms: merged,
	}

	s.persist(ctx, req.Zipcode, radius, result, time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, req.Zipcode, radius, result); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Search cache write failed")
		}
	}

	if err := s.emitter.EmitSearchCompleted(ctx, searchID, result.Info, time.Since(start)); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to emit search completed event")
	}

	metrics.RecordSearch("ok", time.Since(start).Seconds(), len(merged))

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"zipcode":      req.Zipcode,
		"radius_miles": radius,
		"yelp":         len(yelpRecords),
		"google":       len(googleRecords),
		"merged":       result.Info.MergedCount,
		"total":        result.Info.TotalResults,
	}).Info("Search completed")

	return result, nil
}

// queryProviders fans out to both directories concurrently. A failure on
// one side degrades to single-source results; both sides failing is an
// error.
func (s *Service) queryProviders(ctx context.Context, coords *models.Coordinates, radius float64, useGoogle bool) ([]models.BusinessRecord, []models.BusinessRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "search.Service.queryProviders")
	defer span.End()

	var (
		wg            sync.WaitGroup
		yelpRecords   []models.BusinessRecord
		googleRecords []models.BusinessRecord
		yelpErr       error
		googleErr     error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		yelpRecords, yelpErr = s.yelp.Search(ctx, coords.Lat, coords.Lng, radius)
	}()

	if useGoogle && s.google != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			googleRecords, googleErr = s.google.Search(ctx, coords.Lat, coords.Lng, radius)
		}()
	}

	wg.Wait()

	if yelpErr != nil && googleErr != nil {
		return nil, nil, fmt.Errorf("all providers failed: yelp: %v; google: %v", yelpErr, googleErr)
	}
	if yelpErr != nil {
		s.logger.WithContext(ctx).WithError(yelpErr).Warn("Yelp search failed, continuing with Google results only")
		yelpRecords = nil
	}
	if googleErr != nil {
		s.logger.WithContext(ctx).WithError(googleErr).Warn("Google search failed, continuing with Yelp results only")
		googleRecords = nil
	}

	return yelpRecords, googleRecords, nil
}

// enrich backfills hours, website and phone on provider records from the
// details API. Failures leave the record untouched.
func (s *Service) enrich(ctx context.Context, records []models.BusinessRecord) {
	if s.enricher == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "search.Service.enrich")
	defer span.End()

	for i := range records {
		record := &records[i]
		if record.ProviderID == "" || record.Hours != nil {
			continue
		}

		enrichment, err := s.enricher.Details(ctx, record.ProviderID)
		if err != nil || enrichment == nil {
			continue
		}

		if record.Hours == nil {
			record.Hours = enrichment.Hours
		}
		if record.Website == "" {
			record.Website = enrichment.Website
		}
		if record.Phone == "" {
			record.Phone = enrichment.Phone
		}
	}
}

func (s *Service) matchAndMerge(ctx context.Context, searchID string, yelpRecords, googleRecords []models.BusinessRecord) []models.MergedRecord {
	matchResult := s.engine.Match(ctx, yelpRecords, googleRecords)

	merged := make([]models.MergedRecord, 0, len(matchResult.Pairs)+len(matchResult.LeftOnly)+len(matchResult.RightOnly))

	for _, pair := range matchResult.Pairs {
		record := s.merger.Merge(&pair.Left, &pair.Right, pair.Score)
		merged = append(merged, record)

		metrics.RecordMatch(pair.Score)

		if err := s.emitter.EmitGymMerged(ctx, searchID, &record); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Failed to emit gym merged event")
		}
	}

	for i := range matchResult.LeftOnly {
		merged = append(merged, s.merger.Single(&matchResult.LeftOnly[i]))
	}
	for i := range matchResult.RightOnly {
		merged = append(merged, s.merger.Single(&matchResult.RightOnly[i]))
	}

	return merged
}

func (s *Service) persist(ctx context.Context, zipcode string, radius float64, result *models.SearchResult, elapsed time.Duration) {
	if s.gyms != nil {
		for i := range result.Gyms {
			row := toGymRow(&result.Gyms[i], zipcode)
			if _, err := s.gyms.Upsert(ctx, row); err != nil {
				s.logger.WithContext(ctx).WithError(err).Warnf("Failed to persist gym %q", row.Name)
			}
		}
	}

	if s.history != nil {
		params, _ := json.Marshal(map[string]any{
			"zipcode":      zipcode,
			"radius_miles": radius,
		})

		record := &models.SearchRecord{
			SearchType:      "zipcode",
			Query:           zipcode,
			RadiusMiles:     radius,
			ResultsCount:    len(result.Gyms),
			ExecutionTimeMS: elapsed.Milliseconds(),
			Parameters:      params,
		}

		if _, err := s.history.Create(ctx, record); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Failed to record search history")
		}
	}
}

func toGymRow(record *models.MergedRecord, zipcode string) *models.Gym {
	sources := make(models.StringList, 0, len(record.Sources))
	for _, source := range record.Sources {
		sources = append(sources, string(source))
	}

	raw, _ := json.Marshal(record)

	row := &models.Gym{
		Name:            record.Name,
		Address:         record.Address,
		Phone:           record.Phone,
		Website:         record.Website,
		Zipcode:         zipcode,
		Rating:          record.Rating,
		ReviewCount:     record.ReviewCount,
		PriceLevel:      record.PriceLevel,
		ConfidenceScore: record.MatchConfidence,
		DataSources:     sources,
		Source:          string(record.SourceLabel),
		RawData:         raw,
	}

	if record.Coordinates != nil {
		lat, lng := record.Coordinates.Lat, record.Coordinates.Lng
		row.Latitude = &lat
		row.Longitude = &lng
	}

	return row
}

func sortByConfidence(gyms []models.MergedRecord) {
	sort.SliceStable(gyms, func(i, j int) bool {
		if gyms[i].MatchConfidence != gyms[j].MatchConfidence {
			return gyms[i].MatchConfidence > gyms[j].MatchConfidence
		}
		ri, rj := 0.0, 0.0
		if gyms[i].Rating != nil {
			ri = *gyms[i].Rating
		}
		if gyms[j].Rating != nil {
			rj = *gyms[j].Rating
		}
		if ri != rj {
			return ri > rj
		}
		return gyms[i].Name < gyms[j].Name
	})
}

func buildInfo(zipcode string, coords models.Coordinates, radius float64, yelpRecords, googleRecords []models.BusinessRecord, merged []models.MergedRecord) models.SearchInfo {
	mergedCount := 0
	confidenceSum := 0.0
	for i := range merged {
		if merged[i].IsMerged() {
			mergedCount++
			confidenceSum += merged[i].MatchConfidence
		}
	}

	avgConfidence := 0.0
	if mergedCount > 0 {
		avgConfidence = confidenceSum / float64(mergedCount)
	}

	return models.SearchInfo{
		Zipcode:       zipcode,
		Coordinates:   coords,
		RadiusMiles:   radius,
		Timestamp:     time.Now().UTC(),
		TotalResults:  len(merged),
		YelpResults:   len(yelpRecords),
		GoogleResults: len(googleRecords),
		MergedCount:   mergedCount,
		AvgConfidence: avgConfidence,
	}
}
