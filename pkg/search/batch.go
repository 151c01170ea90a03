package search

import (
	"context"
	"fmt"
	"time"

	"github.com/a-deal/gym-finder/pkg/execution"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

// BatchResult is the outcome of a metro-wide search
type BatchResult struct {
	Metro   models.MetroArea       `json:"metro"`
	Stats   models.MetroStats      `json:"stats"`
	Gyms    []models.MergedRecord  `json:"gyms"`
	Results []*models.SearchResult `json:"results,omitempty"`
}

// SearchMetro fans out a search over every ZIP in a metro area and
// deduplicates the combined results.
func (s *Service) SearchMetro(ctx context.Context, metro models.MetroArea, radiusMiles float64, useGoogle bool) (*BatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "search.Service.SearchMetro")
	defer span.End()

	if len(metro.Zipcodes) == 0 {
		return nil, fmt.Errorf("metro area %s has no zipcodes", metro.Code)
	}

	start := time.Now()

	executor := execution.NewFanoutExecutor(s.config.MetroConcurrency, s.logger)
	fanout, err := executor.Execute(ctx, metro.Zipcodes, func(ctx context.Context, zipcode string) (*models.SearchResult, error) {
		return s.Search(ctx, Request{
			Zipcode:     zipcode,
			RadiusMiles: radiusMiles,
			UseGoogle:   useGoogle,
		})
	})
	if err != nil {
		return nil, err
	}

	combined := make([]models.MergedRecord, 0)
	totalGyms := 0
	for _, result := range fanout.Results {
		if result == nil {
			continue
		}
		totalGyms += len(result.Gyms)
		combined = append(combined, result.Gyms...)
	}

	unique := s.dedup(combined)
	sortByConfidence(unique)

	mergedCount := 0
	confidenceSum := 0.0
	for i := range unique {
		if unique[i].IsMerged() {
			mergedCount++
			confidenceSum += unique[i].MatchConfidence
		}
	}
	avgConfidence := 0.0
	if mergedCount > 0 {
		avgConfidence = confidenceSum / float64(mergedCount)
	}

	stats := models.MetroStats{
		Metro:          metro.Code,
		ZipcodesSet:    fanout.SuccessCount,
		ZipcodesFailed: fanout.FailureCount,
		TotalGyms:      totalGyms,
		UniqueGyms:     len(unique),
		MergedGyms:     mergedCount,
		AvgConfidence:  avgConfidence,
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"metro":       metro.Code,
		"zipcodes":    len(metro.Zipcodes),
		"failed":      fanout.FailureCount,
		"total_gyms":  totalGyms,
		"unique_gyms": len(unique),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Metro search completed")

	return &BatchResult{
		Metro:   metro,
		Stats:   stats,
		Gyms:    unique,
		Results: fanout.Results,
	}, nil
}

// dedup collapses duplicate gyms found from overlapping ZIP searches by
// re-scoring candidate pairs and keeping the higher-confidence record.
func (s *Service) dedup(gyms []models.MergedRecord) []models.MergedRecord {
	aggregator := s.engine.Aggregator()

	unique := make([]models.MergedRecord, 0, len(gyms))
	for i := range gyms {
		duplicate := -1
		for j := range unique {
			score, _ := aggregator.Score(&gyms[i].BusinessRecord, &unique[j].BusinessRecord)
			if score >= s.config.DedupThreshold {
				duplicate = j
				break
			}
		}

		if duplicate == -1 {
			unique = append(unique, gyms[i])
			continue
		}

		if gyms[i].MatchConfidence > unique[duplicate].MatchConfidence {
			unique[duplicate] = gyms[i]
		}
	}

	return unique
}
