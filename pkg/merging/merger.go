// Package merging builds canonical gym records from matched listing
// pairs under fixed field-level precedence rules.
package merging

import (
	"github.com/a-deal/gym-finder/pkg/models"
)

// Merger assembles MergedRecords. The precedence table is fixed: the
// left (primary) source wins for identity fields like name and phone,
// the right source wins for geo and tag metadata, and numeric volume
// fields take the max of both sides. Input records are never mutated.
type Merger struct{}

// NewMerger creates a new Merger
func NewMerger() *Merger {
	return &Merger{}
}

// Merge combines a matched pair into a single canonical record carrying
// both sources and the aggregator's raw confidence score.
func (m *Merger) Merge(left, right *models.BusinessRecord, score float64) models.MergedRecord {
	merged := models.MergedRecord{
		BusinessRecord: models.BusinessRecord{
			Name:        left.Name,
			Address:     longest(left.Address, right.Address),
			Phone:       preferNonEmpty(left.Phone, right.Phone),
			Rating:      preferNonNil(right.Rating, left.Rating),
			ReviewCount: max(left.ReviewCount, right.ReviewCount),
			Price:       preferNonEmpty(left.Price, right.Price),
			PriceLevel:  preferNonNil(right.PriceLevel, left.PriceLevel),
			URL:         left.URL,
			Website:     preferNonEmpty(right.Website, left.Website),
			Categories:  left.Categories,
			Types:       right.Types,
			Coordinates: coalesceCoords(right.Coordinates, left.Coordinates),
			Hours:       coalesceHours(right.Hours, left.Hours),
			Source:      models.SourceMerged,
		},
		Sources:         []models.Source{left.Source, right.Source},
		SourceLabel:     models.SourceMerged,
		MatchConfidence: score,
		PlaceID:         right.ProviderID,
	}

	if right.Hours != nil {
		merged.OpenNow = right.Hours.OpenNow
	}

	return merged
}

// Single tags an unmatched record with its sole source and zero
// confidence.
func (m *Merger) Single(record *models.BusinessRecord) models.MergedRecord {
	merged := models.MergedRecord{
		BusinessRecord:  *record,
		Sources:         []models.Source{record.Source},
		SourceLabel:     record.Source,
		MatchConfidence: 0.0,
	}

	if record.Source == models.SourceGoogle {
		merged.PlaceID = record.ProviderID
		if record.Hours != nil {
			merged.OpenNow = record.Hours.OpenNow
		}
	}

	return merged
}

// Field strategies

func preferNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func longest(a, b string) string {
	if len(b) > len(a) {
		return b
	}
	return a
}

func preferNonNil[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}

func coalesceCoords(a, b *models.Coordinates) *models.Coordinates {
	if a != nil {
		c := *a
		return &c
	}
	if b != nil {
		c := *b
		return &c
	}
	return nil
}

func coalesceHours(a, b *models.OpeningHours) *models.OpeningHours {
	if a != nil {
		h := *a
		return &h
	}
	if b != nil {
		h := *b
		return &h
	}
	return nil
}
