// Package models defines the business records exchanged between the
// directory providers, the matching engine and the API layer.
package models

import "time"

// Source identifies which directory provider produced a record.
type Source string

const (
	// SourceYelp is the Yelp Fusion business search API.
	SourceYelp Source = "yelp"
	// SourceGoogle is the Google Places (New) nearby search API.
	SourceGoogle Source = "google"
	// SourceMerged marks a record assembled from both providers.
	SourceMerged Source = "merged"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OpeningHours carries whatever schedule data a provider returned.
// All fields are optional; scorers treat absence as neutral.
type OpeningHours struct {
	HasPeriods  bool     `json:"has_periods"`
	WeekdayText []string `json:"weekday_text,omitempty"`
	OpenNow     *bool    `json:"open_now,omitempty"`
}

// BusinessRecord is a single listing as returned by one provider.
// Name is the only required field; everything else may be absent.
// Absent numeric fields are nil pointers and must never participate
// in arithmetic.
type BusinessRecord struct {
	Name        string        `json:"name"`
	Address     string        `json:"address,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Rating      *float64      `json:"rating,omitempty"`
	ReviewCount int           `json:"review_count"`
	Price       string        `json:"price,omitempty"`       // display symbol, e.g. "$$"
	PriceLevel  *int          `json:"price_level,omitempty"` // numeric 0-4 tier
	URL         string        `json:"url,omitempty"`
	Website     string        `json:"website,omitempty"`
	Categories  string        `json:"categories,omitempty"` // free text, Yelp style
	Types       []string      `json:"types,omitempty"`      // tag set, Google style
	Coordinates *Coordinates  `json:"coordinates,omitempty"`
	Hours       *OpeningHours `json:"hours,omitempty"`
	ProviderID  string        `json:"provider_id,omitempty"`
	Source      Source        `json:"source"`
}

// HasCoordinates reports whether the record carries a usable geo point.
func (b *BusinessRecord) HasCoordinates() bool {
	return b.Coordinates != nil
}

// MergedRecord is the terminal output of the matching engine: either a
// single-source record tagged with its origin, or a two-source merge.
type MergedRecord struct {
	BusinessRecord

	Sources         []Source `json:"sources"`
	SourceLabel     Source   `json:"source_label"`
	MatchConfidence float64  `json:"match_confidence"`

	// PlaceID and OpenNow are provider metadata preserved through the
	// merge for downstream consumers.
	PlaceID string `json:"place_id,omitempty"`
	OpenNow *bool  `json:"open_now,omitempty"`
}

// IsMerged reports whether the record combined both providers.
func (m *MergedRecord) IsMerged() bool {
	return len(m.Sources) == 2
}

// MatchPair is one committed left/right assignment with its score and
// the per-signal breakdown that produced it.
type MatchPair struct {
	Left    BusinessRecord     `json:"left"`
	Right   BusinessRecord     `json:"right"`
	Score   float64            `json:"score"`
	Signals map[string]float64 `json:"signals,omitempty"`
}

// MatchResult is the full outcome of one match() call.
type MatchResult struct {
	Pairs     []MatchPair      `json:"pairs"`
	LeftOnly  []BusinessRecord `json:"left_only"`
	RightOnly []BusinessRecord `json:"right_only"`
}

// SearchInfo summarizes a completed search for callers and exports.
type SearchInfo struct {
	Zipcode       string      `json:"zipcode"`
	Coordinates   Coordinates `json:"coordinates"`
	RadiusMiles   float64     `json:"radius_miles"`
	Timestamp     time.Time   `json:"timestamp"`
	TotalResults  int         `json:"total_results"`
	YelpResults   int         `json:"yelp_results"`
	GoogleResults int         `json:"google_results"`
	MergedCount   int         `json:"merged_count"`
	AvgConfidence float64     `json:"avg_confidence"`
}

// SearchResult is the terminal artifact handed to presentation layers.
type SearchResult struct {
	Info SearchInfo     `json:"search_info"`
	Gyms []MergedRecord `json:"gyms"`
}
