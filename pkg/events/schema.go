package events

import "time"

// EventType defines the type of event
type EventType string

const (
	// EventTypeSearchCompleted is emitted after a search finishes
	EventTypeSearchCompleted EventType = "search.completed"

	// EventTypeGymMerged is emitted when two provider records merge
	EventTypeGymMerged EventType = "gym.merged"
)

// SearchCompletedEvent summarizes a finished search run
type SearchCompletedEvent struct {
	SchemaVersion string    `json:"schema_version"`
	SearchID      string    `json:"search_id"`
	Zipcode       string    `json:"zipcode"`
	RadiusMiles   float64   `json:"radius_miles"`
	YelpCount     int       `json:"yelp_count"`
	GoogleCount   int       `json:"google_count"`
	MergedCount   int       `json:"merged_count"`
	TotalCount    int       `json:"total_count"`
	DurationMS    int64     `json:"duration_ms"`
	Timestamp     time.Time `json:"timestamp"`
}

// GymMergedEvent records a cross-provider merge
type GymMergedEvent struct {
	SchemaVersion string   `json:"schema_version"`
	SearchID      string   `json:"search_id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Confidence    float64  `json:"confidence"`
	Sources       []string `json:"sources"`
}
