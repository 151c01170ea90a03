package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StringList is a []string stored as a JSONB column.
type StringList []string

// Value implements driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *StringList) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Gym is a persisted merged gym record.
type Gym struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Address         string          `json:"address" db:"address"`
	Phone           string          `json:"phone" db:"phone"`
	Website         string          `json:"website" db:"website"`
	Latitude        *float64        `json:"latitude" db:"latitude"`
	Longitude       *float64        `json:"longitude" db:"longitude"`
	Zipcode         string          `json:"zipcode" db:"zipcode"`
	Rating          *float64        `json:"rating" db:"rating"`
	ReviewCount     int             `json:"review_count" db:"review_count"`
	PriceLevel      *int            `json:"price_level" db:"price_level"`
	ConfidenceScore float64         `json:"confidence_score" db:"confidence_score"`
	DataSources     StringList      `json:"data_sources" db:"data_sources"`
	Source          string          `json:"source" db:"source"`
	RawData         json.RawMessage `json:"raw_data,omitempty" db:"raw_data"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}

// SearchRecord is one row of search history.
type SearchRecord struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	SearchType      string          `json:"search_type" db:"search_type"` // zipcode, metro
	Query           string          `json:"query" db:"query"`
	RadiusMiles     float64         `json:"radius_miles" db:"radius_miles"`
	ResultsCount    int             `json:"results_count" db:"results_count"`
	ExecutionTimeMS int64           `json:"execution_time_ms" db:"execution_time_ms"`
	Parameters      json.RawMessage `json:"parameters,omitempty" db:"parameters"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
