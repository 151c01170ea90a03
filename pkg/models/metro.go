package models

import (
	"time"

	"github.com/google/uuid"
)

// MetroArea is a named metropolitan region with the zipcodes that
// cover it for batch searches.
type MetroArea struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Code            string     `json:"code" db:"code"`
	Name            string     `json:"name" db:"name"`
	Description     string     `json:"description" db:"description"`
	State           string     `json:"state" db:"state"`
	Population      *int       `json:"population,omitempty" db:"population"`
	DensityCategory string     `json:"density_category" db:"density_category"` // low, medium, high, very_high
	Zipcodes        StringList `json:"zipcodes" db:"zip_codes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// MetroStats aggregates the outcome of a metro-wide batch search.
type MetroStats struct {
	Metro          string  `json:"metro"`
	ZipcodesSet    int     `json:"zipcodes_searched"`
	ZipcodesFailed int     `json:"zipcodes_failed"`
	TotalGyms      int     `json:"total_gyms"`
	UniqueGyms     int     `json:"unique_gyms"`
	MergedGyms     int     `json:"merged_gyms"`
	AvgConfidence  float64 `json:"avg_confidence"`
}
