// Package providers defines the directory provider abstraction. Each
// provider queries one upstream business directory and maps its responses
// into the shared record model.
package providers

import (
	"context"

	"github.com/a-deal/gym-finder/pkg/models"
)

// Provider queries a business directory for gyms near a coordinate.
type Provider interface {
	// Name identifies the directory this provider queries
	Name() models.Source

	// Search returns gyms within radiusMiles of the given coordinate.
	// A provider returns an empty slice, not an error, when the upstream
	// directory has no results.
	Search(ctx context.Context, lat, lng, radiusMiles float64) ([]models.BusinessRecord, error)
}

// MetersPerMile converts the request radius to the unit upstream APIs use
const MetersPerMile = 1609.34
