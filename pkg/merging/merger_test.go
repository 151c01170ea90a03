package merging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-deal/gym-finder/pkg/models"
)

func TestMergePrecedence(t *testing.T) {
	m := NewMerger()

	yelpRating := 4.5
	googleRating := 4.2
	googleLevel := 2
	open := true

	left := models.BusinessRecord{
		Name:        "Planet Fitness",
		Address:     "123 Main St",
		Phone:       "5551234567",
		Rating:      &yelpRating,
		ReviewCount: 120,
		Price:       "$$",
		URL:         "https://yelp.com/biz/planet-fitness",
		Categories:  "Gyms, Trainers",
		Source:      models.SourceYelp,
		ProviderID:  "yelp-abc",
	}
	right := models.BusinessRecord{
		Name:        "Planet Fitness Gym",
		Address:     "123 Main Street, New York, NY 10001",
		Phone:       "5559999999",
		Rating:      &googleRating,
		ReviewCount: 340,
		PriceLevel:  &googleLevel,
		Website:     "https://planetfitness.com",
		Types:       []string{"gym", "health"},
		Coordinates: &models.Coordinates{Lat: 40.7484, Lng: -73.9940},
		Hours:       &models.OpeningHours{HasPeriods: true, OpenNow: &open},
		Source:      models.SourceGoogle,
		ProviderID:  "google-xyz",
	}

	merged := m.Merge(&left, &right, 0.82)

	// Left source wins identity fields.
	assert.Equal(t, "Planet Fitness", merged.Name)
	assert.Equal(t, "5551234567", merged.Phone)
	assert.Equal(t, "$$", merged.Price)
	assert.Equal(t, "https://yelp.com/biz/planet-fitness", merged.URL)
	assert.Equal(t, "Gyms, Trainers", merged.Categories)

	// Longest address wins.
	assert.Equal(t, "123 Main Street, New York, NY 10001", merged.Address)

	// Right source wins geo and tag metadata.
	require.NotNil(t, merged.Coordinates)
	assert.Equal(t, 40.7484, merged.Coordinates.Lat)
	assert.Equal(t, []string{"gym", "health"}, merged.Types)
	assert.Equal(t, "google-xyz", merged.PlaceID)
	require.NotNil(t, merged.OpenNow)
	assert.True(t, *merged.OpenNow)
	assert.Equal(t, "https://planetfitness.com", merged.Website)

	// Rating prefers the right side when present.
	require.NotNil(t, merged.Rating)
	assert.Equal(t, googleRating, *merged.Rating)

	// Review count takes the max.
	assert.Equal(t, 340, merged.ReviewCount)

	// Merge metadata.
	assert.Equal(t, []models.Source{models.SourceYelp, models.SourceGoogle}, merged.Sources)
	assert.Equal(t, models.SourceMerged, merged.SourceLabel)
	assert.Equal(t, 0.82, merged.MatchConfidence)
	assert.True(t, merged.IsMerged())
}

func TestMergeFallsBackToLeftMetadata(t *testing.T) {
	m := NewMerger()

	yelpRating := 4.0
	left := models.BusinessRecord{
		Name:        "Iron Temple",
		Address:     "50 Court St",
		Phone:       "",
		Rating:      &yelpRating,
		Coordinates: &models.Coordinates{Lat: 40.6892, Lng: -73.9902},
		Source:      models.SourceYelp,
	}
	right := models.BusinessRecord{
		Name:   "Iron Temple Gym",
		Phone:  "7185550123",
		Source: models.SourceGoogle,
	}

	merged := m.Merge(&left, &right, 0.5)

	// Right phone fills the gap.
	assert.Equal(t, "7185550123", merged.Phone)

	// Left rating and coordinates survive when the right side has none.
	require.NotNil(t, merged.Rating)
	assert.Equal(t, yelpRating, *merged.Rating)
	require.NotNil(t, merged.Coordinates)
	assert.Equal(t, 40.6892, merged.Coordinates.Lat)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	m := NewMerger()

	left := models.BusinessRecord{
		Name:    "Crunch",
		Address: "404 Lafayette St",
		Source:  models.SourceYelp,
	}
	right := models.BusinessRecord{
		Name:        "Crunch Fitness",
		Address:     "404 Lafayette Street",
		Coordinates: &models.Coordinates{Lat: 40.7281, Lng: -73.9916},
		Source:      models.SourceGoogle,
	}

	merged := m.Merge(&left, &right, 0.6)

	// Mutating the output must not reach back into the inputs.
	merged.Coordinates.Lat = 0
	assert.Equal(t, 40.7281, right.Coordinates.Lat)
	assert.Equal(t, "Crunch", left.Name)
	assert.Equal(t, "Crunch Fitness", right.Name)
}

func TestSingle(t *testing.T) {
	m := NewMerger()

	yelp := models.BusinessRecord{
		Name:   "Pure Barre",
		Source: models.SourceYelp,
	}
	tagged := m.Single(&yelp)
	assert.Equal(t, []models.Source{models.SourceYelp}, tagged.Sources)
	assert.Equal(t, models.SourceYelp, tagged.SourceLabel)
	assert.Equal(t, 0.0, tagged.MatchConfidence)
	assert.False(t, tagged.IsMerged())
	assert.Empty(t, tagged.PlaceID)

	open := false
	google := models.BusinessRecord{
		Name:       "SoulCycle",
		Source:     models.SourceGoogle,
		ProviderID: "google-123",
		Hours:      &models.OpeningHours{OpenNow: &open},
	}
	tagged = m.Single(&google)
	assert.Equal(t, "google-123", tagged.PlaceID)
	require.NotNil(t, tagged.OpenNow)
	assert.False(t, *tagged.OpenNow)
}
