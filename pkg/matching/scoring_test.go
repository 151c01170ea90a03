package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/a-deal/gym-finder/pkg/models"
)

func TestLevenshtein(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 1.0, s.Levenshtein("equinox", "equinox"))
	assert.Equal(t, 1.0, s.Levenshtein("", ""))
	assert.Equal(t, 0.0, s.Levenshtein("abc", "xyz"))

	// One substitution in seven characters.
	assert.InDelta(t, 6.0/7.0, s.Levenshtein("equinox", "equinoz"), 0.001)
}

func TestTokenSimilarity(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{
			name:     "identical after dropping generic words",
			a:        "Planet Fitness",
			b:        "Planet Fitness Gym",
			expected: 1.0,
		},
		{
			name:     "disjoint names",
			a:        "Planet Fitness",
			b:        "Equinox",
			expected: 0.0,
		},
		{
			name:     "partial overlap",
			a:        "Iron Temple Gym",
			b:        "Iron Paradise",
			expected: 1.0 / 3.0,
		},
		{
			name:     "both all-generic",
			a:        "Fitness Center",
			b:        "Gym Studio",
			expected: 1.0,
		},
		{
			name:     "empty side",
			a:        "",
			b:        "Equinox",
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, s.TokenSimilarity(tt.a, tt.b), 0.001)
		})
	}
}

func TestSemanticSimilarity(t *testing.T) {
	s := NewScorer()

	// Both in the martial-arts cluster.
	assert.Equal(t, 0.8, s.SemanticSimilarity("Karate Dojo", "Kung Fu Academy"))

	// Crossfit aliases.
	assert.Equal(t, 0.8, s.SemanticSimilarity("CrossFit Hell's Kitchen", "CF HK"))

	// Unrelated businesses.
	assert.Equal(t, 0.0, s.SemanticSimilarity("Yoga Studio", "Car Repair"))

	assert.Equal(t, 0.0, s.SemanticSimilarity("", "Yoga Studio"))
}

func TestNameSimilarity(t *testing.T) {
	s := NewScorer()

	// Token overlap dominates when one side adds a generic suffix.
	assert.Equal(t, 1.0, s.NameSimilarity("Planet Fitness", "Planet Fitness Gym"))

	// Exact match.
	assert.Equal(t, 1.0, s.NameSimilarity("Equinox", "equinox"))

	// Completely different names score low.
	assert.Less(t, s.NameSimilarity("Planet Fitness", "Equinox"), 0.5)
}

func TestChainMatch(t *testing.T) {
	s := NewScorer()

	// Same franchise, different locations.
	assert.Equal(t, chainMatchBonus, s.ChainMatch("Equinox Tribeca", "Equinox Upper East Side"))

	// Alias spellings.
	assert.Equal(t, chainMatchBonus, s.ChainMatch("Gold's Gym Venice", "Golds Gym"))

	// Different chains.
	assert.Equal(t, 0.0, s.ChainMatch("Planet Fitness", "Equinox"))

	assert.Equal(t, 0.0, s.ChainMatch("", "Equinox"))
}

func TestAddressSignal(t *testing.T) {
	s := NewScorer()
	w := DefaultWeights()

	// Identical normalized addresses earn ratio, street number, and
	// street name bonuses.
	signal := s.AddressSignal("123 main st ny", "123 main st ny", w)
	assert.InDelta(t, w.Address+w.StreetNumber+w.StreetName, signal, 0.001)

	// Different street numbers on the same street keep the fuzzy
	// portion but lose the number bonus.
	signal = s.AddressSignal("123 main st", "125 main st", w)
	assert.Greater(t, signal, 0.1)
	assert.Less(t, signal, w.Address+w.StreetName)

	// Missing side is neutral.
	assert.Equal(t, 0.0, s.AddressSignal("", "123 main st", w))
}

func TestPhoneMatch(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 1.0, s.PhoneMatch("5551234567", "5551234567"))
	assert.Equal(t, 0.0, s.PhoneMatch("5551234567", "5559876543"))

	// Short digit strings are not comparable.
	assert.Equal(t, 0.0, s.PhoneMatch("1234567", "1234567"))
	assert.Equal(t, 0.0, s.PhoneMatch("", ""))
}

func TestPhoneSuffixMatch(t *testing.T) {
	s := NewScorer()

	// Same last seven digits, different area code.
	assert.Equal(t, 0.7, s.PhoneSuffixMatch("2125551234", "9175551234"))

	// Same last four only.
	assert.Equal(t, 0.4, s.PhoneSuffixMatch("2125551234", "9178881234"))

	assert.Equal(t, 0.0, s.PhoneSuffixMatch("2125551234", "9178885678"))
	assert.Equal(t, 0.0, s.PhoneSuffixMatch("1234", "1234"))
}

func TestHaversine(t *testing.T) {
	s := NewScorer()

	midtown := models.Coordinates{Lat: 40.7484, Lng: -73.9940}
	downtown := models.Coordinates{Lat: 40.7047, Lng: -74.0142}

	assert.Equal(t, 0.0, s.Haversine(midtown, midtown))

	// Midtown to Financial District is roughly three miles.
	dist := s.Haversine(midtown, downtown)
	assert.Greater(t, dist, 2.5)
	assert.Less(t, dist, 4.0)
}

func TestProximitySignal(t *testing.T) {
	s := NewScorer()

	// Shared ZIP code wins without coordinates.
	assert.Equal(t, 0.05, s.ProximitySignal("1 Main St, New York, NY 10001", "2 Broad St, New York, NY 10001", nil, nil))

	// Different ZIPs, very close coordinates.
	a := &models.Coordinates{Lat: 40.7484, Lng: -73.9940}
	b := &models.Coordinates{Lat: 40.7489, Lng: -73.9945}
	assert.Equal(t, 0.05, s.ProximitySignal("", "", a, b))

	// Out of range.
	far := &models.Coordinates{Lat: 40.8000, Lng: -73.9000}
	assert.Equal(t, 0.0, s.ProximitySignal("", "", a, far))

	// No comparable location data.
	assert.Equal(t, 0.0, s.ProximitySignal("1 Main St", "2 Broad St", nil, nil))
}

func TestDomainMatch(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 1.0, s.DomainMatch("https://www.equinox.com/tribeca", "http://equinox.com"))
	assert.Equal(t, 0.0, s.DomainMatch("https://equinox.com", "https://planetfitness.com"))

	// The review site's own domain proves nothing.
	assert.Equal(t, 0.0, s.DomainMatch("https://yelp.com/biz/a", "https://yelp.com/biz/b"))

	assert.Equal(t, 0.0, s.DomainMatch("", "https://equinox.com"))
}

func TestCategorySignal(t *testing.T) {
	s := NewScorer()

	// Gym category against gym tags.
	assert.Equal(t, 0.8, s.CategorySignal("Gyms, Trainers", []string{"gym", "health"}))

	// Yoga maps through wellness.
	assert.InDelta(t, 0.72, s.CategorySignal("Yoga", []string{"wellness"}), 0.001)

	// No taxonomy hit.
	assert.Equal(t, 0.0, s.CategorySignal("Pizza", []string{"restaurant"}))

	// Missing side is neutral.
	assert.Equal(t, 0.0, s.CategorySignal("", []string{"gym"}))
	assert.Equal(t, 0.0, s.CategorySignal("Gyms", nil))
}

func TestPriceSignal(t *testing.T) {
	s := NewScorer()

	two := 2
	three := 3

	assert.Equal(t, 1.0, s.PriceSignal("$$", &two))
	assert.Equal(t, 0.5, s.PriceSignal("$$", &three))
	assert.Equal(t, 0.0, s.PriceSignal("$", &three))
	assert.Equal(t, 0.0, s.PriceSignal("", &two))
	assert.Equal(t, 0.0, s.PriceSignal("$$", nil))
}

func TestHoursSignal(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 0.0, s.HoursSignal(nil))

	open := true
	full := &models.OpeningHours{
		HasPeriods: true,
		OpenNow:    &open,
		WeekdayText: []string{
			"Monday: Open 24 hours", "Tuesday: Open 24 hours",
			"Wednesday: Open 24 hours", "Thursday: Open 24 hours",
			"Friday: Open 24 hours", "Saturday: Open 24 hours",
			"Sunday: Open 24 hours",
		},
	}

	// All increments together hit the cap.
	assert.Equal(t, 0.3, s.HoursSignal(full))

	partial := &models.OpeningHours{HasPeriods: true}
	assert.InDelta(t, 0.15, s.HoursSignal(partial), 0.001)
}

func TestReviewCountSignal(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 0.12, s.ReviewCountSignal(100, 90))
	assert.Equal(t, 0.09, s.ReviewCountSignal(100, 70))
	assert.Equal(t, 0.03, s.ReviewCountSignal(100, 25))
	assert.Equal(t, 0.0, s.ReviewCountSignal(100, 5))

	// Two tiny businesses get the floor bonus.
	assert.Equal(t, smallBusinessFloor, s.ReviewCountSignal(3, 9))

	// Zero counts are neutral.
	assert.Equal(t, 0.0, s.ReviewCountSignal(0, 50))
}

func TestSiteQualitySignal(t *testing.T) {
	s := NewScorer()

	// Real https business site with professional TLD.
	assert.InDelta(t, 0.08, s.SiteQualitySignal("", "https://ironparadise.com"), 0.001)

	// Yelp profile URL adds its increment.
	assert.InDelta(t, 0.1, s.SiteQualitySignal("https://yelp.com/biz/iron-paradise", "https://ironparadise.com"), 0.001)

	// Maps link is not a business website.
	assert.InDelta(t, 0.0, s.SiteQualitySignal("", "https://maps.google.com/?cid=123"), 0.001)

	assert.Equal(t, 0.0, s.SiteQualitySignal("", ""))
}
