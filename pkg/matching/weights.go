package matching

import (
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/normalizers"
)

// Weights holds the contribution of each signal to the aggregate
// confidence score. Most entries multiply a signal bounded to [0,1];
// StreetNumber and StreetName are flat bonuses, Chain scales the fixed
// chain bonus, and the Boost entries are the discrete name-quality
// boosts.
type Weights struct {
	Name         float64
	Address      float64
	StreetNumber float64
	StreetName   float64
	Phone        float64
	Chain        float64
	Category     float64
	Price        float64
	Domain       float64

	// Self-bounded signals (hours, proximity, review count, site
	// quality) are multiplied by these, normally 1.0.
	Hours       float64
	Proximity   float64
	ReviewCount float64
	SiteQuality float64

	BoostExcellent float64 // name similarity > 0.9
	BoostVeryGood  float64 // name similarity > 0.8
	BoostGood      float64 // name similarity > 0.7
}

// DefaultWeights returns the tuned production weight table. Name,
// address and phone carry the bulk of the score; everything else is a
// capped bonus.
func DefaultWeights() Weights {
	return Weights{
		Name:         0.30,
		Address:      0.20,
		StreetNumber: 0.05,
		StreetName:   0.03,
		Phone:        0.15,
		Chain:        0.5,
		Category:     0.15,
		Price:        0.05,
		Domain:       0.05,

		Hours:       1.0,
		Proximity:   1.0,
		ReviewCount: 1.0,
		SiteQuality: 1.0,

		BoostExcellent: 0.05,
		BoostVeryGood:  0.03,
		BoostGood:      0.02,
	}
}

// Signal breakdown keys.
const (
	SignalName        = "name"
	SignalNameBoost   = "name_boost"
	SignalAddress     = "address"
	SignalPhone       = "phone"
	SignalChain       = "chain"
	SignalProximity   = "proximity"
	SignalDomain      = "domain"
	SignalCategory    = "category"
	SignalPrice       = "price"
	SignalHours       = "hours"
	SignalReviewCount = "review_count"
	SignalSiteQuality = "site_quality"
)

// Aggregator combines the individual signals into one confidence score
// per candidate pair. Scores are deterministic and not normalized to
// [0,1]: co-occurring bonuses can push past 1.0, and callers threshold
// the raw value rather than read it as a probability.
type Aggregator struct {
	scorer      *Scorer
	weights     Weights
	phoneSuffix bool
}

// NewAggregator creates an Aggregator with the given weight table.
// phoneSuffix enables the legacy lenient phone rule as a secondary
// signal behind the canonical exact match.
func NewAggregator(weights Weights, phoneSuffix bool) *Aggregator {
	return &Aggregator{
		scorer:      NewScorer(),
		weights:     weights,
		phoneSuffix: phoneSuffix,
	}
}

// Score evaluates a candidate pair and returns the aggregate confidence
// with its per-signal breakdown. The breakdown holds weighted
// contributions; summing it reproduces the total.
func (a *Aggregator) Score(left, right *models.BusinessRecord) (float64, map[string]float64) {
	signals := make(map[string]float64)
	w := a.weights

	nameSim := a.scorer.NameSimilarity(left.Name, right.Name)
	signals[SignalName] = nameSim * w.Name

	// Excellent-name boosts are mutually exclusive: highest applicable
	// tier only.
	switch {
	case nameSim > 0.9:
		signals[SignalNameBoost] = w.BoostExcellent
	case nameSim > 0.8:
		signals[SignalNameBoost] = w.BoostVeryGood
	case nameSim > 0.7:
		signals[SignalNameBoost] = w.BoostGood
	}

	addrLeft := normalizers.Address(left.Address)
	addrRight := normalizers.Address(right.Address)
	if v := a.scorer.AddressSignal(addrLeft, addrRight, w); v > 0 {
		signals[SignalAddress] = v
	}

	phoneLeft := normalizers.Phone(left.Phone)
	phoneRight := normalizers.Phone(right.Phone)
	phone := a.scorer.PhoneMatch(phoneLeft, phoneRight)
	if phone == 0 && a.phoneSuffix {
		phone = a.scorer.PhoneSuffixMatch(phoneLeft, phoneRight)
	}
	if phone > 0 {
		signals[SignalPhone] = phone * w.Phone
	}

	if v := a.scorer.ChainMatch(left.Name, right.Name); v > 0 {
		signals[SignalChain] = v * w.Chain
	}

	if v := a.scorer.ProximitySignal(left.Address, right.Address, left.Coordinates, right.Coordinates); v > 0 {
		signals[SignalProximity] = v * w.Proximity
	}

	if v := a.scorer.DomainMatch(bestURL(left), bestURL(right)); v > 0 {
		signals[SignalDomain] = v * w.Domain
	}

	if v := a.scorer.CategorySignal(left.Categories, right.Types); v > 0 {
		signals[SignalCategory] = v * w.Category
	}

	if v := a.scorer.PriceSignal(left.Price, right.PriceLevel); v > 0 {
		signals[SignalPrice] = v * w.Price
	}

	if v := a.scorer.HoursSignal(right.Hours); v > 0 {
		signals[SignalHours] = v * w.Hours
	}

	if v := a.scorer.ReviewCountSignal(left.ReviewCount, right.ReviewCount); v > 0 {
		signals[SignalReviewCount] = v * w.ReviewCount
	}

	if v := a.scorer.SiteQualitySignal(left.URL, right.Website); v > 0 {
		signals[SignalSiteQuality] = v * w.SiteQuality
	}

	total := 0.0
	for _, v := range signals {
		total += v
	}
	return total, signals
}

// bestURL prefers a business website over the provider listing URL.
func bestURL(r *models.BusinessRecord) string {
	if r.Website != "" {
		return r.Website
	}
	return r.URL
}
