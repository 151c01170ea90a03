package matching

import (
	"math"
	"regexp"
	"strings"

	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/normalizers"
)

// Scorer provides the individual similarity signals used to compare two
// gym listings. All methods are pure: no I/O, no shared state, identical
// inputs always produce identical outputs. Missing values on either side
// score 0, never a penalty.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Levenshtein calculates edit-distance similarity between two strings.
// Returns a value between 0.0 and 1.0.
func (s *Scorer) Levenshtein(a, b string) float64 {
	distance := s.LevenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance calculates the edit distance between two strings
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

// genericGymWords carry no discriminative value between two gym names.
var genericGymWords = map[string]bool{
	"gym": true, "fitness": true, "center": true, "club": true,
	"studio": true, "training": true, "academy": true, "health": true,
	"wellness": true,
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

// TokenSimilarity computes Jaccard similarity between the word sets of
// two names after discarding generic gym vocabulary.
func (s *Scorer) TokenSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 1.0
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	intersection := 0
	union := len(tokensB)
	for tok := range tokensA {
		if tokensB[tok] {
			intersection++
		} else {
			union++
		}
	}

	return float64(intersection) / float64(union)
}

func tokenSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range wordRe.FindAllString(strings.ToLower(name), -1) {
		if !genericGymWords[tok] {
			set[tok] = true
		}
	}
	return set
}

// semanticGroups clusters fitness-industry terms that describe the same
// kind of business under different branding.
var semanticGroups = map[string][]string{
	"crossfit":     {"crossfit", "cf", "cross fit"},
	"yoga":         {"yoga", "yogi", "namaste", "zen"},
	"pilates":      {"pilates", "barre", "reformer"},
	"boxing":       {"boxing", "box", "fight", "combat", "mma", "mixed martial arts"},
	"cycling":      {"cycling", "spin", "cycle", "bike", "peloton"},
	"dance":        {"dance", "ballet", "zumba", "salsa"},
	"strength":     {"strength", "powerlifting", "weights", "iron", "barbell"},
	"cardio":       {"cardio", "treadmill", "running", "marathon"},
	"martial arts": {"karate", "kung fu", "taekwondo", "judo", "aikido", "bjj", "jiu jitsu"},
}

const semanticMatchScore = 0.8

// SemanticSimilarity returns a fixed high score when both names contain
// terms from the same fitness-industry cluster, 0 otherwise.
func (s *Scorer) SemanticSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	aLower := strings.ToLower(a)
	bLower := strings.ToLower(b)

	for _, terms := range semanticGroups {
		aHas := containsAny(aLower, terms)
		bHas := containsAny(bLower, terms)
		if aHas && bHas {
			return semanticMatchScore
		}
	}
	return 0.0
}

// NameSimilarity is the composite name signal: the best of raw edit
// similarity, cleaned-name edit similarity, token overlap, and semantic
// clustering.
func (s *Scorer) NameSimilarity(a, b string) float64 {
	aLower := strings.ToLower(strings.TrimSpace(a))
	bLower := strings.ToLower(strings.TrimSpace(b))
	if aLower == "" || bLower == "" {
		return 0.0
	}

	aClean := normalizers.CleanName(aLower)
	bClean := normalizers.CleanName(bLower)

	best := s.Levenshtein(aLower, bLower)
	if v := s.Levenshtein(aClean, bClean); v > best {
		best = v
	}
	if v := s.TokenSimilarity(aLower, bLower); v > best {
		best = v
	}
	if v := s.SemanticSimilarity(aClean, bClean); v > best {
		best = v
	}
	return best
}

// gymChains lists major franchise names with the alias spellings each
// provider is known to use.
var gymChains = [][]string{
	{"planet fitness", "planet"},
	{"la fitness", "la fit"},
	{"24 hour fitness", "24hr fitness", "24 fitness"},
	{"anytime fitness", "anytime"},
	{"gold's gym", "golds gym", "gold gym"},
	{"crunch fitness", "crunch"},
	{"equinox", "equinox fitness"},
	{"lifetime fitness", "life time"},
	{"snap fitness", "snap"},
	{"curves", "curves fitness"},
	{"orange theory", "orangetheory"},
	{"f45", "f45 training"},
	{"crossfit", "cf", "cross fit"},
	{"soulcycle", "soul cycle"},
	{"barry's bootcamp", "barrys", "barry"},
	{"pure barre", "purebarre"},
	{"flywheel", "flywheel sports"},
}

const chainMatchBonus = 0.2

// ChainMatch returns a fixed bonus when both names reference the same
// franchise, even if the full names (location qualifiers, neighborhood
// tags) differ completely.
func (s *Scorer) ChainMatch(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	aLower := strings.ToLower(a)
	bLower := strings.ToLower(b)

	for _, variants := range gymChains {
		if containsAny(aLower, variants) && containsAny(bLower, variants) {
			return chainMatchBonus
		}
	}
	return 0.0
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

var (
	leadingNumberRe = regexp.MustCompile(`^\d+`)
	streetNameRe    = regexp.MustCompile(`\d+\s+([^,]+)`)
)

// AddressSignal compares two normalized addresses. It combines overall
// edit similarity with exact street-number and fuzzy street-name bonuses.
// Bounded to roughly [0, 0.28] under default weights.
func (s *Scorer) AddressSignal(a, b string, w Weights) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	signal := s.Levenshtein(a, b) * w.Address

	numA := leadingNumberRe.FindString(a)
	numB := leadingNumberRe.FindString(b)
	if numA != "" && numA == numB {
		signal += w.StreetNumber
	}

	streetA := streetNameRe.FindStringSubmatch(a)
	streetB := streetNameRe.FindStringSubmatch(b)
	if streetA != nil && streetB != nil {
		if s.Levenshtein(streetA[1], streetB[1]) > 0.8 {
			signal += w.StreetName
		}
	}

	return signal
}

// PhoneMatch scores two normalized phone numbers. Only full numbers
// (10+ digits) on both sides are comparable; exact equality is the only
// credited outcome.
func (s *Scorer) PhoneMatch(a, b string) float64 {
	if len(a) < 10 || len(b) < 10 {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

// PhoneSuffixMatch is the legacy lenient phone rule: partial credit when
// the last 7 or last 4 digits agree. Off by default; see Config.
func (s *Scorer) PhoneSuffixMatch(a, b string) float64 {
	if len(a) < 7 || len(b) < 7 {
		return 0.0
	}
	if a[len(a)-7:] == b[len(b)-7:] {
		return 0.7
	}
	if a[len(a)-4:] == b[len(b)-4:] {
		return 0.4
	}
	return 0.0
}

// Haversine returns the great-circle distance between two points in
// miles.
func (s *Scorer) Haversine(a, b models.Coordinates) float64 {
	const earthRadiusMiles = 3959

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Asin(math.Sqrt(h))

	return c * earthRadiusMiles
}

// Proximity distance tiers in miles.
const (
	proximityTightMiles = 0.1
	proximityNearMiles  = 0.25
)

// ProximitySignal awards a small bonus for records in the same 5-digit
// ZIP, or failing that, for coordinates within tight distance tiers.
func (s *Scorer) ProximitySignal(addrA, addrB string, coordA, coordB *models.Coordinates) float64 {
	zipA := normalizers.ZipCode(addrA)
	zipB := normalizers.ZipCode(addrB)
	if zipA != "" && zipA == zipB {
		return 0.05
	}

	if coordA == nil || coordB == nil {
		return 0.0
	}

	switch dist := s.Haversine(*coordA, *coordB); {
	case dist < proximityTightMiles:
		return 0.05
	case dist < proximityNearMiles:
		return 0.03
	default:
		return 0.0
	}
}

// reviewSiteDomains are the providers' own domains; two listings both
// pointing at the review site say nothing about shared identity.
var reviewSiteDomains = map[string]bool{
	"yelp.com": true, "google.com": true, "goo.gl": true, "maps.google.com": true,
}

// DomainMatch returns 1.0 when both URLs resolve to the same non-empty
// business domain, excluding the review sites' own domains.
func (s *Scorer) DomainMatch(urlA, urlB string) float64 {
	domA := normalizers.Domain(urlA)
	domB := normalizers.Domain(urlB)
	if domA == "" || domA != domB {
		return 0.0
	}
	if reviewSiteDomains[domA] {
		return 0.0
	}
	return 1.0
}

// categoryEntry maps a category keyword found in one provider's free
// text to the tag vocabulary the other provider uses, with a weight for
// how discriminative the keyword is.
type categoryEntry struct {
	keyword string
	tags    []string
	weight  float64
}

var fitnessTaxonomy = []categoryEntry{
	{"gym", []string{"gym", "fitness", "health"}, 1.0},
	{"fitness", []string{"gym", "fitness", "health", "wellness"}, 1.0},
	{"yoga", []string{"yoga", "health", "wellness"}, 0.9},
	{"martial_arts", []string{"gym", "health"}, 0.9},
	{"pilates", []string{"health", "wellness"}, 0.9},
	{"boxing", []string{"gym", "health"}, 0.9},
	{"dance", []string{"health", "wellness"}, 0.8},
}

const categoryMatchScore = 0.8

// CategorySignal compares one provider's free-text category string with
// the other's tag set through a fitness-business taxonomy. Returns the
// best taxonomy hit scaled by its weight, in [0, 0.8].
func (s *Scorer) CategorySignal(categories string, types []string) float64 {
	if categories == "" || len(types) == 0 {
		return 0.0
	}

	catLower := strings.ToLower(categories)
	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[strings.ToLower(t)] = true
	}

	best := 0.0
	for _, entry := range fitnessTaxonomy {
		if !strings.Contains(catLower, entry.keyword) {
			continue
		}
		for _, tag := range entry.tags {
			if typeSet[tag] {
				if v := categoryMatchScore * entry.weight; v > best {
					best = v
				}
				break
			}
		}
	}
	return best
}

// priceSymbolLevels maps display price symbols to the numeric 1-4 scale.
var priceSymbolLevels = map[string]int{
	"$": 1, "$$": 2, "$$$": 3, "$$$$": 4,
}

// PriceSignal compares a price symbol against a numeric price tier.
// Exact tier match returns 1.0, adjacent tiers 0.5.
func (s *Scorer) PriceSignal(symbol string, level *int) float64 {
	if level == nil {
		return 0.0
	}
	symLevel, ok := priceSymbolLevels[symbol]
	if !ok {
		return 0.0
	}

	switch diff := symLevel - *level; {
	case diff == 0:
		return 1.0
	case diff == 1 || diff == -1:
		return 0.5
	default:
		return 0.0
	}
}

// HoursSignal scores the presence and completeness of structured
// schedule data. Capped at 0.3.
func (s *Scorer) HoursSignal(hours *models.OpeningHours) float64 {
	if hours == nil {
		return 0.0
	}

	signal := 0.0

	if hours.HasPeriods || len(hours.WeekdayText) > 0 {
		signal += 0.15
	}
	if hours.OpenNow != nil {
		signal += 0.10
	}

	for _, desc := range hours.WeekdayText {
		lower := strings.ToLower(desc)
		if strings.Contains(lower, "24 hours") || strings.Contains(lower, "open 24") {
			signal += 0.05
			break
		}
	}

	if len(hours.WeekdayText) >= 7 {
		signal += 0.05
	}

	return math.Min(signal, 0.3)
}

// Review-count ratio tiers.
var reviewTiers = []struct {
	ratio float64
	score float64
}{
	{0.8, 0.12},
	{0.6, 0.09},
	{0.4, 0.06},
	{0.2, 0.03},
}

const smallBusinessFloor = 0.06

// ReviewCountSignal correlates review volumes: similar counts suggest
// the same business. Two very small businesses get a floor bonus since
// their absolute counts are too noisy to tier.
func (s *Scorer) ReviewCountSignal(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0.0
	}

	if a <= 10 && b <= 10 {
		return smallBusinessFloor
	}

	ratio := float64(min(a, b)) / float64(max(a, b))
	for _, tier := range reviewTiers {
		if ratio > tier.ratio {
			return tier.score
		}
	}
	return 0.0
}

var fitnessTLDHints = []string{".fit", ".fitness", ".gym", ".com", ".net", ".org"}

// SiteQualitySignal is a weak-evidence heuristic on the listing URLs:
// a real business website, professional TLD, https, and an established
// review-site profile each add a small increment. Capped at 0.1.
func (s *Scorer) SiteQualitySignal(url, website string) float64 {
	signal := 0.0

	if website != "" && !strings.Contains(website, "maps.google") {
		signal += 0.04

		lower := strings.ToLower(website)
		for _, hint := range fitnessTLDHints {
			if strings.Contains(lower, hint) {
				signal += 0.02
				break
			}
		}
		if strings.HasPrefix(lower, "https://") {
			signal += 0.02
		}
	}

	if strings.Contains(strings.ToLower(url), "yelp.com/biz/") {
		signal += 0.02
	}

	return math.Min(signal, 0.1)
}
