package matching

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-deal/gym-finder/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func yelpRecord(name, address, phone string) models.BusinessRecord {
	return models.BusinessRecord{
		Name:    name,
		Address: address,
		Phone:   phone,
		Source:  models.SourceYelp,
	}
}

func googleRecord(name, address, phone string) models.BusinessRecord {
	return models.BusinessRecord{
		Name:    name,
		Address: address,
		Phone:   phone,
		Source:  models.SourceGoogle,
	}
}

func TestScoreDeterminism(t *testing.T) {
	agg := NewAggregator(DefaultWeights(), false)

	left := yelpRecord("Planet Fitness", "123 Main Street, New York", "(555) 123-4567")
	right := googleRecord("Planet Fitness Gym", "123 Main St, New York", "555-123-4567")

	first, firstSignals := agg.Score(&left, &right)
	second, secondSignals := agg.Score(&left, &right)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSignals, secondSignals)
}

func TestScoreBreakdownSumsToTotal(t *testing.T) {
	agg := NewAggregator(DefaultWeights(), false)

	left := yelpRecord("Equinox Tribeca", "195 Broadway, New York", "(212) 555-0100")
	right := googleRecord("Equinox", "195 Broadway, New York", "(212) 555-0100")

	total, signals := agg.Score(&left, &right)

	sum := 0.0
	for _, v := range signals {
		sum += v
	}
	assert.InDelta(t, total, sum, 0.0001)
}

func TestScoreNeutralOnMissing(t *testing.T) {
	agg := NewAggregator(DefaultWeights(), false)

	left := yelpRecord("Planet Fitness", "123 Main Street", "")
	rightNoPhone := googleRecord("Planet Fitness", "123 Main St", "")
	rightPlaceholder := googleRecord("Planet Fitness", "123 Main St", "N/A")

	noPhone, _ := agg.Score(&left, &rightNoPhone)
	placeholder, _ := agg.Score(&left, &rightPlaceholder)

	// Empty and placeholder phones score identically: absence is
	// neutral, not a penalty.
	assert.Equal(t, noPhone, placeholder)
}

func TestScoreNameBoostTiers(t *testing.T) {
	agg := NewAggregator(DefaultWeights(), false)

	left := yelpRecord("Equinox", "", "")
	right := googleRecord("Equinox", "", "")

	_, signals := agg.Score(&left, &right)

	// Identical names take only the highest boost tier.
	assert.Equal(t, DefaultWeights().BoostExcellent, signals[SignalNameBoost])
}

func TestScoreChainBonusDissimilarNames(t *testing.T) {
	agg := NewAggregator(DefaultWeights(), false)

	left := yelpRecord("Equinox Tribeca", "195 Broadway", "")
	right := googleRecord("Equinox Upper East Side", "817 Lexington Ave", "")

	_, signals := agg.Score(&left, &right)

	assert.Greater(t, signals[SignalChain], 0.0)
}

func TestScorePhoneSuffixFlag(t *testing.T) {
	left := yelpRecord("Iron Temple", "", "(212) 555-1234")
	right := googleRecord("Iron Temple", "", "(917) 555-1234")

	strict := NewAggregator(DefaultWeights(), false)
	strictTotal, strictSignals := strict.Score(&left, &right)
	assert.Zero(t, strictSignals[SignalPhone])

	lenient := NewAggregator(DefaultWeights(), true)
	lenientTotal, lenientSignals := lenient.Score(&left, &right)
	assert.Greater(t, lenientSignals[SignalPhone], 0.0)
	assert.Greater(t, lenientTotal, strictTotal)
}

func TestMatchPlanetFitnessScenario(t *testing.T) {
	engine := NewEngine(testLogger(), DefaultConfig())

	left := []models.BusinessRecord{
		yelpRecord("Planet Fitness", "123 Main Street, New York", "(555) 123-4567"),
	}
	right := []models.BusinessRecord{
		googleRecord("Planet Fitness Gym", "123 Main St, New York", "555-123-4567"),
	}

	result := engine.Match(context.Background(), left, right)

	require.Len(t, result.Pairs, 1)
	assert.Empty(t, result.LeftOnly)
	assert.Empty(t, result.RightOnly)
	assert.Greater(t, result.Pairs[0].Score, 0.35)
}

func TestMatchNoComparableFields(t *testing.T) {
	config := DefaultConfig()
	config.Threshold = 0.1
	engine := NewEngine(testLogger(), config)

	left := []models.BusinessRecord{
		yelpRecord("Planet Fitness", "", ""),
	}
	right := []models.BusinessRecord{
		googleRecord("Joe's Pizza", "", ""),
	}

	result := engine.Match(context.Background(), left, right)

	assert.Empty(t, result.Pairs)
	assert.Len(t, result.LeftOnly, 1)
	assert.Len(t, result.RightOnly, 1)
}

func TestMatchThresholdBoundary(t *testing.T) {
	left := yelpRecord("Planet Fitness", "123 Main Street, New York", "(555) 123-4567")
	right := googleRecord("Planet Fitness Gym", "123 Main St, New York", "555-123-4567")

	agg := NewAggregator(DefaultWeights(), false)
	score, _ := agg.Score(&left, &right)

	// A pair scoring exactly at the threshold is matched.
	config := DefaultConfig()
	config.Threshold = score
	engine := NewEngine(testLogger(), config)
	result := engine.Match(context.Background(), []models.BusinessRecord{left}, []models.BusinessRecord{right})
	assert.Len(t, result.Pairs, 1)

	// Just above the score it is not.
	config.Threshold = score + 0.0001
	engine = NewEngine(testLogger(), config)
	result = engine.Match(context.Background(), []models.BusinessRecord{left}, []models.BusinessRecord{right})
	assert.Empty(t, result.Pairs)
	assert.Len(t, result.LeftOnly, 1)
	assert.Len(t, result.RightOnly, 1)
}

func TestMatchAtMostOnce(t *testing.T) {
	engine := NewEngine(testLogger(), DefaultConfig())

	// Three near-identical left records compete for two right records.
	left := []models.BusinessRecord{
		yelpRecord("Planet Fitness", "123 Main Street", "(555) 123-4567"),
		yelpRecord("Planet Fitness Gym", "123 Main Street", "(555) 123-4567"),
		yelpRecord("Planet Fitness Club", "123 Main Street", "(555) 123-4567"),
	}
	right := []models.BusinessRecord{
		googleRecord("Planet Fitness", "123 Main St", "555-123-4567"),
		googleRecord("Planet Fitness Gym", "123 Main St", "555-123-4567"),
	}

	result := engine.Match(context.Background(), left, right)

	assert.Len(t, result.Pairs, 2)
	assert.Len(t, result.LeftOnly, 1)
	assert.Empty(t, result.RightOnly)

	seen := make(map[string]int)
	for _, pair := range result.Pairs {
		seen[pair.Right.Name]++
	}
	for name, count := range seen {
		assert.Equal(t, 1, count, "right record %q claimed more than once", name)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	engine := NewEngine(testLogger(), DefaultConfig())

	result := engine.Match(context.Background(), nil, nil)
	assert.Empty(t, result.Pairs)
	assert.Empty(t, result.LeftOnly)
	assert.Empty(t, result.RightOnly)

	right := []models.BusinessRecord{googleRecord("Equinox", "", "")}
	result = engine.Match(context.Background(), nil, right)
	assert.Empty(t, result.Pairs)
	assert.Len(t, result.RightOnly, 1)
}

func TestMatchBestFirstResolvesContention(t *testing.T) {
	// The first left record is a weaker match for the lone right record
	// than the second left record. Greedy commits left[0]; best-first
	// gives the right record to the stronger pair.
	left := []models.BusinessRecord{
		yelpRecord("Planet Fitness Club", "125 Main Street", ""),
		yelpRecord("Planet Fitness", "123 Main Street", "(555) 123-4567"),
	}
	right := []models.BusinessRecord{
		googleRecord("Planet Fitness", "123 Main St", "555-123-4567"),
	}

	greedyCfg := DefaultConfig()
	greedy := NewEngine(testLogger(), greedyCfg)
	greedyResult := greedy.Match(context.Background(), left, right)
	require.Len(t, greedyResult.Pairs, 1)
	assert.Equal(t, "Planet Fitness Club", greedyResult.Pairs[0].Left.Name)

	bestCfg := DefaultConfig()
	bestCfg.Strategy = StrategyBestFirst
	best := NewEngine(testLogger(), bestCfg)
	bestResult := best.Match(context.Background(), left, right)
	require.Len(t, bestResult.Pairs, 1)
	assert.Equal(t, "Planet Fitness", bestResult.Pairs[0].Left.Name)
	assert.Len(t, bestResult.LeftOnly, 1)
}

func TestMatchBestFirstStableOrdering(t *testing.T) {
	config := DefaultConfig()
	config.Strategy = StrategyBestFirst
	engine := NewEngine(testLogger(), config)

	left := []models.BusinessRecord{
		yelpRecord("Equinox Tribeca", "195 Broadway", "(212) 555-0100"),
		yelpRecord("Crunch Fitness", "404 Lafayette St", "(212) 555-0200"),
	}
	right := []models.BusinessRecord{
		googleRecord("Crunch", "404 Lafayette St", "(212) 555-0200"),
		googleRecord("Equinox", "195 Broadway", "(212) 555-0100"),
	}

	first := engine.Match(context.Background(), left, right)
	second := engine.Match(context.Background(), left, right)

	assert.Equal(t, first.Pairs, second.Pairs)
	assert.Len(t, first.Pairs, 2)
}
