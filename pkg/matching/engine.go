// Package matching implements fuzzy record linkage between gym listings
// from independent directory providers.
package matching

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

// Strategy selects how candidate pairs are committed.
type Strategy string

const (
	// StrategyGreedy walks the left records in input order and commits
	// each one's best candidate immediately. Ties break toward the
	// first-encountered right record, so output depends on input order.
	StrategyGreedy Strategy = "greedy"
	// StrategyBestFirst scores every pair up front, then commits pairs
	// globally from highest score down. Removes the left-order bias at
	// the cost of scoring all pairs before committing any.
	StrategyBestFirst Strategy = "best_first"
)

// Config contains configuration for the match engine
type Config struct {
	Threshold         float64  // Minimum score to commit a pair (default: 0.35)
	Strategy          Strategy // Pair commitment order (default: greedy)
	EnablePhoneSuffix bool     // Legacy lenient phone matching as a secondary signal
	Weights           Weights
}

// DefaultConfig returns default engine configuration
func DefaultConfig() Config {
	return Config{
		Threshold: 0.35,
		Strategy:  StrategyGreedy,
		Weights:   DefaultWeights(),
	}
}

// Engine matches two lists of gym listings one-to-one. It is stateless
// across calls and safe to use concurrently.
type Engine struct {
	logger     ectologger.Logger
	aggregator *Aggregator
	config     Config
}

// NewEngine creates a new match engine
func NewEngine(logger ectologger.Logger, config Config) *Engine {
	return &Engine{
		logger:     logger,
		aggregator: NewAggregator(config.Weights, config.EnablePhoneSuffix),
		config:     config,
	}
}

// Aggregator exposes the engine's scorer for callers that want a single
// pair's breakdown without running a full match.
func (e *Engine) Aggregator() *Aggregator {
	return e.aggregator
}

// Match links the left record set against the right record set. Every
// committed pair scores at or above the configured threshold, no record
// appears in more than one pair, and unmatched records from either side
// are passed through. Empty inputs are valid and yield empty outputs.
func (e *Engine) Match(ctx context.Context, left, right []models.BusinessRecord) *models.MatchResult {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Match")
	defer span.End()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"left_count":  len(left),
		"right_count": len(right),
		"threshold":   e.config.Threshold,
		"strategy":    e.config.Strategy,
	})

	log.Debug("Matching records")

	var result *models.MatchResult
	switch e.config.Strategy {
	case StrategyBestFirst:
		result = e.matchBestFirst(left, right)
	default:
		result = e.matchGreedy(left, right)
	}

	log.WithFields(map[string]any{
		"pairs":      len(result.Pairs),
		"left_only":  len(result.LeftOnly),
		"right_only": len(result.RightOnly),
	}).Debug("Matching complete")

	return result
}

// matchGreedy is the left-anchored greedy assignment: for each left
// record in order, claim the best unclaimed right record that clears
// the threshold, without backtracking.
func (e *Engine) matchGreedy(left, right []models.BusinessRecord) *models.MatchResult {
	result := &models.MatchResult{
		Pairs:     []models.MatchPair{},
		LeftOnly:  []models.BusinessRecord{},
		RightOnly: []models.BusinessRecord{},
	}

	claimed := make(map[int]bool, len(right))

	for i := range left {
		bestIdx := -1
		bestScore := 0.0
		var bestSignals map[string]float64

		for j := range right {
			if claimed[j] {
				continue
			}

			score, signals := e.aggregator.Score(&left[i], &right[j])
			if score >= e.config.Threshold && score > bestScore {
				bestIdx = j
				bestScore = score
				bestSignals = signals
			}
		}

		if bestIdx >= 0 {
			claimed[bestIdx] = true
			result.Pairs = append(result.Pairs, models.MatchPair{
				Left:    left[i],
				Right:   right[bestIdx],
				Score:   bestScore,
				Signals: bestSignals,
			})
		} else {
			result.LeftOnly = append(result.LeftOnly, left[i])
		}
	}

	for j := range right {
		if !claimed[j] {
			result.RightOnly = append(result.RightOnly, right[j])
		}
	}

	return result
}

// scoredPair is one evaluated candidate pair awaiting commitment.
type scoredPair struct {
	leftIdx  int
	rightIdx int
	score    float64
	signals  map[string]float64
}

// matchBestFirst scores the full cross product, sorts pairs by score
// descending with index tie-breaks for stability, then commits pairs
// whose records are both still unclaimed.
func (e *Engine) matchBestFirst(left, right []models.BusinessRecord) *models.MatchResult {
	result := &models.MatchResult{
		Pairs:     []models.MatchPair{},
		LeftOnly:  []models.BusinessRecord{},
		RightOnly: []models.BusinessRecord{},
	}

	candidates := make([]scoredPair, 0, len(left)*len(right))
	for i := range left {
		for j := range right {
			score, signals := e.aggregator.Score(&left[i], &right[j])
			if score >= e.config.Threshold {
				candidates = append(candidates, scoredPair{
					leftIdx:  i,
					rightIdx: j,
					score:    score,
					signals:  signals,
				})
			}
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		if candidates[a].leftIdx != candidates[b].leftIdx {
			return candidates[a].leftIdx < candidates[b].leftIdx
		}
		return candidates[a].rightIdx < candidates[b].rightIdx
	})

	leftClaimed := make(map[int]bool, len(left))
	rightClaimed := make(map[int]bool, len(right))

	for _, c := range candidates {
		if leftClaimed[c.leftIdx] || rightClaimed[c.rightIdx] {
			continue
		}
		leftClaimed[c.leftIdx] = true
		rightClaimed[c.rightIdx] = true
		result.Pairs = append(result.Pairs, models.MatchPair{
			Left:    left[c.leftIdx],
			Right:   right[c.rightIdx],
			Score:   c.score,
			Signals: c.signals,
		})
	}

	for i := range left {
		if !leftClaimed[i] {
			result.LeftOnly = append(result.LeftOnly, left[i])
		}
	}
	for j := range right {
		if !rightClaimed[j] {
			result.RightOnly = append(result.RightOnly, right[j])
		}
	}

	return result
}
