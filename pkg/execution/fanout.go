// Package execution provides the concurrent fan-out used for batch
// metro-area searches.
package execution

import (
	"context"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/a-deal/gym-finder/pkg/models"
)

const (
	// DefaultConcurrency is the default number of concurrent searches
	DefaultConcurrency = 5
)

// SearchFunc runs a single location search within a fanout.
type SearchFunc func(ctx context.Context, location string) (*models.SearchResult, error)

// FanoutResult holds the results of a fanout execution
type FanoutResult struct {
	Results      []*models.SearchResult
	Errors       []error
	TotalItems   int
	SuccessCount int
	FailureCount int
}

// FanoutExecutor runs a search across many locations with bounded concurrency
type FanoutExecutor struct {
	concurrency int
	logger      ectologger.Logger
}

// NewFanoutExecutor creates a new fanout executor
func NewFanoutExecutor(concurrency int, logger ectologger.Logger) *FanoutExecutor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &FanoutExecutor{
		concurrency: concurrency,
		logger:      logger,
	}
}

// Execute runs search for each location. Results are returned in input
// order; a failed location leaves a nil result at its index.
func (f *FanoutExecutor) Execute(ctx context.Context, locations []string, search SearchFunc) (*FanoutResult, error) {
	result := &FanoutResult{
		Results:    make([]*models.SearchResult, len(locations)),
		Errors:     make([]error, 0),
		TotalItems: len(locations),
	}

	if len(locations) == 0 {
		f.logger.WithContext(ctx).Debug("No locations to search")
		return result, nil
	}

	concurrency := f.concurrency
	if concurrency > len(locations) {
		concurrency = len(locations)
	}

	f.logger.WithContext(ctx).Infof("Executing fanout: %d locations with concurrency %d", len(locations), concurrency)

	itemChan := make(chan indexedItem, len(locations))
	resultChan := make(chan indexedResult, len(locations))

	var wg sync.WaitGroup
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go f.worker(workerCtx, &wg, search, itemChan, resultChan)
	}

	go func() {
		// Workers range over itemChan, so it must close even when the
		// context is canceled mid-feed or they would block forever.
		defer close(itemChan)
		for i, location := range locations {
			select {
			case <-workerCtx.Done():
				return
			case itemChan <- indexedItem{index: i, location: location}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for res := range resultChan {
		result.Results[res.index] = res.result

		if res.err != nil {
			result.Errors = append(result.Errors, res.err)
			result.FailureCount++
		} else {
			result.SuccessCount++
		}
	}

	return result, nil
}

type indexedItem struct {
	index    int
	location string
}

type indexedResult struct {
	index  int
	result *models.SearchResult
	err    error
}

func (f *FanoutExecutor) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	search SearchFunc,
	items <-chan indexedItem,
	results chan<- indexedResult,
) {
	defer wg.Done()

	for item := range items {
		select {
		case <-ctx.Done():
			return
		default:
		}

		searchResult, err := search(ctx, item.location)
		if err != nil {
			f.logger.WithContext(ctx).WithError(err).Warnf("Search failed for %s", item.location)
		}

		results <- indexedResult{
			index:  item.index,
			result: searchResult,
			err:    err,
		}
	}
}
