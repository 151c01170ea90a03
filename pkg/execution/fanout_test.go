package execution

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-deal/gym-finder/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestExecutePreservesInputOrder(t *testing.T) {
	executor := NewFanoutExecutor(3, testLogger())
	locations := []string{"10001", "10002", "10003", "10004"}

	result, err := executor.Execute(context.Background(), locations, func(_ context.Context, location string) (*models.SearchResult, error) {
		return &models.SearchResult{Info: models.SearchInfo{Zipcode: location}}, nil
	})

	require.NoError(t, err)
	require.Len(t, result.Results, 4)
	for i, location := range locations {
		require.NotNil(t, result.Results[i])
		assert.Equal(t, location, result.Results[i].Info.Zipcode)
	}
	assert.Equal(t, 4, result.SuccessCount)
	assert.Equal(t, 0, result.FailureCount)
}

func TestExecuteRecordsFailures(t *testing.T) {
	executor := NewFanoutExecutor(2, testLogger())
	locations := []string{"10001", "10002", "10003"}

	result, err := executor.Execute(context.Background(), locations, func(_ context.Context, location string) (*models.SearchResult, error) {
		if location == "10002" {
			return nil, errors.New("provider unavailable")
		}
		return &models.SearchResult{Info: models.SearchInfo{Zipcode: location}}, nil
	})

	require.NoError(t, err)
	assert.Nil(t, result.Results[1])
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	assert.Len(t, result.Errors, 1)
}

func TestExecuteWithoutLocations(t *testing.T) {
	executor := NewFanoutExecutor(2, testLogger())

	result, err := executor.Execute(context.Background(), nil, func(_ context.Context, _ string) (*models.SearchResult, error) {
		t.Fatal("search should not run")
		return nil, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalItems)
	assert.Empty(t, result.Results)
}

func TestExecuteReturnsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := NewFanoutExecutor(2, testLogger())
	locations := make([]string, 50)
	for i := range locations {
		locations[i] = fmt.Sprintf("1%04d", i)
	}

	var (
		result *FanoutResult
		err    error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err = executor.Execute(ctx, locations, func(_ context.Context, location string) (*models.SearchResult, error) {
			return &models.SearchResult{Info: models.SearchInfo{Zipcode: location}}, nil
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Execute did not return after context cancellation")
	}

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 50, result.TotalItems)
}
