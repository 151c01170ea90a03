package search

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/a-deal/gym-finder/pkg/database"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

// SearchRepository defines the interface for search history persistence
type SearchRepository interface {
	Create(ctx context.Context, record *models.SearchRecord) (*models.SearchRecord, error)
	List(ctx context.Context, page, pageSize int) ([]models.SearchRecord, int, error)
}

// Repository implements SearchRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new search history repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "searches"

var columns = []string{
	"id", "search_type", "query", "radius_miles", "results_count",
	"execution_time_ms", "parameters", "created_at",
}

// Create records a completed search
func (r *Repository) Create(ctx context.Context, record *models.SearchRecord) (*models.SearchRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "SearchRepository.Create")
	defer span.End()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols(columns...)
	ib.Values(
		record.ID, record.SearchType, record.Query, record.RadiusMiles,
		record.ResultsCount, record.ExecutionTimeMS, record.Parameters, record.CreatedAt,
	)

	query, args := ib.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to record search")
		return nil, fmt.Errorf("failed to record search: %w", err)
	}

	return record, nil
}

// List returns search history, newest first
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]models.SearchRecord, int, error) {
	ctx, span := tracing.StartSpan(ctx, "SearchRepository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	countSB := database.NewSelectBuilder()
	countSB.Select("COUNT(*)")
	countSB.From(tableName)

	countQuery, countArgs := countSB.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count searches")
		return nil, 0, fmt.Errorf("failed to count searches: %w", err)
	}

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.OrderBy("created_at DESC")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args := sb.Build()

	records := make([]models.SearchRecord, 0, pageSize)
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list searches")
		return nil, 0, fmt.Errorf("failed to list searches: %w", err)
	}

	return records, total, nil
}
