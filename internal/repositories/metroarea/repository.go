package metroarea

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/a-deal/gym-finder/pkg/database"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

// MetroAreaRepository defines the interface for metro area lookups
type MetroAreaRepository interface {
	Create(ctx context.Context, metro *models.MetroArea) (*models.MetroArea, error)
	GetByCode(ctx context.Context, code string) (*models.MetroArea, error)
	List(ctx context.Context) ([]models.MetroArea, error)
}

// Repository implements MetroAreaRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new metro area repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "metropolitan_areas"

var columns = []string{
	"id", "code", "name", "description", "state", "population",
	"density_category", "zip_codes", "created_at",
}

// Create inserts a metro area definition
func (r *Repository) Create(ctx context.Context, metro *models.MetroArea) (*models.MetroArea, error) {
	ctx, span := tracing.StartSpan(ctx, "MetroAreaRepository.Create")
	defer span.End()

	if metro.ID == uuid.Nil {
		metro.ID = uuid.New()
	}
	if metro.CreatedAt.IsZero() {
		metro.CreatedAt = time.Now()
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols(columns...)
	ib.Values(
		metro.ID, metro.Code, metro.Name, metro.Description, metro.State,
		metro.Population, metro.DensityCategory, metro.Zipcodes, metro.CreatedAt,
	)

	query, args := ib.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create metro area")
		return nil, fmt.Errorf("failed to create metro area: %w", err)
	}

	return metro, nil
}

// GetByCode gets a metro area by its short code
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.MetroArea, error) {
	ctx, span := tracing.StartSpan(ctx, "MetroAreaRepository.GetByCode")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("code", code))

	query, args := sb.Build()

	var metro models.MetroArea
	err := r.db.GetContext(ctx, &metro, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get metro area by code")
		return nil, fmt.Errorf("failed to get metro area: %w", err)
	}

	return &metro, nil
}

// List returns all metro area definitions
func (r *Repository) List(ctx context.Context) ([]models.MetroArea, error) {
	ctx, span := tracing.StartSpan(ctx, "MetroAreaRepository.List")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.OrderBy("code ASC")

	query, args := sb.Build()

	metros := make([]models.MetroArea, 0)
	if err := r.db.SelectContext(ctx, &metros, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list metro areas")
		return nil, fmt.Errorf("failed to list metro areas: %w", err)
	}

	return metros, nil
}
