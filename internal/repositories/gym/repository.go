package gym

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

// GymRepository defines the interface for gym persistence
type GymRepository interface {
	Upsert(ctx context.Context, gym *models.Gym) (*models.Gym, error)
	GetByID(ctx context.Context, id string) (*models.Gym, error)
	ListByZipcode(ctx context.Context, zipcode string, page, pageSize int) ([]models.Gym, int, error)
	Delete(ctx context.Context, id string) error
}

// Repository implements GymRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new gym repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "gyms"

var columns = []string{
	"id", "name", "address", "phone", "website", "latitude", "longitude",
	"zipcode", "rating", "review_count", "price_level", "confidence_score",
	"data_sources", "source", "raw_data", "created_at", "updated_at", "deleted_at",
}

// Upsert inserts a gym, updating the existing row when a gym with the
// same name and zipcode was already stored.
func (r *Repository) Upsert(ctx context.Context, gym *models.Gym) (*models.Gym, error) {
	ctx, span := tracing.StartSpan(ctx, "GymRepository.Upsert")
	defer span.End()

	now := time.Now()
	if gym.ID == uuid.Nil {
		gym.ID = uuid.New()
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols(
		"id", "name", "address", "phone", "website", "latitude", "longitude",
		"zipcode", "rating", "review_count", "price_level", "confidence_score",
		"data_sources", "source", "raw_data", "created_at", "updated_at",
	)
	ib.Values(
		gym.ID, gym.Name, gym.Address, gym.Phone, gym.Website, gym.Latitude, gym.Longitude,
		gym.Zipcode, gym.Rating, gym.ReviewCount, gym.PriceLevel, gym.ConfidenceScore,
		gym.DataSources, gym.Source, gym.RawData, now, now,
	)

	ub := ib.OnConflict("name", "zipcode")
	ub.Set(
		ub.Assign("address", database.Excluded("address")),
		ub.Assign("phone", database.Excluded("phone")),
		ub.Assign("website", database.Excluded("website")),
		ub.Assign("latitude", database.Excluded("latitude")),
		ub.Assign("longitude", database.Excluded("longitude")),
		ub.Assign("rating", database.Excluded("rating")),
		ub.Assign("review_count", database.Excluded("review_count")),
		ub.Assign("price_level", database.Excluded("price_level")),
		ub.Assign("confidence_score", database.Excluded("confidence_score")),
		ub.Assign("data_sources", database.Excluded("data_sources")),
		ub.Assign("source", database.Excluded("source")),
		ub.Assign("raw_data", database.Excluded("raw_data")),
		ub.Assign("updated_at", now),
		ub.Assign("deleted_at", nil),
	)

	query, args := ib.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to upsert gym")
		return nil, fmt.Errorf("failed to upsert gym: %w", err)
	}

	return r.getByNameAndZipcode(ctx, gym.Name, gym.Zipcode)
}

// GetByID gets a gym by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Gym, error) {
	ctx, span := tracing.StartSpan(ctx, "GymRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(
		sb.Equal("id", id),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()

	var gym models.Gym
	err := r.db.GetContext(ctx, &gym, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get gym by ID")
		return nil, fmt.Errorf("failed to get gym: %w", err)
	}

	return &gym, nil
}

func (r *Repository) getByNameAndZipcode(ctx context.Context, name, zipcode string) (*models.Gym, error) {
	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(
		sb.Equal("name", name),
		sb.Equal("zipcode", zipcode),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()

	var gym models.Gym
	if err := r.db.GetContext(ctx, &gym, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get gym: %w", err)
	}

	return &gym, nil
}

// ListByZipcode lists stored gyms for a zipcode, most confident first
func (r *Repository) ListByZipcode(ctx context.Context, zipcode string, page, pageSize int) ([]models.Gym, int, error) {
	ctx, span := tracing.StartSpan(ctx, "GymRepository.ListByZipcode")
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
	countSB.Where(
		countSB.Equal("zipcode", zipcode),
		countSB.IsNull("deleted_at"),
	)

	countQuery, countArgs := countSB.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count gyms")
		return nil, 0, fmt.Errorf("failed to count gyms: %w", err)
	}

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(
		sb.Equal("zipcode", zipcode),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("confidence_score DESC", "rating DESC NULLS LAST", "name ASC")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args := sb.Build()

	gyms := make([]models.Gym, 0, pageSize)
	if err := r.db.SelectContext(ctx, &gyms, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list gyms")
		return nil, 0, fmt.Errorf("failed to list gyms: %w", err)
	}

	return gyms, total, nil
}

// Delete soft deletes a gym
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "GymRepository.Delete")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(tableName)
	ub.Set(ub.Assign("deleted_at", time.Now()))
	ub.Where(
		ub.Equal("id", id),
		ub.IsNull("deleted_at"),
	)

	query, args := ub.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete gym")
		return fmt.Errorf("failed to delete gym: %w", err)
	}

	return nil
}
