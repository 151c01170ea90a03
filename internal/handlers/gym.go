package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	gymrepo "github.com/a-deal/gym-finder/internal/repositories/gym"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

// GymHandler handles stored gym API endpoints
type GymHandler struct {
	repo   gymrepo.GymRepository
	logger ectologger.Logger
}

// NewGymHandler creates a new gym handler
func NewGymHandler(repo gymrepo.GymRepository, logger ectologger.Logger) *GymHandler {
	return &GymHandler{
		repo:   repo,
		logger: logger,
	}
}

// Register registers gym routes
func (h *GymHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.DELETE("/:id", h.Delete)
}

// GymListResponse represents the paginated gym list response
type GymListResponse struct {
	Gyms     []models.Gym `json:"gyms"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// List returns stored gyms for a zipcode, best confidence first
func (h *GymHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "GymHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	zipcode := c.QueryParam("zipcode")
	if len(zipcode) != 5 {
		return BadRequest("zipcode query parameter is required and must be 5 digits")
	}

	page, pageSize := parsePagination(c)

	gyms, total, err := h.repo.ListByZipcode(ctx, zipcode, page, pageSize)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list gyms")
		return err
	}

	return SuccessResponse(c, GymListResponse{
		Gyms:     gyms,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetByID returns a stored gym by ID
func (h *GymHandler) GetByID(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "GymHandler.GetByID")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	gym, err := h.repo.GetByID(ctx, id.String())
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to get gym")
		return err
	}
	if gym == nil {
		return NotFound("gym not found")
	}

	return SuccessResponse(c, gym)
}

// Delete soft deletes a stored gym
func (h *GymHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "GymHandler.Delete")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.repo.Delete(ctx, id.String()); err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to delete gym")
		return err
	}

	return NoContentResponse(c)
}
