package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	metrorepo "github.com/a-deal/gym-finder/internal/repositories/metroarea"
	"github.com/a-deal/gym-finder/pkg/export"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/search"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

// MetroHandler handles metropolitan area API endpoints
type MetroHandler struct {
	repo    metrorepo.MetroAreaRepository
	service *search.Service
	logger  ectologger.Logger
}

// NewMetroHandler creates a new metro handler
func NewMetroHandler(repo metrorepo.MetroAreaRepository, service *search.Service, logger ectologger.Logger) *MetroHandler {
	return &MetroHandler{
		repo:    repo,
		service: service,
		logger:  logger,
	}
}

// Register registers metro routes
func (h *MetroHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:code", h.GetByCode)
	g.POST("/:code/search", h.Search)
}

// CreateMetroRequest represents the create metro request body
type CreateMetroRequest struct {
	Code            string   `json:"code" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	State           string   `json:"state"`
	Population      *int     `json:"population,omitempty"`
	DensityCategory string   `json:"density_category"`
	Zipcodes        []string `json:"zipcodes" validate:"required,min=1,dive,len=5"`
}

// MetroSearchRequest represents the metro search request body
type MetroSearchRequest struct {
	RadiusMiles float64 `json:"radius_miles"`
	UseGoogle   bool    `json:"use_google"`
}

// List returns all metro areas
func (h *MetroHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "MetroHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	metros, err := h.repo.List(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list metro areas")
		return err
	}

	return SuccessResponse(c, metros)
}

// Create registers a new metro area
func (h *MetroHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "MetroHandler.Create")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	var req CreateMetroRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return BadRequest("code, name and at least one 5 digit zipcode are required")
	}

	existing, err := h.repo.GetByCode(ctx, req.Code)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to check metro area")
		return err
	}
	if existing != nil {
		return httperror.NewHTTPError(http.StatusConflict, "metro area already exists")
	}

	metro, err := h.repo.Create(ctx, &models.MetroArea{
		Code:            req.Code,
		Name:            req.Name,
		Description:     req.Description,
		State:           req.State,
		Population:      req.Population,
		DensityCategory: req.DensityCategory,
		Zipcodes:        req.Zipcodes,
	})
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to create metro area")
		return err
	}

	h.logger.WithContext(ctx).Infof("Created metro area: %s", metro.Code)
	return CreatedResponse(c, metro)
}

// GetByCode returns a metro area by code
func (h *MetroHandler) GetByCode(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "MetroHandler.GetByCode")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	code := c.Param("code")
	if code == "" {
		return BadRequest("code is required")
	}

	metro, err := h.repo.GetByCode(ctx, code)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to get metro area")
		return err
	}
	if metro == nil {
		return NotFound("metro area not found")
	}

	return SuccessResponse(c, metro)
}

// Search fans a gym search out over every zipcode in a metro area
func (h *MetroHandler) Search(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "MetroHandler.Search")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	code := c.Param("code")
	if code == "" {
		return BadRequest("code is required")
	}

	var req MetroSearchRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return BadRequest(err.Error())
	}

	metro, err := h.repo.GetByCode(ctx, code)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to get metro area")
		return err
	}
	if metro == nil {
		return NotFound("metro area not found")
	}

	result, err := h.service.SearchMetro(ctx, *metro, req.RadiusMiles, req.UseGoogle)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Metro search failed")
		return err
	}

	if format == export.FormatCSV {
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="gyms_`+metro.Code+`.csv"`)
		c.Response().WriteHeader(http.StatusOK)
		return export.WriteCSV(c.Response(), result.Gyms)
	}

	return SuccessResponse(c, result)
}
