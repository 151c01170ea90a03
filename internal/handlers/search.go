package handlers

import (
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	searchrepo "github.com/a-deal/gym-finder/internal/repositories/search"
	"github.com/a-deal/gym-finder/pkg/export"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/search"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

// SearchHandler handles gym search API endpoints
type SearchHandler struct {
	service *search.Service
	history searchrepo.SearchRepository
	logger  ectologger.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *search.Service, history searchrepo.SearchRepository, logger ectologger.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		history: history,
		logger:  logger,
	}
}

// Register registers search routes
func (h *SearchHandler) Register(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
}

// SearchListResponse represents the paginated search history response
type SearchListResponse struct {
	Searches []models.SearchRecord `json:"searches"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// Create runs a gym search for a zipcode
func (h *SearchHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "SearchHandler.Create")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	var req search.Request
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return BadRequest("zipcode is required and must be 5 digits")
	}

	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return BadRequest(err.Error())
	}

	result, err := h.service.Search(ctx, req)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Search failed")
		return err
	}

	if format == export.FormatCSV {
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="gyms_`+req.Zipcode+`.csv"`)
		c.Response().WriteHeader(http.StatusOK)
		return export.WriteCSV(c.Response(), result.Gyms)
	}

	return CreatedResponse(c, result)
}

// List returns the search history, newest first
func (h *SearchHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "SearchHandler.List")
	defer span.End()
	c.SetRequest(c.Request().WithContext(ctx))

	page, pageSize := parsePagination(c)

	records, total, err := h.history.List(ctx, page, pageSize)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list searches")
		return err
	}

	return SuccessResponse(c, SearchListResponse{
		Searches: records,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
