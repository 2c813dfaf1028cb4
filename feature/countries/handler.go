package countries

import (
	"errors"

	"country-catalog/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the country catalog.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// RegisterRoutes registers the catalog routes. The guard middleware protects
// mutating endpoints; pass nil to leave them open.
func (h *Handler) RegisterRoutes(app fiber.Router, guard fiber.Handler) {
	if guard == nil {
		guard = func(c *fiber.Ctx) error { return c.Next() }
	}

	group := app.Group("/countries")
	group.Post("/refresh", guard, h.HandleRefresh)
	group.Get("/", h.HandleList)
	// The image route must precede the name parameter route.
	group.Get("/image", h.HandleImage)
	group.Get("/:name", h.HandleGet)
	group.Delete("/:name", guard, h.HandleDelete)

	app.Get("/status", h.HandleStatus)
}

// HandleRefresh runs one refresh pipeline execution.
// @Summary Refresh the catalog
// @Description Fetches both external sources, reconciles and persists the catalog atomically.
// @Tags countries
// @Produce json
// @Success 200 {object} map[string]interface{} "Refresh summary"
// @Failure 503 {object} map[string]string "External data source unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /countries/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	result, err := h.service.Refresh(c.Context())
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			l.Warn("refresh aborted, upstream unavailable", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   "External data source unavailable",
				"details": upstream.Detail,
			})
		}
		l.Error("refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"processed":         result.Processed,
		"last_refreshed_at": result.LastRefreshedAt,
	})
}

// HandleList lists catalog rows with optional filters.
// @Summary List countries
// @Tags countries
// @Produce json
// @Param region query string false "Filter by region"
// @Param currency query string false "Filter by currency code"
// @Param sort query string false "gdp_desc or gdp_asc"
// @Success 200 {array} models.Country
// @Router /countries [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	filter := ListFilter{
		Region:   c.Query("region"),
		Currency: c.Query("currency"),
		Sort:     c.Query("sort"),
	}

	rows, err := h.service.List(filter)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("list countries failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(rows)
}

// HandleImage serves the cached summary image, generating it when absent.
// @Summary Get summary image
// @Tags countries
// @Produce png
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Summary image not found"
// @Router /countries/image [get]
func (h *Handler) HandleImage(c *fiber.Ctx) error {
	data, err := h.service.SummaryImage(c.Context())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Summary image not found",
		})
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}

// HandleGet returns a single country by name, matched case-insensitively.
// @Summary Get country
// @Tags countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} models.Country
// @Failure 404 {object} map[string]string "Country not found"
// @Router /countries/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	country, err := h.service.Get(c.Params("name"))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("get country failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if country == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Country not found",
		})
	}
	return c.JSON(country)
}

// HandleDelete removes a country by name, matched case-insensitively.
// @Summary Delete country
// @Tags countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "Country not found"
// @Router /countries/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	deleted, err := h.service.Delete(c.Context(), c.Params("name"))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("delete country failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Country not found",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleStatus reports catalog totals and the last refresh timestamp.
// @Summary Catalog status
// @Tags countries
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	total, last, err := h.service.Status()
	if err != nil {
		logger.WithRayID(h.logger, c).Error("status failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	var lastValue any
	if last != "" {
		lastValue = last
	}
	return c.JSON(fiber.Map{
		"total_countries":   total,
		"last_refreshed_at": lastValue,
	})
}
