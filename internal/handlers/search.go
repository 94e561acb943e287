package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	authmw "github.com/lobami/campaign-analytics/internal/middleware/auth"
	"github.com/lobami/campaign-analytics/internal/models"
	"github.com/lobami/campaign-analytics/internal/service/search"
	"github.com/lobami/campaign-analytics/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func NewSearchHandler(es *elasticsearch.Client, index string) *SearchHandler {
	return &SearchHandler{ES: es, Index: index}
}

// Search runs a fuzzy text query over the caller's own campaigns.
func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	user := authmw.CurrentUser(c)
	if user.CompanyID == nil {
		return c.JSON(http.StatusOK, echo.Map{"total": 0, "data": []models.Campaign{}})
	}

	skip := parseIntDefault(c.QueryParam("skip"), 0)
	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	skip, limit = util.ClampSkipLimit(skip, limit)

	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
	}

	total, campaigns, err := search.Search(c.Request().Context(), h.ES, h.Index, q, *user.CompanyID, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "data": campaigns})
}
