package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/lobami/campaign-analytics/internal/logging"
	authmw "github.com/lobami/campaign-analytics/internal/middleware/auth"
	"github.com/lobami/campaign-analytics/internal/models"
	"github.com/lobami/campaign-analytics/internal/mykafka"
	"github.com/lobami/campaign-analytics/internal/service"
	"github.com/lobami/campaign-analytics/internal/service/search"
	"github.com/lobami/campaign-analytics/internal/util"
)

const campaignTopic = "campaign_events"

type CampaignHandler struct {
	Svc      *service.CampaignService
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

type listResp struct {
	Data     []models.Campaign `json:"data"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

func (h *CampaignHandler) List(c echo.Context) error {
	user := authmw.CurrentUser(c)

	skip := parseIntDefault(c.QueryParam("skip"), 0)
	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	skip, limit = util.ClampSkipLimit(skip, limit)

	q := service.ListQuery{
		Skip:         skip,
		Limit:        limit,
		CampaignType: c.QueryParam("campaign_type"),
	}
	start, end, err := parseDateWindow(c, false)
	if err != nil {
		return err
	}
	q.Start, q.End = start, end

	items, total, err := h.Svc.List(c.Request().Context(), user.CompanyID, q)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, listResp{
		Data:     items,
		Total:    total,
		Page:     skip / limit,
		PageSize: limit,
	})
}

func (h *CampaignHandler) Get(c echo.Context) error {
	user := authmw.CurrentUser(c)
	campaign, err := h.Svc.Get(c.Request().Context(), user.CompanyID, c.Param("name"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, campaign)
}

func (h *CampaignHandler) Create(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user.CompanyID == nil {
		return httpError(service.ErrNoCompany)
	}

	var campaign models.Campaign
	if err := c.Bind(&campaign); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if campaign.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	// Breakdown rows have their own endpoints; a create body cannot smuggle
	// them in.
	campaign.Periods, campaign.Sites = nil, nil

	if err := h.Svc.Create(c.Request().Context(), *user.CompanyID, &campaign); err != nil {
		return httpError(err)
	}

	h.index(c, &campaign)
	publish(c, h.Producer, campaignTopic, campaign.Name, map[string]any{
		"type":       "campaign_created",
		"campaign":   campaign.Name,
		"company_id": *user.CompanyID,
	})

	return c.JSON(http.StatusCreated, campaign)
}

// Update applies an explicit patch. The body is decoded strictly: any key
// outside CampaignPatch is rejected before the store is touched.
func (h *CampaignHandler) Update(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user.CompanyID == nil {
		return httpError(service.ErrNoCompany)
	}

	var patch service.CampaignPatch
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patch: "+err.Error())
	}

	campaign, err := h.Svc.Update(c.Request().Context(), *user.CompanyID, c.Param("name"), patch)
	if err != nil {
		return httpError(err)
	}

	h.index(c, campaign)
	publish(c, h.Producer, campaignTopic, campaign.Name, map[string]any{
		"type":       "campaign_updated",
		"campaign":   campaign.Name,
		"company_id": *user.CompanyID,
	})

	return c.JSON(http.StatusOK, campaign)
}

func (h *CampaignHandler) Delete(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user.CompanyID == nil {
		return httpError(service.ErrNoCompany)
	}

	name := c.Param("name")
	if err := h.Svc.Delete(c.Request().Context(), *user.CompanyID, name); err != nil {
		return httpError(err)
	}

	if h.ES != nil {
		if err := search.DeleteCampaign(c.Request().Context(), h.ES, h.ESIndex, name); err != nil {
			logging.FromContext(c.Request().Context()).Error("es delete failed", "campaign", name, "error", err)
		}
	}
	publish(c, h.Producer, campaignTopic, name, map[string]any{
		"type":       "campaign_deleted",
		"campaign":   name,
		"company_id": *user.CompanyID,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CampaignHandler) SearchByDate(c echo.Context) error {
	user := authmw.CurrentUser(c)

	start, end, err := parseDateWindow(c, true)
	if err != nil {
		return err
	}

	campaigns, err := h.Svc.SearchByDate(c.Request().Context(), user.CompanyID, *start, *end)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, campaigns)
}

func (h *CampaignHandler) AddPeriod(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user.CompanyID == nil {
		return httpError(service.ErrNoCompany)
	}

	var period models.CampaignPeriod
	if err := c.Bind(&period); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Svc.AddPeriod(c.Request().Context(), *user.CompanyID, c.Param("name"), &period); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, period)
}

func (h *CampaignHandler) AddSite(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user.CompanyID == nil {
		return httpError(service.ErrNoCompany)
	}

	var site models.CampaignSite
	if err := c.Bind(&site); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Svc.AddSite(c.Request().Context(), *user.CompanyID, c.Param("name"), &site); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, site)
}

func (h *CampaignHandler) index(c echo.Context, campaign *models.Campaign) {
	if h.ES == nil {
		return
	}
	if err := search.IndexCampaign(c.Request().Context(), h.ES, h.ESIndex, campaign); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index failed", "campaign", campaign.Name, "error", err)
	}
}

// parseDateWindow reads start_date/end_date. When required is false the
// pair is optional, but a half-open or inverted window is still rejected.
func parseDateWindow(c echo.Context, required bool) (*time.Time, *time.Time, error) {
	startRaw, endRaw := c.QueryParam("start_date"), c.QueryParam("end_date")
	if startRaw == "" && endRaw == "" {
		if required {
			return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "start_date and end_date are required")
		}
		return nil, nil, nil
	}
	if startRaw == "" || endRaw == "" {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "start_date and end_date must be given together")
	}
	start, err := models.ParseDate(startRaw)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid start_date")
	}
	end, err := models.ParseDate(endRaw)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid end_date")
	}
	if start.Time.After(end.Time) {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "start_date must be before end_date")
	}
	return &start.Time, &end.Time, nil
}
