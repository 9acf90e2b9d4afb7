package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

type periodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

func newPeriodHandler(ps portssvc.FiscalPeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: ps}
}

func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.FiscalPeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/covering", h.getCovering)
		periods.GET("/:period_id", h.getPeriod)
		periods.POST("/:period_id/close", h.closePeriod)
		periods.POST("/:period_id/reopen", h.reopenPeriod)
		periods.POST("/:period_id/lock", h.lockPeriod)
	}
}

// createPeriod godoc
// @Summary Create a fiscal period
// @Description Creates an OPEN period. Periods of the same type may not overlap.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Validation error or overlapping period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	actorID, ok := requestActor(c)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), c.Param("tenant_id"), req, actorID)
	if err != nil {
		respondError(c, err, "create fiscal period")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Fiscal period created", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// getPeriod godoc
// @Summary Get a fiscal period
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("tenant_id"), c.Param("period_id"))
	if err != nil {
		respondError(c, err, "retrieve fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   periodType query string false "Filter by type" Enums(YEAR, QUARTER, MONTH)
// @Param   fiscalYear query int false "Filter by fiscal year"
// @Param   status query string false "Filter by status" Enums(OPEN, CLOSED, LOCKED)
// @Success 200 {object} dto.ListPeriodsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	var params dto.ListPeriodsParams
	if !bindQuery(c, &params) {
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("tenant_id"), params)
	if err != nil {
		respondError(c, err, "list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPeriodsResponse(periods))
}

// getCovering godoc
// @Summary Find the period covering a date
// @Description Returns the narrowest period containing the date, whatever its status.
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   date query string true "Date as YYYY-MM-DD"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Missing or malformed date"
// @Failure 404 {object} map[string]string "No period covers the date"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/covering [get]
func (h *periodHandler) getCovering(c *gin.Context) {
	date, err := time.Parse(time.DateOnly, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return
	}

	period, err := h.periodService.GetPeriodCovering(c.Request.Context(), c.Param("tenant_id"), date)
	if err != nil {
		respondError(c, err, "find covering fiscal period")
		return
	}
	if period == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no fiscal period covers " + date.Format(time.DateOnly)})
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description OPEN -> CLOSED. Waits for in-flight postings into the period to commit.
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	h.transition(c, "close", h.periodService.ClosePeriod)
}

// reopenPeriod godoc
// @Summary Reopen a closed fiscal period
// @Description CLOSED -> OPEN. Locked periods cannot be reopened.
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	h.transition(c, "reopen", h.periodService.ReopenPeriod)
}

// lockPeriod godoc
// @Summary Lock a closed fiscal period
// @Description CLOSED -> LOCKED. Locking is permanent.
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id}/lock [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	h.transition(c, "lock", h.periodService.LockPeriod)
}

func (h *periodHandler) transition(c *gin.Context, verb string, fn func(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error)) {
	actorID, ok := requestActor(c)
	if !ok {
		return
	}

	period, err := fn(c.Request.Context(), c.Param("tenant_id"), c.Param("period_id"), actorID)
	if err != nil {
		respondError(c, err, verb+" fiscal period")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Fiscal period status changed",
		slog.String("period_id", period.PeriodID), slog.String("status", string(period.Status)))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
