package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(ledgerService portssvc.LedgerSvcFacade) *journalHandler {
	return &journalHandler{
		ledgerService: ledgerService,
	}
}

// registerJournalRoutes registers routes related to journal entries under a tenant group.
func registerJournalRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newJournalHandler(ledgerService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entry_id", h.getEntry)
		entries.PUT("/:entry_id", h.updateEntry)
		entries.DELETE("/:entry_id", h.deleteEntry)
		entries.POST("/:entry_id/post", h.postEntry)
		entries.POST("/:entry_id/reverse", h.reverseEntry)
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Stores a DRAFT entry with its lines. Drafts may be unbalanced; balance is enforced when posting.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry body dto.EntryRequest true "Entry header and lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid request format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Line account not found"
// @Failure 422 {object} map[string]string "No open fiscal period covers the entry date"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	var req dto.EntryRequest
	if !bindJSON(c, &req) {
		return
	}
	actorID, ok := requestActor(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), c.Param("tenant_id"), req, actorID)
	if err != nil {
		respondError(c, err, "create journal entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal entry created",
		slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry and its lines
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{entry_id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.ledgerService.GetEntry(c.Request.Context(), c.Param("tenant_id"), c.Param("entry_id"))
	if err != nil {
		respondError(c, err, "retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entry headers newest first using token-based pagination.
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size (1-100)" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   status query string false "Filter by status" Enums(DRAFT, POSTED, REVERSED)
// @Param   fiscalPeriodID query string false "Filter by fiscal period"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters or token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if !bindQuery(c, &params) {
		return
	}

	entries, nextToken, err := h.ledgerService.ListEntries(c.Request.Context(), c.Param("tenant_id"), params)
	if err != nil {
		respondError(c, err, "list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEntriesResponse(entries, nextToken))
}

// updateEntry godoc
// @Summary Replace a draft journal entry
// @Description Replaces the header and the full line set of a DRAFT entry.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Param   entry body dto.EntryRequest true "Entry header and lines"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is no longer a draft"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{entry_id} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	var req dto.EntryRequest
	if !bindJSON(c, &req) {
		return
	}
	actorID, ok := requestActor(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request.Context(), c.Param("tenant_id"), c.Param("entry_id"), req, actorID)
	if err != nil {
		respondError(c, err, "update journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a draft journal entry
// @Tags journal-entries
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Posted entries cannot be deleted"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{entry_id} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	actorID, ok := requestActor(c)
	if !ok {
		return
	}

	entryID := c.Param("entry_id")
	if err := h.ledgerService.DeleteEntry(c.Request.Context(), c.Param("tenant_id"), entryID, actorID); err != nil {
		respondError(c, err, "delete journal entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal entry deleted", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Validates balance and period, then applies every line to its account balance atomically.
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry already posted"
// @Failure 422 {object} map[string]string "Entry unbalanced or period closed"
// @Failure 503 {object} map[string]string "Accounts busy, retry later"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{entry_id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	actorID, ok := requestActor(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), c.Param("tenant_id"), c.Param("entry_id"), actorID)
	if err != nil {
		respondError(c, err, "post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Posts a mirror entry with debits and credits swapped and marks the original REVERSED. The body is optional.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Param   overrides body dto.ReverseRequest false "Optional date, reference and description"
// @Success 201 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not posted"
// @Failure 422 {object} map[string]string "Target period closed"
// @Failure 503 {object} map[string]string "Accounts busy, retry later"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{entry_id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	var req dto.ReverseRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	actorID, ok := requestActor(c)
	if !ok {
		return
	}

	reversal, err := h.ledgerService.ReverseEntry(c.Request.Context(), c.Param("tenant_id"), c.Param("entry_id"), req, actorID)
	if err != nil {
		respondError(c, err, "reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}
