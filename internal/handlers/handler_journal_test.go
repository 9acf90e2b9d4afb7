package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) draft() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:      uuid.NewString(),
		EntryNumber:  "JE-202601-00001",
		TenantID:     suite.tenantID,
		EntryDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:       domain.Draft,
		CurrencyCode: "USD",
		Source:       domain.SourceManual,
		TotalDebit:   decimal.NewFromInt(100),
		TotalCredit:  decimal.NewFromInt(100),
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: "cash", DebitAmount: decimal.NewFromInt(100), CreditAmount: decimal.Zero},
			{LineNo: 2, AccountID: "revenue", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(100)},
		},
	}
}

func (suite *HandlerTestSuite) TestCreateEntry_Success() {
	body := map[string]any{
		"entryDate":    "2026-01-15T00:00:00Z",
		"currencyCode": "USD",
		"description":  "January sale",
		"lines": []map[string]any{
			{"accountID": "cash", "debitAmount": "100.00"},
			{"accountID": "revenue", "creditAmount": "100.00"},
		},
	}
	created := suite.draft()
	suite.ledgerSvc.On("CreateEntry", mock.Anything, suite.tenantID,
		mock.MatchedBy(func(req dto.EntryRequest) bool {
			return len(req.Lines) == 2 &&
				req.Lines[0].DebitAmount.Equal(decimal.NewFromInt(100)) &&
				req.Lines[1].CreditAmount.Equal(decimal.NewFromInt(100)) &&
				req.Description == "January sale"
		}),
		suite.actorID,
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/journal-entries", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.EntryID, resp.EntryID)
	suite.Equal(domain.Draft, resp.Status)
	suite.Len(resp.Lines, 2)
}

func (suite *HandlerTestSuite) TestCreateEntry_MissingCurrency() {
	w := suite.do(http.MethodPost, "/journal-entries", map[string]any{"entryDate": "2026-01-15T00:00:00Z"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledgerSvc.AssertNotCalled(suite.T(), "CreateEntry")
}

func (suite *HandlerTestSuite) TestCreateEntry_NoOpenPeriod() {
	suite.ledgerSvc.On("CreateEntry", mock.Anything, suite.tenantID, mock.Anything, suite.actorID).
		Return(nil, fmt.Errorf("%w: 2030-01-01", apperrors.ErrNoOpenPeriod)).Once()

	w := suite.do(http.MethodPost, "/journal-entries", map[string]any{"entryDate": "2030-01-01T00:00:00Z", "currencyCode": "USD"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestPostEntry_ErrorMapping() {
	tests := []struct {
		name       string
		err        error
		status     int
		retryAfter string
	}{
		{"unbalanced", apperrors.ErrUnbalancedEntry, http.StatusUnprocessableEntity, ""},
		{"period closed", apperrors.ErrPeriodClosed, http.StatusUnprocessableEntity, ""},
		{"already posted", apperrors.ErrAlreadyPosted, http.StatusConflict, ""},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, ""},
		{"lock timeout", fmt.Errorf("%w: account cash", apperrors.ErrLockTimeout), http.StatusServiceUnavailable, "1"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			entryID := uuid.NewString()
			suite.ledgerSvc.On("PostEntry", mock.Anything, suite.tenantID, entryID, suite.actorID).Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/journal-entries/"+entryID+"/post", nil)

			suite.Equal(tt.status, w.Code)
			suite.Equal(tt.retryAfter, w.Header().Get("Retry-After"))
		})
	}
}

func (suite *HandlerTestSuite) TestPostEntry_Success() {
	posted := suite.draft()
	now := time.Now().UTC()
	posted.Status = domain.Posted
	posted.PostedAt = &now
	posted.PostedBy = &suite.actorID
	suite.ledgerSvc.On("PostEntry", mock.Anything, suite.tenantID, posted.EntryID, suite.actorID).Return(posted, nil).Once()

	w := suite.do(http.MethodPost, "/journal-entries/"+posted.EntryID+"/post", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.EntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Posted, resp.Status)
	suite.Require().NotNil(resp.PostedBy)
	suite.Equal(suite.actorID, *resp.PostedBy)
}

func (suite *HandlerTestSuite) TestReverseEntry_WithoutBody() {
	original := suite.draft()
	reversal := suite.draft()
	reversal.Status = domain.Posted
	reversal.ReversalOfEntryID = &original.EntryID
	suite.ledgerSvc.On("ReverseEntry", mock.Anything, suite.tenantID, original.EntryID, dto.ReverseRequest{}, suite.actorID).Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/journal-entries/"+original.EntryID+"/reverse", nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.ReversalOfEntryID)
	suite.Equal(original.EntryID, *resp.ReversalOfEntryID)
}

func (suite *HandlerTestSuite) TestReverseEntry_NotPosted() {
	suite.ledgerSvc.On("ReverseEntry", mock.Anything, suite.tenantID, "e-1",
		mock.MatchedBy(func(req dto.ReverseRequest) bool { return req.Reference != nil && *req.Reference == "R-1" }),
		suite.actorID,
	).Return(nil, apperrors.ErrNotPosted).Once()

	w := suite.do(http.MethodPost, "/journal-entries/e-1/reverse", map[string]any{"reference": "R-1"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateEntry_PostedIsConflict() {
	suite.ledgerSvc.On("UpdateEntry", mock.Anything, suite.tenantID, "e-1", mock.Anything, suite.actorID).
		Return(nil, apperrors.ErrCannotModifyPosted).Once()

	w := suite.do(http.MethodPut, "/journal-entries/e-1", map[string]any{"entryDate": "2026-01-15T00:00:00Z", "currencyCode": "USD"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteEntry() {
	suite.ledgerSvc.On("DeleteEntry", mock.Anything, suite.tenantID, "e-1", suite.actorID).Return(nil).Once()
	suite.ledgerSvc.On("DeleteEntry", mock.Anything, suite.tenantID, "e-2", suite.actorID).Return(apperrors.ErrCannotDeletePosted).Once()

	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/journal-entries/e-1", nil).Code)
	suite.Equal(http.StatusConflict, suite.do(http.MethodDelete, "/journal-entries/e-2", nil).Code)
}

func (suite *HandlerTestSuite) TestListEntries_Paging() {
	token := "next-page"
	page := []domain.JournalEntry{*suite.draft(), *suite.draft()}
	suite.ledgerSvc.On("ListEntries", mock.Anything, suite.tenantID,
		mock.MatchedBy(func(p dto.ListEntriesParams) bool {
			return p.Limit == 2 && p.Status != nil && *p.Status == "DRAFT"
		}),
	).Return(page, &token, nil).Once()

	w := suite.do(http.MethodGet, "/journal-entries?limit=2&status=DRAFT", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(token, *resp.NextToken)
}

func (suite *HandlerTestSuite) TestListEntries_LimitTooLarge() {
	w := suite.do(http.MethodGet, "/journal-entries?limit=500", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledgerSvc.AssertNotCalled(suite.T(), "ListEntries")
}

// --- Fiscal period cases ---

func (suite *HandlerTestSuite) TestGetCovering() {
	jan := &domain.FiscalPeriod{
		PeriodID:   "p-jan",
		Name:       "January 2026",
		PeriodType: domain.PeriodMonth,
		FiscalYear: 2026,
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:     domain.PeriodOpen,
	}
	jan15 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mar1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.periodSvc.On("GetPeriodCovering", mock.Anything, suite.tenantID, jan15).Return(jan, nil).Once()
	suite.periodSvc.On("GetPeriodCovering", mock.Anything, suite.tenantID, mar1).Return(nil, nil).Once()

	w := suite.do(http.MethodGet, "/periods/covering?date=2026-01-15", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PeriodResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("p-jan", resp.PeriodID)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/periods/covering?date=2026-03-01", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/periods/covering?date=15/01/2026", nil).Code)
}

func (suite *HandlerTestSuite) TestPeriodTransitions() {
	closed := &domain.FiscalPeriod{PeriodID: "p-1", Status: domain.PeriodClosed}
	suite.periodSvc.On("ClosePeriod", mock.Anything, suite.tenantID, "p-1", suite.actorID).Return(closed, nil).Once()
	suite.periodSvc.On("ReopenPeriod", mock.Anything, suite.tenantID, "p-2", suite.actorID).Return(nil, apperrors.ErrInvalidPeriodStatus).Once()
	suite.periodSvc.On("LockPeriod", mock.Anything, suite.tenantID, "p-3", suite.actorID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodPost, "/periods/p-1/close", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PeriodResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.PeriodClosed, resp.Status)

	suite.Equal(http.StatusConflict, suite.do(http.MethodPost, "/periods/p-2/reopen", nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodPost, "/periods/p-3/lock", nil).Code)
}

func (suite *HandlerTestSuite) TestCreatePeriod_Overlap() {
	suite.periodSvc.On("CreatePeriod", mock.Anything, suite.tenantID, mock.Anything, suite.actorID).
		Return(nil, fmt.Errorf("%w: %w: overlaps January 2026", apperrors.ErrValidation, apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/periods", map[string]any{
		"name":       "Mid January",
		"periodType": "MONTH",
		"fiscalYear": 2026,
		"startDate":  "2026-01-10T00:00:00Z",
		"endDate":    "2026-02-09T00:00:00Z",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorBody(w), "overlaps")
}
