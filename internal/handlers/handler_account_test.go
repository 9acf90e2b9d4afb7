package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/handlers"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetChartOfAccounts(ctx context.Context, tenantID string) ([]*domain.ChartNode, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChartNode), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, tenantID, accountID, actorID string) error {
	args := m.Called(ctx, tenantID, accountID, actorID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock FiscalPeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) period(args mock.Arguments) (*domain.FiscalPeriod, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) GetPeriod(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, tenantID, periodID))
}

func (m *MockPeriodService) ListPeriods(ctx context.Context, tenantID string, params dto.ListPeriodsParams) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) GetPeriodCovering(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, tenantID, date))
}

func (m *MockPeriodService) CanAccept(ctx context.Context, tenantID, periodID string, date time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, periodID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, actorID string) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, tenantID, req, actorID))
}

func (m *MockPeriodService) ClosePeriod(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, tenantID, periodID, actorID))
}

func (m *MockPeriodService) ReopenPeriod(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, tenantID, periodID, actorID))
}

func (m *MockPeriodService) LockPeriod(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, tenantID, periodID, actorID))
}

var _ portssvc.FiscalPeriodSvcFacade = (*MockPeriodService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID))
}

func (m *MockLedgerService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, params)
	var token *string
	if t, ok := args.Get(1).(*string); ok {
		token = t
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

func (m *MockLedgerService) CreateEntry(ctx context.Context, tenantID string, req dto.EntryRequest, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, req, actorID))
}

func (m *MockLedgerService) UpdateEntry(ctx context.Context, tenantID, entryID string, req dto.EntryRequest, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, req, actorID))
}

func (m *MockLedgerService) DeleteEntry(ctx context.Context, tenantID, entryID, actorID string) error {
	return m.Called(ctx, tenantID, entryID, actorID).Error(0)
}

func (m *MockLedgerService) PostEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, actorID))
}

func (m *MockLedgerService) ReverseEntry(ctx context.Context, tenantID, entryID string, req dto.ReverseRequest, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, req, actorID))
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	accountSvc    *MockAccountService
	periodSvc     *MockPeriodService
	ledgerSvc     *MockLedgerService
	jwtSecret     string
	tenantID      string
	actorID       string
	authorization string
}

const testIssuer = "ledger-test"

// generateTestToken creates a signed JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(actorID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   actorID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.tenantID = "tenant-" + uuid.NewString()[:8]
	suite.actorID = uuid.NewString()
	suite.authorization = "Bearer " + suite.generateTestToken(suite.actorID)

	suite.accountSvc = new(MockAccountService)
	suite.periodSvc = new(MockPeriodService)
	suite.ledgerSvc = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, testIssuer))
	handlers.RegisterTenantRoutes(v1.Group("/tenants/:tenant_id"), &portssvc.ServiceContainer{
		Account: suite.accountSvc,
		Period:  suite.periodSvc,
		Ledger:  suite.ledgerSvc,
	})
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.accountSvc.AssertExpectations(suite.T())
	suite.periodSvc.AssertExpectations(suite.T())
	suite.ledgerSvc.AssertExpectations(suite.T())
}

// do sends an authenticated request to a tenant-relative path.
func (suite *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, "/api/v1/tenants/"+suite.tenantID+path, &buf)
	req.Header.Set("Authorization", suite.authorization)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

// --- Account cases ---

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"}
	created := &domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: "1000",
		TenantID:      suite.tenantID,
		Name:          "Cash",
		AccountType:   domain.Asset,
		CurrencyCode:  "USD",
		Balance:       decimal.Zero,
		IsActive:      true,
	}
	suite.accountSvc.On("CreateAccount", mock.Anything, suite.tenantID, req, suite.actorID).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("1000", resp.AccountNumber)
	suite.Equal(created.AccountID, resp.AccountID)
}

func (suite *HandlerTestSuite) TestCreateAccount_BindingRejectsUnknownType() {
	w := suite.do(http.MethodPost, "/accounts", map[string]string{"name": "X", "accountType": "BOGUS", "currencyCode": "USD"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accountSvc.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateNumberIsBadRequest() {
	req := dto.CreateAccountRequest{AccountNumber: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"}
	err := errors.Join(apperrors.ErrValidation, apperrors.ErrDuplicate)
	suite.accountSvc.On("CreateAccount", mock.Anything, suite.tenantID, req, suite.actorID).Return(nil, err).Once()

	w := suite.do(http.MethodPost, "/accounts", req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccount_StatusMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"validation", apperrors.ErrValidation, http.StatusBadRequest},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"infrastructure", apperrors.NewAppError(500, "failed to find account", errors.New("connection reset")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			accountID := uuid.NewString()
			suite.accountSvc.On("GetAccountByID", mock.Anything, suite.tenantID, accountID).Return(nil, tt.err).Once()

			w := suite.do(http.MethodGet, "/accounts/"+accountID, nil)

			suite.Equal(tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				suite.NotContains(suite.errorBody(w), "connection reset", "infrastructure detail must not leak")
			}
		})
	}
}

func (suite *HandlerTestSuite) TestGetChart() {
	cash := domain.Account{AccountID: "a1", AccountNumber: "1000", Name: "Assets"}
	bank := domain.Account{AccountID: "a2", AccountNumber: "1001", Name: "Bank", ParentAccountID: &cash.AccountID}
	roots := []*domain.ChartNode{{Account: cash, Children: []*domain.ChartNode{{Account: bank}}}}
	suite.accountSvc.On("GetChartOfAccounts", mock.Anything, suite.tenantID).Return(roots, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/chart", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.ChartNodeResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Require().Len(resp[0].Children, 1)
	suite.Equal("Bank", resp[0].Children[0].Name)
	suite.Equal("a1", resp[0].Children[0].ParentAccountID)
}

func (suite *HandlerTestSuite) TestDeleteAccount_InUse() {
	suite.accountSvc.On("DeleteAccount", mock.Anything, suite.tenantID, "acc-1", suite.actorID).Return(apperrors.ErrConflict).Once()

	w := suite.do(http.MethodDelete, "/accounts/acc-1", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/tenants/"+suite.tenantID+"/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestWrongIssuer_Unauthorized() {
	claims := jwt.RegisteredClaims{Issuer: "someone-else", Subject: suite.actorID, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)
	suite.authorization = "Bearer " + signed

	w := suite.do(http.MethodGet, "/accounts", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
