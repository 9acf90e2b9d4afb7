package accounting

import (
	"testing"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyLines_AccumulatesPerAccount(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash": {AccountID: "cash", AccountType: domain.Asset, Balance: decimal.RequireFromString("10.00")},
		"rev":  {AccountID: "rev", AccountType: domain.Revenue, Balance: decimal.Zero},
	}
	lines := []domain.JournalLine{
		{LineNo: 1, AccountID: "cash", DebitAmount: decimal.RequireFromString("5.50")},
		{LineNo: 2, AccountID: "cash", DebitAmount: decimal.RequireFromString("4.50")},
		{LineNo: 3, AccountID: "rev", CreditAmount: decimal.RequireFromString("10.00")},
	}

	got, err := ApplyLines(accounts, lines)
	require.NoError(t, err)
	assert.Equal(t, "20", got["cash"].String())
	assert.Equal(t, "10", got["rev"].String())
	assert.Equal(t, "10", accounts["cash"].Balance.String(), "input map is not mutated")
}

func TestApplyLines_MissingAccount(t *testing.T) {
	_, err := ApplyLines(map[string]domain.Account{}, []domain.JournalLine{{AccountID: "ghost", DebitAmount: decimal.NewFromInt(1)}})
	assert.Error(t, err)
}
