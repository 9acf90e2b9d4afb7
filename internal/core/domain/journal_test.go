package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccount_ApplyDelta(t *testing.T) {
	tests := []struct {
		name        string
		accountType domain.AccountType
		start       string
		amount      string
		isDebit     bool
		want        string
	}{
		{"debit to asset increases", domain.Asset, "10.00", "5.25", true, "15.25"},
		{"credit to asset decreases", domain.Asset, "10.00", "5.25", false, "4.75"},
		{"debit to expense increases", domain.Expense, "0", "99.99", true, "99.99"},
		{"credit to liability increases", domain.Liability, "100", "0.01", false, "100.01"},
		{"debit to liability decreases", domain.Liability, "100", "40", true, "60"},
		{"credit to revenue increases", domain.Revenue, "0", "100", false, "100"},
		{"debit to equity decreases", domain.Equity, "0", "12.50", true, "-12.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := domain.Account{AccountID: "a", AccountType: tt.accountType, Balance: dec(tt.start)}
			got, err := acc.ApplyDelta(dec(tt.amount), tt.isDebit)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
			// the account itself is untouched
			assert.True(t, dec(tt.start).Equal(acc.Balance))
		})
	}
}

func TestAccount_ApplyDelta_UnknownType(t *testing.T) {
	acc := domain.Account{AccountID: "a", AccountType: "BOGUS"}
	_, err := acc.ApplyDelta(decimal.NewFromInt(1), true)
	assert.Error(t, err)
}

func TestJournalLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.JournalLine
		wantErr bool
	}{
		{"valid debit", domain.JournalLine{AccountID: "a", DebitAmount: dec("10.00")}, false},
		{"valid credit", domain.JournalLine{AccountID: "a", CreditAmount: dec("0.01")}, false},
		{"missing account", domain.JournalLine{DebitAmount: dec("1")}, true},
		{"both sides", domain.JournalLine{AccountID: "a", DebitAmount: dec("1"), CreditAmount: dec("1")}, true},
		{"no amount", domain.JournalLine{AccountID: "a"}, true},
		{"negative", domain.JournalLine{AccountID: "a", DebitAmount: dec("-1")}, true},
		{"three decimals", domain.JournalLine{AccountID: "a", CreditAmount: dec("1.005")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournalLine_Swapped(t *testing.T) {
	line := domain.JournalLine{LineID: "l1", EntryID: "e1", AccountID: "cash", DebitAmount: dec("100.00"), CreditAmount: decimal.Zero}
	swapped := line.Swapped()

	assert.Empty(t, swapped.LineID)
	assert.Empty(t, swapped.EntryID)
	assert.Equal(t, "cash", swapped.AccountID)
	assert.True(t, swapped.DebitAmount.IsZero())
	assert.True(t, dec("100").Equal(swapped.CreditAmount))
	assert.False(t, swapped.IsDebit())
}

func TestIsBalanced(t *testing.T) {
	balanced := []domain.JournalLine{
		{AccountID: "a", DebitAmount: dec("0.10")},
		{AccountID: "a", DebitAmount: dec("0.20")},
		{AccountID: "b", CreditAmount: dec("0.30")},
	}
	assert.True(t, domain.IsBalanced(balanced))

	unbalanced := []domain.JournalLine{
		{AccountID: "a", DebitAmount: dec("50.00")},
		{AccountID: "b", CreditAmount: dec("49.99")},
	}
	assert.False(t, domain.IsBalanced(unbalanced))

	debit, credit := domain.Totals(unbalanced)
	assert.Equal(t, "50", debit.String())
	assert.Equal(t, "49.99", credit.String())
}

func TestAccountIDs_PreservesOrderAndDedupes(t *testing.T) {
	lines := []domain.JournalLine{{AccountID: "b"}, {AccountID: "a"}, {AccountID: "b"}}
	assert.Equal(t, []string{"b", "a"}, domain.AccountIDs(lines))
}

func TestFiscalPeriod_CanAccept(t *testing.T) {
	p := domain.FiscalPeriod{
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}

	assert.True(t, p.CanAccept(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.CanAccept(time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)), "end date is inclusive")
	assert.False(t, p.CanAccept(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.CanAccept(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))

	p.Status = domain.PeriodClosed
	assert.True(t, p.Covers(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.CanAccept(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestFiscalPeriod_Transitions(t *testing.T) {
	open := domain.FiscalPeriod{Status: domain.PeriodOpen}
	closed := domain.FiscalPeriod{Status: domain.PeriodClosed}
	locked := domain.FiscalPeriod{Status: domain.PeriodLocked}

	assert.True(t, open.CanTransitionTo(domain.PeriodClosed))
	assert.False(t, open.CanTransitionTo(domain.PeriodLocked))
	assert.True(t, closed.CanTransitionTo(domain.PeriodLocked))
	assert.True(t, closed.CanTransitionTo(domain.PeriodOpen))
	assert.False(t, locked.CanTransitionTo(domain.PeriodOpen))
	assert.False(t, locked.CanTransitionTo(domain.PeriodClosed))
}

func TestFiscalPeriod_Overlaps(t *testing.T) {
	jan := domain.FiscalPeriod{StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)}
	feb := domain.FiscalPeriod{StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)}
	midJan := domain.FiscalPeriod{StartDate: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)}

	assert.False(t, jan.Overlaps(feb))
	assert.True(t, jan.Overlaps(midJan))
	assert.True(t, feb.Overlaps(midJan))
}
