package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyLines computes the balance of every account touched by lines after they
// are posted, starting from the balances in accounts. Lines are applied in
// order, so an account hit twice accumulates both deltas. Nothing is mutated.
func ApplyLines(accounts map[string]domain.Account, lines []domain.JournalLine) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account %s not loaded for line %d", line.AccountID, line.LineNo)
		}
		if current, seen := balances[line.AccountID]; seen {
			acc.Balance = current
		}
		next, err := acc.ApplyLine(line)
		if err != nil {
			return nil, err
		}
		balances[line.AccountID] = next
	}
	return balances, nil
}
