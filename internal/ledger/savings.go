package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"money-tracker/internal/domain"
)

// Savings bucket labels.
const (
	SavingsPlain = "Savings"
	SavingsFD    = "Savings FD"
	SavingsRD    = "Savings RD"
	SavingsGold  = "Savings Gold"
)

// SavingsLabels lists the buckets in display order.
var SavingsLabels = []string{SavingsPlain, SavingsFD, SavingsRD, SavingsGold}

var savingsCategories = map[string]string{
	"savings":      SavingsPlain,
	"savings fd":   SavingsFD,
	"savings rd":   SavingsRD,
	"savings gold": SavingsGold,
}

var savingsWithdrawCategories = map[string]bool{
	"taken from savings": true,
}

func initialSavings(s domain.Settings) map[string]float64 {
	return map[string]float64{
		SavingsPlain: s.InitialSavings,
		SavingsFD:    s.InitialSavingsFD,
		SavingsRD:    s.InitialSavingsRD,
		SavingsGold:  s.InitialSavingsGold,
	}
}

// ComputeSavingsTotals seeds each bucket from settings, adds expenses booked to a
// savings category and takes savings withdrawals out of the plain bucket.
func ComputeSavingsTotals(txs []domain.Transaction, settings domain.Settings) map[string]float64 {
	totals := map[string]decimal.Decimal{}
	for label, v := range initialSavings(settings) {
		totals[label] = dec(v)
	}

	for _, tx := range txs {
		category := strings.ToLower(strings.TrimSpace(tx.Category))
		switch tx.Type {
		case domain.TransactionTypeExpense:
			if label, ok := savingsCategories[category]; ok {
				totals[label] = totals[label].Add(money(tx.Amount))
			}
		case domain.TransactionTypeIncome:
			if savingsWithdrawCategories[category] || tx.Device == domain.DeviceSavingsWithdraw {
				totals[SavingsPlain] = totals[SavingsPlain].Sub(money(tx.Amount))
			}
		}
	}

	out := make(map[string]float64, len(totals))
	for label, v := range totals {
		out[label] = toFloat(v)
	}
	return out
}
