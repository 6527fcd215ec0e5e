package ledger

import (
	"time"

	"money-tracker/internal/domain"
)

// BuildDashboard derives every overview figure from the log and settings.
// The combined balance starts from the bank and cash opening balances together.
func BuildDashboard(txs []domain.Transaction, settings domain.Settings, today time.Time, cycleStartDay int) domain.Dashboard {
	combinedInitial := toFloat(dec(settings.InitialBalance).Add(dec(settings.InitialCashBalance)))
	balance := ComputeBalance(txs, combinedInitial)
	cash := ComputeCashBalance(txs, settings.InitialCashBalance)
	debt := AnalyzeDebt(txs, cycleStartDay).Summary()

	savings := ComputeSavingsTotals(txs, settings)
	totalSavings := dec(0)
	for _, v := range savings {
		totalSavings = totalSavings.Add(dec(v))
	}

	cycle := CycleFor(today, cycleStartDay)
	return domain.Dashboard{
		Balance:        balance,
		AccountBalance: toFloat(dec(balance).Sub(dec(cash))),
		CashBalance:    cash,
		Debt:           debt,
		Savings:        savings,
		TotalSavings:   toFloat(totalSavings),
		NetWorth:       toFloat(dec(balance).Add(totalSavings).Sub(dec(debt.Total))),
		CycleStart:     cycle.Start.Format(domain.DateLayout),
		CycleEnd:       cycle.End.Format(domain.DateLayout),
	}
}
