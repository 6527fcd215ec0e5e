package ledger

import (
	"github.com/shopspring/decimal"

	"money-tracker/internal/domain"
)

// countsTowardBalance excludes the synthetic card halves and borrowed money.
func countsTowardBalance(tx domain.Transaction) bool {
	if !tx.EffectsBalance {
		return false
	}
	if tx.SubType == domain.SubTypeCreditCardExpense || tx.SubType == domain.SubTypeCreditCardDebt {
		return false
	}
	return tx.Device != domain.DeviceDebtBorrowed
}

func signedAmount(tx domain.Transaction) decimal.Decimal {
	switch tx.Type {
	case domain.TransactionTypeIncome:
		return money(tx.Amount)
	case domain.TransactionTypeExpense:
		return money(tx.Amount).Neg()
	default:
		return decimal.Zero
	}
}

// ComputeBalance returns initialBalance moved by every balance-affecting transaction.
func ComputeBalance(txs []domain.Transaction, initialBalance float64) float64 {
	balance := dec(initialBalance)
	for _, tx := range txs {
		if countsTowardBalance(tx) {
			balance = balance.Add(signedAmount(tx))
		}
	}
	return toFloat(balance)
}

// ComputeCashBalance is ComputeBalance restricted to CASH transactions.
func ComputeCashBalance(txs []domain.Transaction, initialCashBalance float64) float64 {
	balance := dec(initialCashBalance)
	for _, tx := range txs {
		if countsTowardBalance(tx) && tx.Device == domain.DeviceCash {
			balance = balance.Add(signedAmount(tx))
		}
	}
	return toFloat(balance)
}
