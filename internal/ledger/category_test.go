package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"money-tracker/internal/domain"
	"money-tracker/internal/ledger"
)

func TestComputeSavingsTotals(t *testing.T) {
	settings := domain.Settings{InitialSavings: 1000, InitialSavingsFD: 5000, InitialSavingsGold: 250.5}
	txs := []domain.Transaction{
		expenseOn(day(2025, 3, 1), 200, domain.DeviceBankTransfer, "monthly", "Savings"),
		expenseOn(day(2025, 3, 1), 300, domain.DeviceBankTransfer, "fd", " savings fd "),
		expenseOn(day(2025, 3, 1), 100, domain.DeviceBankTransfer, "rd", "SAVINGS RD"),
		expenseOn(day(2025, 3, 1), 999, domain.DeviceBankTransfer, "ignored", "Groceries"),
		{Type: domain.TransactionTypeIncome, Amount: 150, Category: "Taken from savings", Date: day(2025, 3, 2)},
		{Type: domain.TransactionTypeIncome, Amount: 50, Device: domain.DeviceSavingsWithdraw, Date: day(2025, 3, 2)},
		{Type: domain.TransactionTypeIncome, Amount: 75, Category: "Savings Gold", Date: day(2025, 3, 2)},
	}

	got := ledger.ComputeSavingsTotals(txs, settings)
	assert.Equal(t, map[string]float64{
		ledger.SavingsPlain: 1000,
		ledger.SavingsFD:    5300,
		ledger.SavingsRD:    100,
		ledger.SavingsGold:  250.5,
	}, got)
}

func TestSummarizeByCategory(t *testing.T) {
	txs := []domain.Transaction{
		expenseOn(day(2025, 3, 1), 10.1, domain.DeviceUPI, "a", "Food"),
		expenseOn(day(2025, 3, 2), 20.2, domain.DeviceUPI, "b", "Food"),
		expenseOn(day(2025, 3, 3), 5, domain.DeviceUPI, "c", ""),
		{Type: domain.TransactionTypeIncome, Amount: 500, Category: "Salary", Date: day(2025, 3, 1)},
	}

	assert.Equal(t, map[string]float64{"Food": 30.3, ledger.Uncategorized: 5}, ledger.SummarizeByCategory(txs))
	assert.Equal(t, map[string]float64{"Salary": 500}, ledger.SummarizeByType(txs, domain.TransactionTypeIncome))
}

func TestCategoryReport(t *testing.T) {
	txs := []domain.Transaction{
		expenseOn(day(2025, 3, 1), 120, domain.DeviceUPI, "a", "food"),
		expenseOn(day(2025, 3, 2), 40, domain.DeviceUPI, "b", "Books"),
		expenseOn(day(2025, 4, 2), 1000, domain.DeviceUPI, "other month", "Books"),
		{Type: domain.TransactionTypeIncome, Amount: 3000, Category: "Salary", Date: day(2025, 3, 1)},
	}
	budgets := map[string]float64{"food": 100, "Salary": 2500, "Books": 0}

	expenses := ledger.CategoryReport(txs, budgets, 2025, 3, domain.TransactionTypeExpense)
	require.Len(t, expenses.Lines, 2)
	assert.Equal(t, "Books", expenses.Lines[0].Category)
	assert.Nil(t, expenses.Lines[0].Budget)
	assert.Equal(t, "food", expenses.Lines[1].Category)
	require.NotNil(t, expenses.Lines[1].Variance)
	assert.Equal(t, -20.0, *expenses.Lines[1].Variance)
	assert.Equal(t, 160.0, expenses.Total)

	income := ledger.CategoryReport(txs, budgets, 2025, 3, domain.TransactionTypeIncome)
	require.Len(t, income.Lines, 1)
	assert.Equal(t, 500.0, *income.Lines[0].Variance)
}

func TestFilterTransactions(t *testing.T) {
	a := expenseOn(day(2025, 3, 1), 10, domain.DeviceUPI, "Coffee", "Food")
	b := expenseOn(day(2025, 3, 5), 10, domain.DeviceCreditCard, "Train", "Travel")
	c := expenseOn(day(2025, 4, 1), 10, domain.DeviceCash, "Lunch", "Food")
	txs := []domain.Transaction{b, c, a}

	ids := func(txs []domain.Transaction) []string {
		out := []string{}
		for _, tx := range txs {
			out = append(out, tx.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter domain.TransactionFilter
		want   []string
	}{
		{name: "newest first by default", filter: domain.TransactionFilter{}, want: []string{"Lunch", "Train", "Coffee"}},
		{name: "ascending", filter: domain.TransactionFilter{Ascending: true}, want: []string{"Coffee", "Train", "Lunch"}},
		{name: "month and year", filter: domain.TransactionFilter{Year: 2025, Month: 3}, want: []string{"Train", "Coffee"}},
		{name: "text over description category device", filter: domain.TransactionFilter{Text: "credit"}, want: []string{"Train"}},
		{name: "device prefix", filter: domain.TransactionFilter{Device: "ca"}, want: []string{"Lunch"}},
		{name: "category prefix", filter: domain.TransactionFilter{Category: "fo"}, want: []string{"Lunch", "Coffee"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(ledger.FilterTransactions(txs, tt.filter)))
		})
	}
}

func TestBuildDashboard(t *testing.T) {
	f := newTestFactory()
	purchase, accrual := f.CreditCardExpense(ledger.Entry{Amount: 500, Date: day(2025, 3, 20)})
	txs := []domain.Transaction{
		purchase, accrual,
		f.Expense(ledger.Entry{Amount: 200, Date: day(2025, 3, 21), Device: "BANK_TRANSFER"}),
		f.Expense(ledger.Entry{Amount: 50, Date: day(2025, 3, 21), Device: "CASH"}),
		f.Expense(ledger.Entry{Amount: 100, Date: day(2025, 3, 22), Device: "BANK_TRANSFER", Category: "Savings"}),
	}
	settings := domain.Settings{InitialBalance: 1000, InitialCashBalance: 100, InitialSavings: 10}

	d := ledger.BuildDashboard(txs, settings, day(2025, 3, 25), ledger.DefaultCycleStartDay)

	assert.Equal(t, 750.0, d.Balance)
	assert.Equal(t, 50.0, d.CashBalance)
	assert.Equal(t, 700.0, d.AccountBalance)
	assert.Equal(t, domain.DebtSummary{CreditCard: 500, Total: 500}, d.Debt)
	assert.Equal(t, 110.0, d.TotalSavings)
	assert.Equal(t, 360.0, d.NetWorth)
	assert.Equal(t, "2025-03-19", d.CycleStart)
	assert.Equal(t, "2025-04-18", d.CycleEnd)
}
