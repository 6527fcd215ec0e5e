package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"money-tracker/internal/domain"
	"money-tracker/internal/ledger"
)

func sharedTx(txType domain.TransactionType, amount float64, splits ...domain.SharedSplit) domain.Transaction {
	return domain.Transaction{
		ID:           "shared",
		Type:         txType,
		SubType:      domain.SubTypeRegular,
		Amount:       amount,
		Date:         day(2025, 3, 1),
		Device:       domain.DeviceUPI,
		Shared:       true,
		SharedSplits: splits,
	}
}

func split(name string) domain.SharedSplit { return domain.SharedSplit{Name: name} }

func splitOf(name string, amount float64) domain.SharedSplit {
	return domain.SharedSplit{Name: name, Amount: domain.Amount(amount)}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name string
		tx   domain.Transaction
		want map[string]float64
	}{
		{
			name: "explicit plus even remainder",
			tx:   sharedTx(domain.TransactionTypeExpense, 90, splitOf("alice", 30), split("bob"), split("carol")),
			want: map[string]float64{"alice": 30, "bob": 30, "carol": 30},
		},
		{
			name: "last participant absorbs rounding",
			tx:   sharedTx(domain.TransactionTypeExpense, 10, split("a"), split("b"), split("c")),
			want: map[string]float64{"a": 3.33, "b": 3.33, "c": 3.34},
		},
		{
			name: "even shares never overshoot a small total",
			tx:   sharedTx(domain.TransactionTypeExpense, 0.05, split("a"), split("b"), split("c"), split("d"), split("e"), split("f"), split("g")),
			want: map[string]float64{"a": 0, "b": 0, "c": 0, "d": 0, "e": 0, "f": 0, "g": 0.05},
		},
		{
			name: "truncated shares with the remainder on the last",
			tx:   sharedTx(domain.TransactionTypeExpense, 10, split("a"), split("b"), split("c"), split("d"), split("e"), split("f")),
			want: map[string]float64{"a": 1.66, "b": 1.66, "c": 1.66, "d": 1.66, "e": 1.66, "f": 1.7},
		},
		{
			name: "explicit shares exceeding total leave nothing to distribute",
			tx:   sharedTx(domain.TransactionTypeExpense, 50, splitOf("alice", 40), splitOf("bob", 30), split("carol")),
			want: map[string]float64{"alice": 40, "bob": 30, "carol": 0},
		},
		{
			name: "duplicate names accumulate",
			tx:   sharedTx(domain.TransactionTypeExpense, 100, splitOf("alice", 10), splitOf("alice", 15), split("bob")),
			want: map[string]float64{"alice": 25, "bob": 75},
		},
		{
			name: "name in both groups sums",
			tx:   sharedTx(domain.TransactionTypeExpense, 100, splitOf("alice", 20), split("alice"), split("bob")),
			want: map[string]float64{"alice": 60, "bob": 40},
		},
		{
			name: "negative explicit share treated as magnitude",
			tx:   sharedTx(domain.TransactionTypeExpense, 20, splitOf("alice", -5), split("bob")),
			want: map[string]float64{"alice": 5, "bob": 15},
		},
		{
			name: "blank names ignored",
			tx:   sharedTx(domain.TransactionTypeExpense, 20, split(" "), split("bob")),
			want: map[string]float64{"bob": 20},
		},
		{
			name: "not shared",
			tx:   domain.Transaction{Type: domain.TransactionTypeExpense, Amount: 20, SharedSplits: []domain.SharedSplit{split("bob")}},
			want: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.Allocate(tt.tx))
		})
	}
}

func TestAllocate_EvenSplitsSumToTotal(t *testing.T) {
	amounts := []float64{10, 0.01, 0.05, 99.99, 100, 1234.57, 7.77}
	for _, amount := range amounts {
		for k := 1; k <= 7; k++ {
			splits := make([]domain.SharedSplit, k)
			for i := range splits {
				splits[i] = split(string(rune('a' + i)))
			}
			alloc := ledger.Allocate(sharedTx(domain.TransactionTypeExpense, amount, splits...))
			require.Len(t, alloc, k)

			sum := decimal.Zero
			for _, v := range alloc {
				sum = sum.Add(decimal.NewFromFloat(v))
			}
			assert.True(t, sum.Equal(decimal.NewFromFloat(amount)), "amount %.2f k=%d sum=%s", amount, k, sum)
		}
	}
}

func TestSummarizeShared(t *testing.T) {
	dinner := sharedTx(domain.TransactionTypeExpense, 90, splitOf("alice", 30), split("bob"), split("carol"))
	dinner.Category = "Food"
	refund := sharedTx(domain.TransactionTypeIncome, 30, split("bob"))
	refund.Category = "Food"
	loan := sharedTx(domain.TransactionTypeExpense, 50, split("dave"))
	loan.Device = domain.DeviceDebtBorrowed
	loan.Category = "Loan"
	transfer := sharedTx(domain.TransactionTypeTransfer, 10, split("alice"))
	unshared := domain.Transaction{Type: domain.TransactionTypeExpense, Amount: 10, Category: "Food"}

	txs := []domain.Transaction{dinner, refund, loan, transfer, unshared}

	t.Run("all participants", func(t *testing.T) {
		got := ledger.SummarizeShared(txs, "", "")
		assert.Equal(t, map[string]float64{"alice": 30, "carol": 30, "dave": -50}, got.Totals)
		assert.Len(t, got.Details, 3)
	})

	t.Run("settled participant dropped but detail kept", func(t *testing.T) {
		got := ledger.SummarizeShared(txs, "BOB", "")
		assert.Empty(t, got.Totals)
		require.Len(t, got.Details, 2)
		assert.Equal(t, map[string]float64{"alice": 30, "bob": 30, "carol": 30}, got.Details[0].Allocations)
	})

	t.Run("category filter is exact and case insensitive", func(t *testing.T) {
		got := ledger.SummarizeShared(txs, "", "food")
		assert.Equal(t, map[string]float64{"alice": 30, "carol": 30}, got.Totals)
		assert.Len(t, got.Details, 2)

		got = ledger.SummarizeShared(txs, "", "foo")
		assert.Empty(t, got.Totals)
		assert.Empty(t, got.Details)
	})

	t.Run("participant filter counts only that participant", func(t *testing.T) {
		got := ledger.SummarizeShared(txs, "Alice", "")
		assert.Equal(t, map[string]float64{"alice": 30}, got.Totals)
		assert.Len(t, got.Details, 1)
	})
}

func TestParticipantDetail(t *testing.T) {
	older := sharedTx(domain.TransactionTypeExpense, 40, split("alice"), split("bob"))
	older.Date = day(2025, 3, 1)
	newer := sharedTx(domain.TransactionTypeIncome, 10, split("alice"))
	newer.ID = "refund"
	newer.Date = day(2025, 3, 5)
	borrowed := sharedTx(domain.TransactionTypeExpense, 15, split("Alice"))
	borrowed.ID = "borrowed"
	borrowed.Device = domain.DeviceDebtBorrowed
	borrowed.Date = day(2025, 3, 3)

	report := ledger.ParticipantDetail([]domain.Transaction{older, newer, borrowed}, "ALICE")

	require.Len(t, report.Entries, 3)
	assert.Equal(t, "refund", report.Entries[0].Transaction.ID)
	assert.Equal(t, -10.0, report.Entries[0].Signed)
	assert.Equal(t, "borrowed", report.Entries[1].Transaction.ID)
	assert.Equal(t, -15.0, report.Entries[1].Signed)
	assert.Equal(t, 20.0, report.Entries[2].Signed)
	assert.Equal(t, -5.0, report.Net)
}
