package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"money-tracker/internal/domain"
)

// Uncategorized is the bucket for transactions without a category.
const Uncategorized = "Uncategorized"

// SummarizeByCategory sums expense amounts per category.
func SummarizeByCategory(txs []domain.Transaction) map[string]float64 {
	return SummarizeByType(txs, domain.TransactionTypeExpense)
}

// SummarizeByType sums amounts per category for one transaction type.
func SummarizeByType(txs []domain.Transaction, txType domain.TransactionType) map[string]float64 {
	sums := map[string]decimal.Decimal{}
	for _, tx := range txs {
		if tx.Type != txType {
			continue
		}
		category := tx.Category
		if category == "" {
			category = Uncategorized
		}
		sums[category] = sums[category].Add(money(tx.Amount))
	}
	out := make(map[string]float64, len(sums))
	for k, v := range sums {
		out[k] = toFloat(v)
	}
	return out
}

// CategoryReport totals one month of txType by category and sets each total
// against its budget. For expenses the variance is budget minus spent, for
// income it is earned minus budget, so positive is good either way.
func CategoryReport(txs []domain.Transaction, budgets map[string]float64, year, month int, txType domain.TransactionType) domain.CategoryReport {
	inMonth := FilterTransactions(txs, domain.TransactionFilter{Year: year, Month: month})
	sums := SummarizeByType(inMonth, txType)

	report := domain.CategoryReport{Year: year, Month: month, Type: txType, Lines: []domain.CategoryLine{}}
	total := decimal.Zero
	for category, amount := range sums {
		total = total.Add(dec(amount))
		line := domain.CategoryLine{Category: category, Amount: amount}
		if budget, ok := budgets[category]; ok && budget > 0 {
			b := budget
			var variance float64
			if txType == domain.TransactionTypeIncome {
				variance = toFloat(dec(amount).Sub(dec(budget)))
			} else {
				variance = toFloat(dec(budget).Sub(dec(amount)))
			}
			line.Budget = &b
			line.Variance = &variance
		}
		report.Lines = append(report.Lines, line)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		return strings.ToLower(report.Lines[i].Category) < strings.ToLower(report.Lines[j].Category)
	})
	report.Total = toFloat(total)
	return report
}

// FilterTransactions applies a listing filter and sorts the result by date,
// newest first unless Ascending is set.
func FilterTransactions(txs []domain.Transaction, f domain.TransactionFilter) []domain.Transaction {
	text := strings.ToLower(strings.TrimSpace(f.Text))
	device := strings.ToLower(strings.TrimSpace(f.Device))
	category := strings.ToLower(strings.TrimSpace(f.Category))

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Year != 0 && tx.Date.Year() != f.Year {
			continue
		}
		if f.Month != 0 && int(tx.Date.Month()) != f.Month {
			continue
		}
		if text != "" {
			haystack := strings.ToLower(strings.Join([]string{tx.Description, tx.Category, string(tx.Device)}, " "))
			if !strings.Contains(haystack, text) {
				continue
			}
		}
		if device != "" && !strings.HasPrefix(strings.ToLower(string(tx.Device)), device) {
			continue
		}
		if category != "" && !strings.HasPrefix(strings.ToLower(tx.Category), category) {
			continue
		}
		out = append(out, tx)
	}

	out = chronological(out)
	if !f.Ascending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
