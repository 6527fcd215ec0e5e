package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"money-tracker/internal/domain"
)

// Descriptions that truncate the debt history when they appear verbatim.
var resetMarkers = map[string]bool{
	"credit card debt reset": true,
	"debt reset":             true,
}

var paymentKeywords = []string{"payment", "bill", "paid", "clear", "settle", "repay"}

// DebtAnalysis is the full result of walking the log for outstanding debt.
type DebtAnalysis struct {
	CreditCard float64
	Borrowed   float64
	Cycles     []domain.CycleDebt
}

// Summary returns the debt figures with their total.
func (a DebtAnalysis) Summary() domain.DebtSummary {
	return domain.DebtSummary{
		CreditCard: a.CreditCard,
		Borrowed:   a.Borrowed,
		Total:      toFloat(dec(a.CreditCard).Add(dec(a.Borrowed))),
	}
}

// CycleNet is what the given cycle added to card debt, floored at zero.
func (a DebtAnalysis) CycleNet(c BillingCycle) float64 {
	for _, cd := range a.Cycles {
		if cd.Cycle == c.Key() {
			return toFloat(maxZero(dec(cd.Expenses).Sub(dec(cd.Payments))))
		}
	}
	return 0
}

// ComputeOutstandingDebt returns the credit-card and borrowed debt using the
// default billing cycle.
func ComputeOutstandingDebt(txs []domain.Transaction) (creditCard, borrowed float64) {
	a := AnalyzeDebt(txs, DefaultCycleStartDay)
	return a.CreditCard, a.Borrowed
}

// IsResetMarker reports whether tx is a debt reset entry.
func IsResetMarker(tx domain.Transaction) bool {
	return resetMarkers[strings.ToLower(strings.TrimSpace(tx.Description))]
}

func isPaymentLike(description string) bool {
	d := strings.ToLower(description)
	for _, kw := range paymentKeywords {
		if strings.Contains(d, kw) {
			return true
		}
	}
	return false
}

func hasWord(s, word string) bool {
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if f == word {
			return true
		}
	}
	return false
}

func looksLikeCreditCard(tx domain.Transaction) bool {
	if tx.Device.IsCreditCard() {
		return true
	}
	for _, s := range []string{tx.Description, tx.Category} {
		if strings.Contains(strings.ToLower(s), "credit card") || hasWord(s, "cc") {
			return true
		}
	}
	return false
}

// chronological returns a copy of txs ordered by date, then creation time.
func chronological(txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

type cycleBucket struct {
	expenses decimal.Decimal
	payments decimal.Decimal
}

// AnalyzeDebt walks the log in chronological order and derives outstanding
// credit-card and borrowed debt. Everything up to and including the most
// recent reset marker is ignored. Card payments offset card expenses across
// all cycles, so a payment may retire debt from an earlier cycle.
func AnalyzeDebt(txs []domain.Transaction, cycleStartDay int) DebtAnalysis {
	ordered := chronological(txs)
	for i := len(ordered) - 1; i >= 0; i-- {
		if IsResetMarker(ordered[i]) {
			ordered = ordered[i+1:]
			break
		}
	}

	// Clearance halves linked to a payment are audit records of that payment.
	paymentLinks := map[string]bool{}
	for _, tx := range ordered {
		if tx.Type == domain.TransactionTypeExpense && tx.SubType == domain.SubTypeCreditCardPayment && tx.LinkedTxID != "" {
			paymentLinks[tx.LinkedTxID] = true
		}
	}

	buckets := map[string]*cycleBucket{}
	bucket := func(tx domain.Transaction) *cycleBucket {
		key := CycleFor(tx.Date, cycleStartDay).Key()
		b, ok := buckets[key]
		if !ok {
			b = &cycleBucket{}
			buckets[key] = b
		}
		return b
	}

	borrowed := decimal.Zero
	repay := func(amount decimal.Decimal) {
		borrowed = borrowed.Sub(decimal.Min(borrowed, amount))
	}

	for _, tx := range ordered {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		amount := money(tx.Amount)

		switch {
		case tx.SubType == domain.SubTypeCreditCardPayment:
			b := bucket(tx)
			b.payments = b.payments.Add(amount)
		case tx.SubType == domain.SubTypeCreditCardDebt:
			if tx.LinkedTxID != "" && paymentLinks[tx.LinkedTxID] {
				continue
			}
			b := bucket(tx)
			b.payments = b.payments.Add(amount)
		case tx.SubType == domain.SubTypeCreditCardExpense:
			b := bucket(tx)
			b.expenses = b.expenses.Add(amount)
		case tx.Device == domain.DeviceDebtBorrowed:
			if isPaymentLike(tx.Description) {
				repay(amount)
			} else {
				borrowed = borrowed.Add(amount)
			}
		case strings.Contains(strings.ToLower(tx.Category), "debt cleared"):
			repay(amount)
		case looksLikeCreditCard(tx):
			b := bucket(tx)
			if isPaymentLike(tx.Description) {
				b.payments = b.payments.Add(amount)
			} else {
				b.expenses = b.expenses.Add(amount)
			}
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	totalExpenses, totalPayments := decimal.Zero, decimal.Zero
	cycles := make([]domain.CycleDebt, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		totalExpenses = totalExpenses.Add(b.expenses)
		totalPayments = totalPayments.Add(b.payments)
		cycles = append(cycles, domain.CycleDebt{
			Cycle:    k,
			Expenses: toFloat(b.expenses),
			Payments: toFloat(b.payments),
		})
	}

	return DebtAnalysis{
		CreditCard: toFloat(maxZero(totalExpenses.Sub(totalPayments))),
		Borrowed:   toFloat(borrowed),
		Cycles:     cycles,
	}
}
