package ledger

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"money-tracker/internal/domain"
)

// settledThreshold is the magnitude below which a participant counts as settled.
const settledThreshold = 0.005

// Allocate splits a shared transaction among its participants. Explicit shares
// are honored first. The remainder is spread evenly, truncated to the cent, over
// participants without one, and the last of them takes whatever is left so the
// shares add up exactly. Repeated names accumulate.
func Allocate(tx domain.Transaction) map[string]float64 {
	out := map[string]float64{}
	if !tx.IsShared() {
		return out
	}

	total := money(math.Abs(tx.Amount))
	alloc := map[string]decimal.Decimal{}
	explicit := decimal.Zero
	var unspecified []string

	for _, split := range tx.SharedSplits {
		name := strings.TrimSpace(split.Name)
		if name == "" {
			continue
		}
		if split.Amount == nil || math.IsNaN(*split.Amount) || math.IsInf(*split.Amount, 0) {
			unspecified = append(unspecified, name)
			continue
		}
		share := money(math.Abs(*split.Amount))
		alloc[name] = alloc[name].Add(share)
		explicit = explicit.Add(share)
	}

	remaining := maxZero(total.Sub(explicit).Round(2))
	if n := len(unspecified); n > 0 {
		// Truncated even shares never exceed remaining, so the last one is never negative.
		base := remaining.Div(decimal.NewFromInt(int64(n))).RoundDown(2)
		distributed := decimal.Zero
		for i, name := range unspecified {
			share := base
			if i == n-1 {
				share = remaining.Sub(distributed)
			} else {
				distributed = distributed.Add(share)
			}
			alloc[name] = alloc[name].Add(share)
		}
	}

	for name, v := range alloc {
		out[name] = toFloat(v)
	}
	return out
}

// sharedSign is +1 when the participant owes the user and -1 when the user owes
// the participant. Money borrowed from someone flips the usual direction.
func sharedSign(tx domain.Transaction) decimal.Decimal {
	sign := decimal.NewFromInt(1)
	if tx.Type == domain.TransactionTypeIncome {
		sign = sign.Neg()
	}
	if tx.Device == domain.DeviceDebtBorrowed {
		sign = sign.Neg()
	}
	return sign
}

func findParticipant(alloc map[string]float64, key string) (string, bool) {
	for name := range alloc {
		if strings.ToLower(name) == key {
			return name, true
		}
	}
	return "", false
}

// SummarizeShared totals what each participant owes across shared income and
// expense transactions. Filters are case-insensitive; empty filters match all.
// Participants whose total is within half a cent of zero are left out of the
// totals, while every matching transaction stays in the details.
func SummarizeShared(txs []domain.Transaction, participant, category string) domain.SharedSummary {
	participantKey := strings.ToLower(strings.TrimSpace(participant))
	categoryKey := strings.ToLower(strings.TrimSpace(category))

	running := map[string]decimal.Decimal{}
	details := []domain.SharedDetail{}

	for _, tx := range txs {
		if !tx.Shared {
			continue
		}
		if tx.Type != domain.TransactionTypeExpense && tx.Type != domain.TransactionTypeIncome {
			continue
		}
		if categoryKey != "" && strings.ToLower(strings.TrimSpace(tx.Category)) != categoryKey {
			continue
		}

		alloc := Allocate(tx)
		if len(alloc) == 0 {
			continue
		}

		counted := alloc
		if participantKey != "" {
			name, ok := findParticipant(alloc, participantKey)
			if !ok {
				continue
			}
			counted = map[string]float64{name: alloc[name]}
		}

		details = append(details, domain.SharedDetail{Transaction: tx, Allocations: alloc})

		sign := sharedSign(tx)
		for name, amount := range counted {
			running[name] = running[name].Add(sign.Mul(dec(amount))).Round(2)
		}
	}

	totals := map[string]float64{}
	for name, v := range running {
		if v.Abs().GreaterThanOrEqual(decimal.NewFromFloat(settledThreshold)) {
			totals[name] = toFloat(v)
		}
	}
	return domain.SharedSummary{Totals: totals, Details: details}
}

// ParticipantDetail lists every shared transaction involving one participant,
// newest first, with the signed amount and the resulting net.
func ParticipantDetail(txs []domain.Transaction, participant string) domain.ParticipantReport {
	key := strings.ToLower(strings.TrimSpace(participant))
	report := domain.ParticipantReport{Participant: participant, Entries: []domain.ParticipantEntry{}}
	if key == "" {
		return report
	}

	net := decimal.Zero
	for _, d := range SummarizeShared(txs, key, "").Details {
		name, ok := findParticipant(d.Allocations, key)
		if !ok {
			continue
		}
		share := d.Allocations[name]
		signed := sharedSign(d.Transaction).Mul(dec(share))
		net = net.Add(signed)
		report.Entries = append(report.Entries, domain.ParticipantEntry{
			Transaction: d.Transaction,
			Share:       share,
			Signed:      toFloat(signed),
		})
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		a, b := report.Entries[i].Transaction, report.Entries[j].Transaction
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Timestamp.After(b.Timestamp)
	})
	report.Net = toFloat(net)
	return report
}
