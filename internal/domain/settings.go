package domain

import (
	"strings"
	"time"
)

// Settings keys recognized in the persisted settings mapping.
const (
	KeyInitialBalance            = "initial_balance"
	KeyInitialCashBalance        = "initial_cash_balance"
	KeyInitialSavingsBalance     = "initial_savings_balance"
	KeyInitialSavingsFDBalance   = "initial_savings_fd_balance"
	KeyInitialSavingsRDBalance   = "initial_savings_rd_balance"
	KeyInitialSavingsGoldBalance = "initial_savings_gold_balance"
	KeyCategoryBudgets           = "category_budgets"
	KeyLastDebtCleared           = "last_debt_cleared"

	legacyKeyInitialBalance = "initial balance"
)

// Settings holds the user-configured values consumed by the aggregation engine.
type Settings struct {
	InitialBalance     float64            `json:"initial_balance"`
	InitialCashBalance float64            `json:"initial_cash_balance"`
	InitialSavings     float64            `json:"initial_savings_balance"`
	InitialSavingsFD   float64            `json:"initial_savings_fd_balance"`
	InitialSavingsRD   float64            `json:"initial_savings_rd_balance"`
	InitialSavingsGold float64            `json:"initial_savings_gold_balance"`
	CategoryBudgets    map[string]float64 `json:"category_budgets"`
	LastDebtCleared    string             `json:"last_debt_cleared,omitempty"`

	// Extra keeps keys this package does not interpret (currency, version, ...)
	// so a read-modify-write cycle does not drop them.
	Extra map[string]any `json:"-"`
}

// DefaultSettings returns the settings of a fresh ledger.
func DefaultSettings() Settings {
	return Settings{
		CategoryBudgets: map[string]float64{},
		Extra:           map[string]any{"currency": "INR", "version": "3"},
	}
}

// SettingsFromMap leniently decodes a settings mapping. Values that cannot be
// interpreted fall back to zero and are reported by key.
func SettingsFromMap(m map[string]any) (Settings, []string) {
	s := Settings{CategoryBudgets: map[string]float64{}, Extra: map[string]any{}}
	var degraded []string

	num := func(key string) float64 {
		v, ok := m[key]
		if !ok || v == nil {
			return 0
		}
		f := FloatOrZero(v)
		if f == 0 && !isZeroLike(v) {
			degraded = append(degraded, key)
		}
		return f
	}

	if _, ok := m[KeyInitialBalance]; ok {
		s.InitialBalance = num(KeyInitialBalance)
	} else {
		s.InitialBalance = num(legacyKeyInitialBalance)
	}
	s.InitialCashBalance = num(KeyInitialCashBalance)
	s.InitialSavings = num(KeyInitialSavingsBalance)
	s.InitialSavingsFD = num(KeyInitialSavingsFDBalance)
	s.InitialSavingsRD = num(KeyInitialSavingsRDBalance)
	s.InitialSavingsGold = num(KeyInitialSavingsGoldBalance)

	switch budgets := m[KeyCategoryBudgets].(type) {
	case map[string]any:
		for name, v := range budgets {
			f := FloatOrZero(v)
			if f == 0 && !isZeroLike(v) {
				degraded = append(degraded, KeyCategoryBudgets+"."+name)
				continue
			}
			s.CategoryBudgets[name] = f
		}
	case nil:
	default:
		degraded = append(degraded, KeyCategoryBudgets)
	}

	if v, ok := m[KeyLastDebtCleared].(string); ok {
		s.LastDebtCleared = strings.TrimSpace(v)
	}

	for k, v := range m {
		if !isKnownKey(k) {
			s.Extra[k] = v
		}
	}
	return s, degraded
}

// ToMap encodes s back into a settings mapping, extra keys included.
func (s Settings) ToMap() map[string]any {
	m := make(map[string]any, len(s.Extra)+8)
	for k, v := range s.Extra {
		m[k] = v
	}
	budgets := make(map[string]any, len(s.CategoryBudgets))
	for k, v := range s.CategoryBudgets {
		budgets[k] = v
	}
	m[KeyInitialBalance] = s.InitialBalance
	m[KeyInitialCashBalance] = s.InitialCashBalance
	m[KeyInitialSavingsBalance] = s.InitialSavings
	m[KeyInitialSavingsFDBalance] = s.InitialSavingsFD
	m[KeyInitialSavingsRDBalance] = s.InitialSavingsRD
	m[KeyInitialSavingsGoldBalance] = s.InitialSavingsGold
	m[KeyCategoryBudgets] = budgets
	if s.LastDebtCleared != "" {
		m[KeyLastDebtCleared] = s.LastDebtCleared
	}
	return m
}

// LastDebtClearedDate parses the last-cleared marker.
func (s Settings) LastDebtClearedDate() (time.Time, bool) {
	if s.LastDebtCleared == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s.LastDebtCleared)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isKnownKey(k string) bool {
	switch k {
	case KeyInitialBalance, KeyInitialCashBalance, KeyInitialSavingsBalance,
		KeyInitialSavingsFDBalance, KeyInitialSavingsRDBalance, KeyInitialSavingsGoldBalance,
		KeyCategoryBudgets, KeyLastDebtCleared, legacyKeyInitialBalance:
		return true
	}
	return false
}

func isZeroLike(v any) bool {
	switch n := v.(type) {
	case float64:
		return n == 0
	case int:
		return n == 0
	case string:
		s := strings.TrimSpace(n)
		return s == "" || s == "0" || s == "0.0" || s == "0.00"
	}
	return false
}
