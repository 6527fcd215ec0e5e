package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the persisted calendar date format.
const DateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	DateLayout,
}

// parseOrDefault runs parse over raw and falls back to def when it fails.
// The boolean result is false when the fallback was used.
func parseOrDefault[T any](raw string, parse func(string) (T, error), def T) (T, bool) {
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return def, false
	}
	return v, true
}

func parseAmount(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return NormalizeAmount(f), nil
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}

func parseTimestamp(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseBool accepts the spellings the row store has seen over time.
func parseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return def
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// ParseAmountOrZero parses a user or storage supplied amount, returning 0 on failure.
func ParseAmountOrZero(raw string) float64 {
	v, _ := parseOrDefault(raw, parseAmount, 0)
	return v
}

// FloatOrZero converts a loosely typed settings value into a float.
func FloatOrZero(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, ok := parseOrDefault(n, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }, 0)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Round2 rounds f to two decimal places, half away from zero.
func Round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

// NormalizeAmount returns the canonical magnitude of f.
func NormalizeAmount(f float64) float64 {
	return Round2(math.Abs(f))
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}
