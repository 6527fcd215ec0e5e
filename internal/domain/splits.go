package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NewSplit builds a split with a normalized participant name.
func NewSplit(name string, amount *float64) SharedSplit {
	s := SharedSplit{Name: strings.ToLower(strings.TrimSpace(name))}
	if amount != nil {
		a := NormalizeAmount(*amount)
		s.Amount = &a
	}
	return s
}

// Amount returns a pointer to v, for building explicit splits.
func Amount(v float64) *float64 { return &v }

// EncodeSplits serializes splits as the JSON payload carried in a row.
func EncodeSplits(splits []SharedSplit) string {
	if len(splits) == 0 {
		return ""
	}
	payload, err := json.Marshal(splits)
	if err != nil {
		return ""
	}
	return string(payload)
}

// DecodeSplits parses the row payload. Anything unparsable yields no splits and ok=false.
func DecodeSplits(raw string) (splits []SharedSplit, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	for _, item := range items {
		obj, isObj := item.(map[string]any)
		if !isObj {
			continue
		}
		name := strings.TrimSpace(stringify(obj["name"]))
		if name == "" {
			continue
		}
		splits = append(splits, SharedSplit{Name: name, Amount: splitAmount(obj["amount"])})
	}
	return splits, true
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func splitAmount(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		if strings.TrimSpace(n) == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// ParseSplitList reads the "name:amount, name" notation typed by a user.
// Names are lowercased and an unparsable amount leaves the share unspecified.
func ParseSplitList(raw string) []SharedSplit {
	var splits []SharedSplit
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, amountRaw, hasAmount := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var amount *float64
		if hasAmount {
			if f, err := strconv.ParseFloat(strings.TrimSpace(amountRaw), 64); err == nil {
				amount = &f
			}
		}
		splits = append(splits, NewSplit(name, amount))
	}
	return splits
}
