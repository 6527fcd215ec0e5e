package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Row is one flat record as persisted by the row store.
type Row map[string]string

// Columns is the row schema in the order the CSV store writes it.
var Columns = []string{
	"id",
	"timestamp",
	"tx_type",
	"sub_type",
	"amount",
	"date",
	"description",
	"category",
	"device",
	"location",
	"occasion",
	"effects_balance",
	"linked_tx_id",
	"shared_flag",
	"shared_splits",
	"shared_notes",
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// RowID returns the id of a stored row. Rows saved without one get an id
// derived from their content, so the same row has the same id on every read.
func RowID(row Row) string {
	if id := strings.TrimSpace(row["id"]); id != "" {
		return id
	}
	keys := make([]string, 0, len(row))
	for k := range row {
		if k != "id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(0)
		b.WriteString(row[k])
		b.WriteByte(0)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.String())).String()
}

// ToRow serializes a transaction into the persisted row schema.
func ToRow(tx Transaction) Row {
	return Row{
		"id":              tx.ID,
		"timestamp":       tx.Timestamp.UTC().Format(time.RFC3339Nano),
		"tx_type":         string(tx.Type),
		"sub_type":        string(tx.SubType),
		"amount":          FormatAmount(tx.Amount),
		"date":            tx.Date.Format(DateLayout),
		"description":     tx.Description,
		"category":        tx.Category,
		"device":          string(tx.Device),
		"location":        tx.Location,
		"occasion":        tx.Occasion,
		"effects_balance": formatBool(tx.EffectsBalance),
		"linked_tx_id":    tx.LinkedTxID,
		"shared_flag":     formatBool(tx.IsShared()),
		"shared_splits":   EncodeSplits(tx.SharedSplits),
		"shared_notes":    tx.SharedNotes,
	}
}

// FromRow decodes a row, substituting defaults for anything missing or malformed.
func FromRow(row Row) Transaction {
	tx, _ := DecodeRow(row, time.Now().UTC())
	return tx
}

// DecodeRow is FromRow with an explicit clock. It also reports which fields
// had to be defaulted so callers can log degraded rows.
func DecodeRow(row Row, now time.Time) (Transaction, []string) {
	var degraded []string
	get := func(key, def string) string {
		v, ok := row[key]
		if !ok {
			return def
		}
		return v
	}

	id := RowID(row)
	if strings.TrimSpace(row["id"]) == "" {
		degraded = append(degraded, "id")
	}

	timestamp, ok := parseOrDefault(get("timestamp", ""), parseTimestamp, now)
	if !ok {
		degraded = append(degraded, "timestamp")
	}

	date, ok := parseOrDefault(get("date", ""), parseDate, DateOnly(now))
	if !ok {
		degraded = append(degraded, "date")
	}

	amount, ok := parseOrDefault(get("amount", "0"), parseAmount, 0)
	if !ok {
		degraded = append(degraded, "amount")
	}

	splits, ok := DecodeSplits(get("shared_splits", ""))
	if !ok {
		degraded = append(degraded, "shared_splits")
	}

	txType := TransactionType(strings.ToLower(strings.TrimSpace(get("tx_type", ""))))
	if txType == "" {
		txType = TransactionTypeExpense
	}
	subType := SubType(strings.TrimSpace(get("sub_type", "")))
	if subType == "" {
		subType = SubTypeRegular
	}
	device := Device(strings.TrimSpace(get("device", string(DeviceOther))))

	shared := parseBool(get("shared_flag", ""), false) && len(splits) > 0

	return Transaction{
		ID:             id,
		Timestamp:      timestamp,
		Type:           txType,
		SubType:        subType,
		Amount:         amount,
		Date:           date,
		Description:    get("description", ""),
		Category:       get("category", ""),
		Device:         device,
		Location:       get("location", ""),
		Occasion:       get("occasion", ""),
		EffectsBalance: parseBool(get("effects_balance", ""), true),
		LinkedTxID:     get("linked_tx_id", ""),
		Shared:         shared,
		SharedSplits:   splits,
		SharedNotes:    get("shared_notes", ""),
	}, degraded
}
