package domain

import "time"

// TransactionType defines the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// SubType tags the structural role of a transaction.
type SubType string

const (
	SubTypeRegular           SubType = "regular"
	SubTypeCreditCardExpense SubType = "credit_card_expense"
	SubTypeCreditCardDebt    SubType = "credit_card_debt"
	SubTypeCreditCardPayment SubType = "credit_card_payment"
)

// Device is the payment instrument used for a transaction.
type Device string

const (
	DeviceUPI             Device = "UPI"
	DeviceCreditCard      Device = "CREDIT_CARD"
	DeviceCreditCardUPI   Device = "CREDIT_CARD_UPI"
	DeviceCash            Device = "CASH"
	DeviceDebit           Device = "DEBIT"
	DeviceBankTransfer    Device = "BANK_TRANSFER"
	DeviceOther           Device = "OTHER"
	DeviceSavingsWithdraw Device = "SAVINGS_WITHDRAW"
	DeviceDebtBorrowed    Device = "DEBT_BORROWED"
)

var allowedTypes = map[TransactionType]bool{
	TransactionTypeIncome:   true,
	TransactionTypeExpense:  true,
	TransactionTypeTransfer: true,
}

var allowedDevices = map[Device]bool{
	DeviceUPI:             true,
	DeviceCreditCard:      true,
	DeviceCreditCardUPI:   true,
	DeviceCash:            true,
	DeviceDebit:           true,
	DeviceBankTransfer:    true,
	DeviceOther:           true,
	DeviceSavingsWithdraw: true,
	DeviceDebtBorrowed:    true,
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool { return allowedTypes[t] }

// Valid reports whether d belongs to the closed device vocabulary.
func (d Device) Valid() bool { return allowedDevices[d] }

// IsCreditCard reports whether d is one of the credit-card devices.
func (d Device) IsCreditCard() bool {
	return d == DeviceCreditCard || d == DeviceCreditCardUPI
}

// Devices returns the allowed device vocabulary in a stable order.
func Devices() []Device {
	return []Device{
		DeviceUPI, DeviceCreditCard, DeviceCreditCardUPI, DeviceCash, DeviceDebit,
		DeviceBankTransfer, DeviceOther, DeviceSavingsWithdraw, DeviceDebtBorrowed,
	}
}

// SharedSplit is one participant's share of a shared transaction.
// A nil Amount means the participant takes an even part of the remainder.
type SharedSplit struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount"`
}

// Transaction is the canonical record of a financial event.
type Transaction struct {
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	Type           TransactionType `json:"tx_type"`
	SubType        SubType         `json:"sub_type"`
	Amount         float64         `json:"amount"` // always a magnitude
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Device         Device          `json:"device"`
	Location       string          `json:"location"`
	Occasion       string          `json:"occasion"`
	EffectsBalance bool            `json:"effects_balance"`
	LinkedTxID     string          `json:"linked_tx_id"`
	Shared         bool            `json:"shared_flag"`
	SharedSplits   []SharedSplit   `json:"shared_splits"`
	SharedNotes    string          `json:"shared_notes"`
}

// IsShared reports whether the transaction carries a usable split list.
func (t Transaction) IsShared() bool {
	return t.Shared && len(t.SharedSplits) > 0
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
