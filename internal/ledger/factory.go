package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"money-tracker/internal/domain"
)

// Default labels used by the synthetic halves of compound operations.
const (
	CategoryDebt              = "Debt"
	CategoryCreditCardPayment = "Credit Card Payment"
	DescriptionDebtCleared    = "Debt cleared"
	debtDescriptionPrefix     = "Debt for: "
	clearedDescriptionPrefix  = "DEBT CLEARED - "
)

// Entry is the user-supplied part of a new transaction.
type Entry struct {
	Amount      float64
	Date        time.Time
	Description string
	Category    string
	Device      string
	Location    string
	Occasion    string
	Shared      bool
	Splits      []domain.SharedSplit
	SharedNotes string
}

// Factory builds transactions. It never touches storage.
type Factory struct {
	newID func() string
	now   func() time.Time
}

// NewFactory returns a Factory using random ids and the wall clock.
func NewFactory() *Factory {
	return NewFactoryWith(uuid.NewString, time.Now)
}

// NewFactoryWith returns a Factory with injected id and clock sources.
func NewFactoryWith(newID func() string, now func() time.Time) *Factory {
	return &Factory{newID: newID, now: now}
}

// NormalizeDevice uppercases raw and coerces anything unknown to OTHER.
func NormalizeDevice(raw string) domain.Device {
	d := domain.Device(strings.ToUpper(strings.TrimSpace(raw)))
	if !d.Valid() {
		return domain.DeviceOther
	}
	return d
}

func normalizeSplits(splits []domain.SharedSplit) []domain.SharedSplit {
	var out []domain.SharedSplit
	for _, s := range splits {
		n := domain.NewSplit(s.Name, s.Amount)
		if n.Name == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (f *Factory) build(e Entry, txType domain.TransactionType, subType domain.SubType, effectsBalance bool) domain.Transaction {
	tx := domain.Transaction{
		ID:             f.newID(),
		Timestamp:      f.now().UTC(),
		Type:           txType,
		SubType:        subType,
		Amount:         domain.NormalizeAmount(e.Amount),
		Date:           domain.DateOnly(e.Date),
		Description:    e.Description,
		Category:       e.Category,
		Device:         NormalizeDevice(e.Device),
		Location:       e.Location,
		Occasion:       e.Occasion,
		EffectsBalance: effectsBalance,
	}
	if e.Shared {
		if splits := normalizeSplits(e.Splits); len(splits) > 0 {
			tx.Shared = true
			tx.SharedSplits = splits
			tx.SharedNotes = e.SharedNotes
		}
	}
	return tx
}

// Expense builds a regular expense.
func (f *Factory) Expense(e Entry) domain.Transaction {
	return f.build(e, domain.TransactionTypeExpense, domain.SubTypeRegular, true)
}

// Income builds a regular income, shared refunds included.
func (f *Factory) Income(e Entry) domain.Transaction {
	return f.build(e, domain.TransactionTypeIncome, domain.SubTypeRegular, true)
}

// CreditCardExpense builds the linked pair for a card purchase: the purchase
// itself and the debt it creates. Neither half touches the balance.
func (f *Factory) CreditCardExpense(e Entry) (expense, debt domain.Transaction) {
	device := NormalizeDevice(e.Device)
	if !device.IsCreditCard() {
		device = domain.DeviceCreditCard
	}
	e.Device = string(device)

	expense = f.build(e, domain.TransactionTypeExpense, domain.SubTypeCreditCardExpense, false)
	debt = f.build(Entry{
		Amount:      e.Amount,
		Date:        e.Date,
		Description: debtDescriptionPrefix + e.Description,
		Category:    CategoryDebt,
		Device:      e.Device,
		Location:    e.Location,
		Occasion:    e.Occasion,
	}, domain.TransactionTypeIncome, domain.SubTypeCreditCardDebt, false)

	return f.link(expense, debt)
}

// CreditCardPayment builds the expense that pays a card bill from the bank balance.
func (f *Factory) CreditCardPayment(e Entry) domain.Transaction {
	e.Shared = false
	return f.build(e, domain.TransactionTypeExpense, domain.SubTypeCreditCardPayment, true)
}

// DebtClearance builds an expense that retires card debt without moving money.
// Empty description and device fall back to "Debt cleared" and BANK_TRANSFER.
func (f *Factory) DebtClearance(amount float64, date time.Time, description, device string) domain.Transaction {
	if strings.TrimSpace(description) == "" {
		description = DescriptionDebtCleared
	}
	if strings.TrimSpace(device) == "" {
		device = string(domain.DeviceBankTransfer)
	}
	return f.build(Entry{
		Amount:      amount,
		Date:        date,
		Description: description,
		Category:    CategoryDebt,
		Device:      device,
	}, domain.TransactionTypeExpense, domain.SubTypeCreditCardDebt, false)
}

// Settlement builds the linked payment and clearance for paying off a billing cycle.
func (f *Factory) Settlement(amount float64, date time.Time, description string) (payment, clearance domain.Transaction) {
	payment = f.CreditCardPayment(Entry{
		Amount:      amount,
		Date:        date,
		Description: description,
		Category:    CategoryCreditCardPayment,
		Device:      string(domain.DeviceBankTransfer),
	})
	clearance = f.DebtClearance(amount, date, clearedDescriptionPrefix+description, string(domain.DeviceBankTransfer))
	return f.link(payment, clearance)
}

// link gives both halves one correlation id, reusing an existing one if present.
func (f *Factory) link(a, b domain.Transaction) (domain.Transaction, domain.Transaction) {
	id := a.LinkedTxID
	if id == "" {
		id = b.LinkedTxID
	}
	if id == "" {
		id = f.newID()
	}
	a.LinkedTxID = id
	b.LinkedTxID = id
	return a, b
}
