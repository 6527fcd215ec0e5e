package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"money-tracker/internal/domain"
	"money-tracker/internal/ledger"
	"money-tracker/internal/logger"
)

// LedgerUseCase orchestrates the engine against storage for one session at a time.
type LedgerUseCase struct {
	txRepo        TransactionRepository
	settingsRepo  SettingsRepository
	factory       *ledger.Factory
	cycleStartDay int
	now           func() time.Time
}

// NewLedgerUseCase creates a new instance of the usecase.
func NewLedgerUseCase(txRepo TransactionRepository, settingsRepo SettingsRepository, factory *ledger.Factory, cycleStartDay int) *LedgerUseCase {
	if factory == nil {
		factory = ledger.NewFactory()
	}
	return &LedgerUseCase{
		txRepo:        txRepo,
		settingsRepo:  settingsRepo,
		factory:       factory,
		cycleStartDay: cycleStartDay,
		now:           time.Now,
	}
}

// Transactions reads and decodes the whole log. Malformed rows are kept with
// defaults and logged.
func (uc *LedgerUseCase) Transactions(ctx context.Context, s domain.Session) ([]domain.Transaction, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	rows, err := uc.txRepo.ReadAll(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("could not read transactions: %w", err)
	}

	log := logger.FromContext(ctx)
	now := uc.now().UTC()
	txs := make([]domain.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, degraded := domain.DecodeRow(row, now)
		if len(degraded) > 0 {
			log.Warn().Int("row", i+1).Str("id", tx.ID).Strs("fields", degraded).Msg("degraded transaction row")
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Settings reads the settings mapping, falling back to defaults when absent.
func (uc *LedgerUseCase) Settings(ctx context.Context, s domain.Session) (domain.Settings, error) {
	if err := s.Validate(); err != nil {
		return domain.Settings{}, err
	}
	m, err := uc.settingsRepo.ReadSettings(ctx, s)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("could not read settings: %w", err)
	}
	if m == nil {
		return domain.DefaultSettings(), nil
	}
	settings, degraded := domain.SettingsFromMap(m)
	if len(degraded) > 0 {
		log := logger.FromContext(ctx)
		log.Warn().Strs("keys", degraded).Msg("degraded settings values")
	}
	return settings, nil
}

func (uc *LedgerUseCase) saveSettings(ctx context.Context, s domain.Session, settings domain.Settings) error {
	if err := uc.settingsRepo.WriteSettings(ctx, s, settings.ToMap()); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to write settings")
		return fmt.Errorf("could not write settings: %w", err)
	}
	return nil
}

// Commit validates every staged transaction and persists them together.
// Nothing is written when any of them is invalid.
func (uc *LedgerUseCase) Commit(ctx context.Context, s domain.Session, txs ...domain.Transaction) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if len(txs) == 0 {
		return nil
	}

	var problems []string
	rows := make([]domain.Row, 0, len(txs))
	for _, tx := range txs {
		if ok, errs := domain.Validate(tx); !ok {
			for _, e := range errs {
				problems = append(problems, fmt.Sprintf("%s: %s", tx.ID, e))
			}
			continue
		}
		rows = append(rows, domain.ToRow(tx))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	log := logger.FromContext(ctx)
	if err := uc.txRepo.AppendAll(ctx, s, rows); err != nil {
		log.Error().Err(err).Int("count", len(rows)).Msg("failed to append transactions")
		return fmt.Errorf("could not append transactions: %w", err)
	}
	log.Info().Int("count", len(rows)).Msg("transactions committed")
	return nil
}

// routesToCreditCard reports whether an expense entry is a card purchase.
// The returned device is the card device the pair should use.
func routesToCreditCard(e ledger.Entry) (domain.Device, bool) {
	device := ledger.NormalizeDevice(e.Device)
	if device.IsCreditCard() {
		return device, true
	}
	d := strings.ToLower(e.Description)
	if !strings.Contains(d, "credit card") && !strings.Contains(d, "creditcard") {
		return "", false
	}
	if strings.Contains(d, "upi") {
		return domain.DeviceCreditCardUPI, true
	}
	return domain.DeviceCreditCard, true
}

// RecordExpense records a purchase. Card purchases become the linked
// expense and debt pair.
func (uc *LedgerUseCase) RecordExpense(ctx context.Context, s domain.Session, e ledger.Entry) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if device, ok := routesToCreditCard(e); ok {
		e.Device = string(device)
		expense, debt := uc.factory.CreditCardExpense(e)
		txs = []domain.Transaction{expense, debt}
	} else {
		txs = []domain.Transaction{uc.factory.Expense(e)}
	}
	if err := uc.Commit(ctx, s, txs...); err != nil {
		return nil, err
	}
	return txs, nil
}

// RecordIncome records an income, shared refunds included.
func (uc *LedgerUseCase) RecordIncome(ctx context.Context, s domain.Session, e ledger.Entry) (domain.Transaction, error) {
	tx := uc.factory.Income(e)
	if err := uc.Commit(ctx, s, tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// PayCreditCardBill records a bill payment from the bank together with the
// linked clearance of the card debt it retires.
func (uc *LedgerUseCase) PayCreditCardBill(ctx context.Context, s domain.Session, amount float64, date time.Time, description string) ([]domain.Transaction, error) {
	if strings.TrimSpace(description) == "" {
		description = "Credit card bill"
	}
	payment, clearance := uc.factory.Settlement(amount, date, description)
	if err := uc.Commit(ctx, s, payment, clearance); err != nil {
		return nil, err
	}
	return []domain.Transaction{payment, clearance}, nil
}

// ClearDebt records a standalone debt clearance.
func (uc *LedgerUseCase) ClearDebt(ctx context.Context, s domain.Session, amount float64, date time.Time, description, device string) (domain.Transaction, error) {
	tx := uc.factory.DebtClearance(amount, date, description, device)
	if err := uc.Commit(ctx, s, tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// SettlePreviousCycle pays off what the billing cycle before today's added to
// card debt, capped by the total outstanding, and records the cleared marker.
// Nothing is written to the log when there is nothing to pay.
func (uc *LedgerUseCase) SettlePreviousCycle(ctx context.Context, s domain.Session, today time.Time) ([]domain.Transaction, error) {
	txs, err := uc.Transactions(ctx, s)
	if err != nil {
		return nil, err
	}
	settings, err := uc.Settings(ctx, s)
	if err != nil {
		return nil, err
	}

	analysis := ledger.AnalyzeDebt(txs, uc.cycleStartDay)
	prev := ledger.CycleFor(today, uc.cycleStartDay).Previous()
	amount := analysis.CycleNet(prev)
	if analysis.CreditCard < amount {
		amount = analysis.CreditCard
	}

	var committed []domain.Transaction
	if amount > 0 {
		description := fmt.Sprintf("CREDIT CARD PAYMENT - %s to %s",
			prev.Start.Format(domain.DateLayout), prev.End.Format(domain.DateLayout))
		payment, clearance := uc.factory.Settlement(amount, today, description)
		if err := uc.Commit(ctx, s, payment, clearance); err != nil {
			return nil, err
		}
		committed = []domain.Transaction{payment, clearance}
	}

	settings.LastDebtCleared = domain.DateOnly(today).Format(domain.DateLayout)
	if err := uc.saveSettings(ctx, s, settings); err != nil {
		return committed, err
	}
	log := logger.FromContext(ctx)
	log.Info().
		Str("cycle", prev.String()).
		Float64("amount", amount).
		Msg("billing cycle settled")
	return committed, nil
}

// AutoSettle runs SettlePreviousCycle on the cycle start day, at most once a month.
func (uc *LedgerUseCase) AutoSettle(ctx context.Context, s domain.Session, today time.Time) (bool, []domain.Transaction, error) {
	if today.Day() != ledger.CycleFor(today, uc.cycleStartDay).Start.Day() {
		return false, nil, nil
	}
	settings, err := uc.Settings(ctx, s)
	if err != nil {
		return false, nil, err
	}
	if last, ok := settings.LastDebtClearedDate(); ok && last.Year() == today.Year() && last.Month() == today.Month() {
		return false, nil, nil
	}
	txs, err := uc.SettlePreviousCycle(ctx, s, today)
	if err != nil {
		return false, nil, err
	}
	return true, txs, nil
}

func indexOfRow(rows []domain.Row, id string) int {
	for i, row := range rows {
		if domain.RowID(row) == id {
			return i
		}
	}
	return -1
}

// Edit overwrites the stored transaction that has the same id. Amount and date
// are carried over to the other half of a linked pair.
func (uc *LedgerUseCase) Edit(ctx context.Context, s domain.Session, tx domain.Transaction) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if ok, problems := domain.Validate(tx); !ok {
		return &ValidationError{Problems: problems}
	}

	rows, err := uc.txRepo.ReadAll(ctx, s)
	if err != nil {
		return fmt.Errorf("could not read transactions: %w", err)
	}
	idx := indexOfRow(rows, tx.ID)
	if idx < 0 {
		return fmt.Errorf("edit %s: %w", tx.ID, ErrTransactionNotFound)
	}
	rows[idx] = domain.ToRow(tx)

	// The halves of a compound pair always carry the same amount and date.
	if linked := strings.TrimSpace(tx.LinkedTxID); linked != "" {
		now := uc.now().UTC()
		for i, row := range rows {
			if i == idx || strings.TrimSpace(row["linked_tx_id"]) != linked {
				continue
			}
			partner, _ := domain.DecodeRow(row, now)
			partner.Amount = tx.Amount
			partner.Date = tx.Date
			rows[i] = domain.ToRow(partner)
		}
	}

	if err := uc.txRepo.WriteAll(ctx, s, rows); err != nil {
		return fmt.Errorf("could not write transactions: %w", err)
	}
	return nil
}

// Delete removes the transaction with id along with any transaction linked to
// it, and returns how many rows were removed.
func (uc *LedgerUseCase) Delete(ctx context.Context, s domain.Session, id string) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	rows, err := uc.txRepo.ReadAll(ctx, s)
	if err != nil {
		return 0, fmt.Errorf("could not read transactions: %w", err)
	}

	idx := indexOfRow(rows, id)
	if idx < 0 {
		return 0, fmt.Errorf("delete %s: %w", id, ErrTransactionNotFound)
	}
	linked := strings.TrimSpace(rows[idx]["linked_tx_id"])

	kept := make([]domain.Row, 0, len(rows))
	for i, row := range rows {
		if i == idx || (linked != "" && strings.TrimSpace(row["linked_tx_id"]) == linked) {
			continue
		}
		kept = append(kept, row)
	}

	if err := uc.txRepo.WriteAll(ctx, s, kept); err != nil {
		return 0, fmt.Errorf("could not write transactions: %w", err)
	}
	return len(rows) - len(kept), nil
}

// Dashboard computes the overview figures as of today.
func (uc *LedgerUseCase) Dashboard(ctx context.Context, s domain.Session, today time.Time) (domain.Dashboard, error) {
	txs, err := uc.Transactions(ctx, s)
	if err != nil {
		return domain.Dashboard{}, err
	}
	settings, err := uc.Settings(ctx, s)
	if err != nil {
		return domain.Dashboard{}, err
	}

	d := ledger.BuildDashboard(txs, settings, today, uc.cycleStartDay)
	if last, ok := settings.LastDebtClearedDate(); ok {
		d.Settled = ledger.CycleFor(today, uc.cycleStartDay).Contains(last)
	}
	return d, nil
}

// List returns the transactions matching filter.
func (uc *LedgerUseCase) List(ctx context.Context, s domain.Session, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	txs, err := uc.Transactions(ctx, s)
	if err != nil {
		return nil, err
	}
	return ledger.FilterTransactions(txs, filter), nil
}

// CategoryReport totals one month by category against the stored budgets.
func (uc *LedgerUseCase) CategoryReport(ctx context.Context, s domain.Session, year, month int, txType domain.TransactionType) (domain.CategoryReport, error) {
	txs, err := uc.Transactions(ctx, s)
	if err != nil {
		return domain.CategoryReport{}, err
	}
	settings, err := uc.Settings(ctx, s)
	if err != nil {
		return domain.CategoryReport{}, err
	}
	return ledger.CategoryReport(txs, settings.CategoryBudgets, year, month, txType), nil
}

// SharedSummary returns the net shared position per participant.
func (uc *LedgerUseCase) SharedSummary(ctx context.Context, s domain.Session, participant, category string) (domain.SharedSummary, error) {
	txs, err := uc.Transactions(ctx, s)
	if err != nil {
		return domain.SharedSummary{}, err
	}
	return ledger.SummarizeShared(txs, participant, category), nil
}

// ParticipantDetail lists every shared transaction involving participant.
func (uc *LedgerUseCase) ParticipantDetail(ctx context.Context, s domain.Session, participant string) (domain.ParticipantReport, error) {
	txs, err := uc.Transactions(ctx, s)
	if err != nil {
		return domain.ParticipantReport{}, err
	}
	return ledger.ParticipantDetail(txs, participant), nil
}

// SetBudget sets the monthly budget of category. A non-positive amount removes it.
func (uc *LedgerUseCase) SetBudget(ctx context.Context, s domain.Session, category string, amount float64) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return &ValidationError{Problems: []string{"Category must not be empty"}}
	}
	settings, err := uc.Settings(ctx, s)
	if err != nil {
		return err
	}
	if settings.CategoryBudgets == nil {
		settings.CategoryBudgets = map[string]float64{}
	}
	if amount <= 0 {
		delete(settings.CategoryBudgets, category)
	} else {
		settings.CategoryBudgets[category] = domain.Round2(amount)
	}
	return uc.saveSettings(ctx, s, settings)
}

// SetInitialBalances sets the opening bank and cash balances.
func (uc *LedgerUseCase) SetInitialBalances(ctx context.Context, s domain.Session, bank, cash float64) error {
	settings, err := uc.Settings(ctx, s)
	if err != nil {
		return err
	}
	settings.InitialBalance = domain.Round2(bank)
	settings.InitialCashBalance = domain.Round2(cash)
	return uc.saveSettings(ctx, s, settings)
}

// SetInitialSavings sets the opening balance of each savings bucket.
func (uc *LedgerUseCase) SetInitialSavings(ctx context.Context, s domain.Session, plain, fd, rd, gold float64) error {
	settings, err := uc.Settings(ctx, s)
	if err != nil {
		return err
	}
	settings.InitialSavings = domain.Round2(plain)
	settings.InitialSavingsFD = domain.Round2(fd)
	settings.InitialSavingsRD = domain.Round2(rd)
	settings.InitialSavingsGold = domain.Round2(gold)
	return uc.saveSettings(ctx, s, settings)
}

// StartNewMonth archives the live table under the previous month's label
// (e.g. "February_2025") and returns the label.
func (uc *LedgerUseCase) StartNewMonth(ctx context.Context, s domain.Session, today time.Time) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	label := firstOfMonth.AddDate(0, 0, -1).Format("January_2006")

	if err := uc.txRepo.Archive(ctx, s, label); err != nil {
		return "", fmt.Errorf("could not archive transactions: %w", err)
	}
	log := logger.FromContext(ctx)
	log.Info().Str("archive", label).Msg("started new month")
	return label, nil
}
