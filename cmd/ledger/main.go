package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"money-tracker/internal/config"
	"money-tracker/internal/domain"
	"money-tracker/internal/gateway"
	"money-tracker/internal/ledger"
	"money-tracker/internal/logger"
	"money-tracker/internal/usecase"
)

type store interface {
	usecase.TransactionRepository
	usecase.SettingsRepository
}

type app struct {
	log        zerolog.Logger
	ctx        context.Context
	registry   *gateway.UserRegistry
	uc         *usecase.LedgerUseCase
	user       string
	autoSettle bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command line and returns the exit code. Deferred cleanup
// happens before the process exits.
func run(argv []string) int {
	flags := flag.NewFlagSet("ledger", flag.ContinueOnError)
	configPath := flags.String("config", "ledger.ini", "Path to the configuration file")
	dataDir := flags.String("data", "", "Data directory (overrides [storage] dir)")
	backend := flags.String("backend", "", "Storage backend: csv or redis (overrides [storage] backend)")
	user := flags.String("user", "", "User to act as (overrides [ledger] default-user)")
	logLevel := flags.String("log-level", "", "Log level (overrides [log] level)")
	noAutoSettle := flags.Bool("no-auto-settle", false, "Skip the billing-cycle settlement check")
	flags.Usage = printUsage
	if err := flags.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Read(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *dataDir != "" {
		cfg.Storage.Dir = *dataDir
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *user != "" {
		cfg.Ledger.DefaultUser = *user
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log := logger.NewWithOptions(os.Stderr, cfg.Log.Level, cfg.Log.Console)

	args := flags.Args()
	if len(args) < 1 {
		printUsage()
		return 1
	}

	s, closeStore := newStore(cfg)
	defer closeStore()

	a := &app{
		log:        log,
		ctx:        logger.WithContext(context.Background(), log),
		registry:   gateway.NewUserRegistry(cfg.Storage.Dir),
		uc:         usecase.NewLedgerUseCase(s, s, ledger.NewFactory(), cfg.Ledger.BillingCycleStartDay),
		user:       cfg.Ledger.DefaultUser,
		autoSettle: !*noAutoSettle,
	}

	commands := map[string]func([]string) error{
		"users":       a.runUsers,
		"add-expense": a.runAddExpense,
		"add-income":  a.runAddIncome,
		"pay-card":    a.runPayCard,
		"clear-debt":  a.runClearDebt,
		"settle":      a.runSettle,
		"dashboard":   a.runDashboard,
		"list":        a.runList,
		"categories":  a.runCategories,
		"budget":      a.runBudget,
		"shared":      a.runShared,
		"participant": a.runParticipant,
		"settings":    a.runSettings,
		"edit":        a.runEdit,
		"delete":      a.runDelete,
		"new-month":   a.runNewMonth,
	}

	switch args[0] {
	case "help", "-h", "--help":
		printUsage()
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		return 1
	}
	if err := cmd(args[1:]); err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				fmt.Fprintf(os.Stderr, "Error: %s\n", p)
			}
			return 2
		}
		log.Error().Err(err).Str("command", args[0]).Msg("command failed")
		return 1
	}
	return 0
}

func newStore(cfg config.Config) (store, func()) {
	if strings.EqualFold(cfg.Storage.Backend, config.BackendRedis) {
		r := gateway.NewRedisStore(gateway.RedisOptions{
			Server: cfg.Redis.Server,
			DB:     cfg.Redis.DB,
			Pass:   cfg.Redis.Pass,
		})
		return r, func() { r.Close() }
	}
	return gateway.NewCSVStore(), func() {}
}

func printUsage() {
	fmt.Println("Money Tracker ledger")
	fmt.Println("\nUsage:")
	fmt.Println("  ledger [global options] <command> [options]")
	fmt.Println("\nGlobal options:")
	fmt.Println("  -config PATH  -data DIR  -backend csv|redis  -user NAME  -log-level LEVEL  -no-auto-settle")
	fmt.Println("\nCommands:")
	fmt.Println("  users         List users, or 'users add NAME'")
	fmt.Println("  add-expense   Record an expense (card purchases become a linked pair)")
	fmt.Println("  add-income    Record an income")
	fmt.Println("  pay-card      Pay a credit card bill")
	fmt.Println("  clear-debt    Record a debt clearance")
	fmt.Println("  settle        Settle the previous billing cycle")
	fmt.Println("  dashboard     Show balances, debt, savings and net worth")
	fmt.Println("  list          List transactions")
	fmt.Println("  categories    Category totals against budgets for a month")
	fmt.Println("  budget        Set or remove a category budget")
	fmt.Println("  shared        Shared expense balances per participant")
	fmt.Println("  participant   Shared transactions of one participant")
	fmt.Println("  settings      Show or change opening balances")
	fmt.Println("  edit          Edit a transaction by id")
	fmt.Println("  delete        Delete a transaction and its linked half")
	fmt.Println("  new-month     Archive this month's table and start a new one")
	fmt.Println("\nRun 'ledger <command> -h' for more information on a command.")
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

func today() time.Time {
	return domain.DateOnly(time.Now())
}

func parseDay(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return today(), nil
	}
	d, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return d, nil
}

// session opens the configured user's session and runs the settlement check.
func (a *app) session() (domain.Session, error) {
	if a.user == "" {
		return domain.Session{}, errors.New("no user selected: pass -user or set [ledger] default-user")
	}
	s, err := a.registry.Open(a.ctx, a.user)
	if err != nil {
		return domain.Session{}, err
	}
	a.ctx = logger.WithContext(a.ctx, logger.WithFields(a.log, map[string]interface{}{"user": s.User}))

	if a.autoSettle {
		settled, txs, err := a.uc.AutoSettle(a.ctx, s, today())
		if err != nil {
			return domain.Session{}, fmt.Errorf("automatic settlement failed: %w", err)
		}
		if settled {
			log := logger.FromContext(a.ctx)
			log.Info().Int("transactions", len(txs)).Msg("previous billing cycle settled")
		}
	}
	return s, nil
}

func (a *app) runUsers(args []string) error {
	if len(args) >= 2 && args[0] == "add" {
		s, err := a.registry.Add(a.ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(s)
	}
	users, err := a.registry.List(a.ctx)
	if err != nil {
		return err
	}
	return printJSON(users)
}

type entryFlags struct {
	amount      *float64
	date        *string
	description *string
	category    *string
	device      *string
	location    *string
	occasion    *string
	splits      *string
	notes       *string
}

func bindEntryFlags(fs *flag.FlagSet) entryFlags {
	return entryFlags{
		amount:      fs.Float64("amount", 0, "Amount"),
		date:        fs.String("date", "", "Date (YYYY-MM-DD), defaults to today"),
		description: fs.String("desc", "", "Description"),
		category:    fs.String("category", "", "Category"),
		device:      fs.String("device", "UPI", "Payment device"),
		location:    fs.String("location", "", "Location"),
		occasion:    fs.String("occasion", "", "Occasion"),
		splits:      fs.String("split", "", "Shared split, e.g. 'alice:30, bob'"),
		notes:       fs.String("notes", "", "Shared notes"),
	}
}

func (f entryFlags) entry() (ledger.Entry, error) {
	date, err := parseDay(*f.date)
	if err != nil {
		return ledger.Entry{}, err
	}
	splits := domain.ParseSplitList(*f.splits)
	return ledger.Entry{
		Amount:      *f.amount,
		Date:        date,
		Description: *f.description,
		Category:    *f.category,
		Device:      *f.device,
		Location:    *f.location,
		Occasion:    *f.occasion,
		Shared:      len(splits) > 0,
		Splits:      splits,
		SharedNotes: *f.notes,
	}, nil
}

func (a *app) runAddExpense(args []string) error {
	fs := flag.NewFlagSet("add-expense", flag.ExitOnError)
	ef := bindEntryFlags(fs)
	fs.Parse(args)

	e, err := ef.entry()
	if err != nil {
		return err
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	txs, err := a.uc.RecordExpense(a.ctx, s, e)
	if err != nil {
		return err
	}
	return printJSON(txs)
}

func (a *app) runAddIncome(args []string) error {
	fs := flag.NewFlagSet("add-income", flag.ExitOnError)
	ef := bindEntryFlags(fs)
	fs.Parse(args)

	e, err := ef.entry()
	if err != nil {
		return err
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	tx, err := a.uc.RecordIncome(a.ctx, s, e)
	if err != nil {
		return err
	}
	return printJSON(tx)
}

func (a *app) runPayCard(args []string) error {
	fs := flag.NewFlagSet("pay-card", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "Amount paid")
	date := fs.String("date", "", "Date (YYYY-MM-DD), defaults to today")
	description := fs.String("desc", "", "Description")
	fs.Parse(args)

	d, err := parseDay(*date)
	if err != nil {
		return err
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	txs, err := a.uc.PayCreditCardBill(a.ctx, s, *amount, d, *description)
	if err != nil {
		return err
	}
	return printJSON(txs)
}

func (a *app) runClearDebt(args []string) error {
	fs := flag.NewFlagSet("clear-debt", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "Amount cleared")
	date := fs.String("date", "", "Date (YYYY-MM-DD), defaults to today")
	description := fs.String("desc", "", "Description")
	device := fs.String("device", "", "Device, defaults to BANK_TRANSFER")
	fs.Parse(args)

	d, err := parseDay(*date)
	if err != nil {
		return err
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	tx, err := a.uc.ClearDebt(a.ctx, s, *amount, d, *description, *device)
	if err != nil {
		return err
	}
	return printJSON(tx)
}

func (a *app) runSettle(args []string) error {
	fs := flag.NewFlagSet("settle", flag.ExitOnError)
	date := fs.String("date", "", "Settlement date (YYYY-MM-DD), defaults to today")
	fs.Parse(args)

	d, err := parseDay(*date)
	if err != nil {
		return err
	}
	a.autoSettle = false
	s, err := a.session()
	if err != nil {
		return err
	}
	txs, err := a.uc.SettlePreviousCycle(a.ctx, s, d)
	if err != nil {
		return err
	}
	return printJSON(txs)
}

func (a *app) runDashboard(args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	date := fs.String("date", "", "As-of date (YYYY-MM-DD), defaults to today")
	fs.Parse(args)

	d, err := parseDay(*date)
	if err != nil {
		return err
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	dashboard, err := a.uc.Dashboard(a.ctx, s, d)
	if err != nil {
		return err
	}
	return printJSON(dashboard)
}

func (a *app) runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	year := fs.Int("year", 0, "Year")
	month := fs.Int("month", 0, "Month (1-12)")
	text := fs.String("text", "", "Search description, category and device")
	device := fs.String("device", "", "Device prefix")
	category := fs.String("category", "", "Category prefix")
	asc := fs.Bool("asc", false, "Oldest first")
	fs.Parse(args)

	s, err := a.session()
	if err != nil {
		return err
	}
	txs, err := a.uc.List(a.ctx, s, domain.TransactionFilter{
		Year:      *year,
		Month:     *month,
		Text:      *text,
		Device:    *device,
		Category:  *category,
		Ascending: *asc,
	})
	if err != nil {
		return err
	}
	return printJSON(txs)
}

func (a *app) runCategories(args []string) error {
	now := today()
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "Year")
	month := fs.Int("month", int(now.Month()), "Month (1-12)")
	txType := fs.String("type", string(domain.TransactionTypeExpense), "expense or income")
	fs.Parse(args)

	s, err := a.session()
	if err != nil {
		return err
	}
	report, err := a.uc.CategoryReport(a.ctx, s, *year, *month, domain.TransactionType(strings.ToLower(*txType)))
	if err != nil {
		return err
	}
	return printJSON(report)
}

func (a *app) runBudget(args []string) error {
	fs := flag.NewFlagSet("budget", flag.ExitOnError)
	category := fs.String("category", "", "Category")
	amount := fs.Float64("amount", 0, "Monthly budget, 0 removes it")
	fs.Parse(args)

	s, err := a.session()
	if err != nil {
		return err
	}
	if err := a.uc.SetBudget(a.ctx, s, *category, *amount); err != nil {
		return err
	}
	settings, err := a.uc.Settings(a.ctx, s)
	if err != nil {
		return err
	}
	return printJSON(settings.CategoryBudgets)
}

func (a *app) runShared(args []string) error {
	fs := flag.NewFlagSet("shared", flag.ExitOnError)
	participant := fs.String("participant", "", "Only this participant")
	category := fs.String("category", "", "Only this category")
	fs.Parse(args)

	s, err := a.session()
	if err != nil {
		return err
	}
	summary, err := a.uc.SharedSummary(a.ctx, s, *participant, *category)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func (a *app) runParticipant(args []string) error {
	fs := flag.NewFlagSet("participant", flag.ExitOnError)
	name := fs.String("name", "", "Participant name")
	fs.Parse(args)

	if strings.TrimSpace(*name) == "" {
		return errors.New("-name is required")
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	report, err := a.uc.ParticipantDetail(a.ctx, s, *name)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func (a *app) runSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	bank := fs.Float64("bank", 0, "Opening bank balance")
	cash := fs.Float64("cash", 0, "Opening cash balance")
	plain := fs.Float64("savings", 0, "Opening savings")
	fd := fs.Float64("fd", 0, "Opening fixed deposits")
	rd := fs.Float64("rd", 0, "Opening recurring deposits")
	gold := fs.Float64("gold", 0, "Opening gold savings")
	fs.Parse(args)

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	s, err := a.session()
	if err != nil {
		return err
	}
	current, err := a.uc.Settings(a.ctx, s)
	if err != nil {
		return err
	}

	if set["bank"] || set["cash"] {
		b, c := current.InitialBalance, current.InitialCashBalance
		if set["bank"] {
			b = *bank
		}
		if set["cash"] {
			c = *cash
		}
		if err := a.uc.SetInitialBalances(a.ctx, s, b, c); err != nil {
			return err
		}
	}
	if set["savings"] || set["fd"] || set["rd"] || set["gold"] {
		p, f, r, g := current.InitialSavings, current.InitialSavingsFD, current.InitialSavingsRD, current.InitialSavingsGold
		if set["savings"] {
			p = *plain
		}
		if set["fd"] {
			f = *fd
		}
		if set["rd"] {
			r = *rd
		}
		if set["gold"] {
			g = *gold
		}
		if err := a.uc.SetInitialSavings(a.ctx, s, p, f, r, g); err != nil {
			return err
		}
	}

	updated, err := a.uc.Settings(a.ctx, s)
	if err != nil {
		return err
	}
	return printJSON(updated)
}

func (a *app) runEdit(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "Transaction id")
	ef := bindEntryFlags(fs)
	fs.Parse(args)

	if strings.TrimSpace(*id) == "" {
		return errors.New("-id is required")
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	txs, err := a.uc.Transactions(a.ctx, s)
	if err != nil {
		return err
	}
	var tx *domain.Transaction
	for i := range txs {
		if txs[i].ID == *id {
			tx = &txs[i]
			break
		}
	}
	if tx == nil {
		return fmt.Errorf("edit %s: %w", *id, usecase.ErrTransactionNotFound)
	}

	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "amount":
			tx.Amount = domain.NormalizeAmount(*ef.amount)
		case "date":
			d, err := parseDay(*ef.date)
			if err != nil {
				parseErr = err
				return
			}
			tx.Date = d
		case "desc":
			tx.Description = *ef.description
		case "category":
			tx.Category = *ef.category
		case "device":
			tx.Device = ledger.NormalizeDevice(*ef.device)
		case "location":
			tx.Location = *ef.location
		case "occasion":
			tx.Occasion = *ef.occasion
		case "split":
			tx.SharedSplits = domain.ParseSplitList(*ef.splits)
			tx.Shared = len(tx.SharedSplits) > 0
		case "notes":
			tx.SharedNotes = *ef.notes
		}
	})
	if parseErr != nil {
		return parseErr
	}

	if err := a.uc.Edit(a.ctx, s, *tx); err != nil {
		return err
	}
	return printJSON(tx)
}

func (a *app) runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "Transaction id")
	fs.Parse(args)

	if strings.TrimSpace(*id) == "" {
		return errors.New("-id is required")
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	removed, err := a.uc.Delete(a.ctx, s, *id)
	if err != nil {
		return err
	}
	return printJSON(map[string]int{"removed": removed})
}

func (a *app) runNewMonth(args []string) error {
	fs := flag.NewFlagSet("new-month", flag.ExitOnError)
	date := fs.String("date", "", "Date in the new month (YYYY-MM-DD), defaults to today")
	fs.Parse(args)

	d, err := parseDay(*date)
	if err != nil {
		return err
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	label, err := a.uc.StartNewMonth(a.ctx, s, d)
	if err != nil {
		return err
	}
	return printJSON(map[string]string{"archive": label})
}
