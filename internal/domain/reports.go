package domain

// DebtSummary splits outstanding debt into its two sources.
type DebtSummary struct {
	CreditCard float64 `json:"credit_card"`
	Borrowed   float64 `json:"borrowed"`
	Total      float64 `json:"total"`
}

// CycleDebt holds the credit-card activity of one billing cycle.
type CycleDebt struct {
	Cycle    string  `json:"cycle"` // start date of the cycle
	Expenses float64 `json:"expenses"`
	Payments float64 `json:"payments"`
}

// Dashboard is the top-level structure rendered on the overview screen.
type Dashboard struct {
	Balance        float64            `json:"balance"`
	AccountBalance float64            `json:"account_balance"`
	CashBalance    float64            `json:"cash_balance"`
	Debt           DebtSummary        `json:"debt"`
	Savings        map[string]float64 `json:"savings"`
	TotalSavings   float64            `json:"total_savings"`
	NetWorth       float64            `json:"net_worth"`
	CycleStart     string             `json:"billing_cycle_start"`
	CycleEnd       string             `json:"billing_cycle_end"`
	Settled        bool               `json:"settled_previous_cycle,omitempty"`
}

// CategoryLine is one category of a category report.
type CategoryLine struct {
	Category string   `json:"category"`
	Amount   float64  `json:"amount"`
	Budget   *float64 `json:"budget,omitempty"`
	Variance *float64 `json:"variance,omitempty"`
}

// CategoryReport aggregates a month of income or expense by category.
type CategoryReport struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Type  TransactionType `json:"tx_type"`
	Total float64         `json:"total"`
	Lines []CategoryLine  `json:"lines"`
}

// SharedDetail pairs a shared transaction with its full allocation.
type SharedDetail struct {
	Transaction Transaction        `json:"transaction"`
	Allocations map[string]float64 `json:"allocations"`
}

// SharedSummary is the per-participant view of shared transactions.
type SharedSummary struct {
	Totals  map[string]float64 `json:"totals"`
	Details []SharedDetail     `json:"details"`
}

// ParticipantEntry is one transaction as seen by a single participant.
type ParticipantEntry struct {
	Transaction Transaction `json:"transaction"`
	Share       float64     `json:"share"`
	Signed      float64     `json:"signed"`
}

// ParticipantReport lists everything shared with one participant.
type ParticipantReport struct {
	Participant string             `json:"participant"`
	Net         float64            `json:"net"`
	Entries     []ParticipantEntry `json:"entries"`
}

// TransactionFilter narrows a transaction listing. Zero values match everything.
type TransactionFilter struct {
	Year      int
	Month     int
	Text      string
	Device    string
	Category  string
	Ascending bool
}
