package domain

import "fmt"

// Validate checks tx against the domain rules and returns every violation found.
// It never modifies tx.
func Validate(tx Transaction) (bool, []string) {
	var problems []string

	if !tx.Type.Valid() {
		problems = append(problems, fmt.Sprintf("Unsupported transaction type: %s", tx.Type))
	}
	if tx.Device != "" && !tx.Device.Valid() {
		problems = append(problems, fmt.Sprintf("Unsupported device: %s", tx.Device))
	}
	if !(tx.Amount > 0) {
		problems = append(problems, "Amount must be greater than zero")
	}
	if tx.Date.IsZero() {
		problems = append(problems, fmt.Sprintf("Invalid date: %s", tx.Date))
	}

	return len(problems) == 0, problems
}
