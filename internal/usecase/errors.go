package usecase

import (
	"errors"
	"strings"
)

// ErrTransactionNotFound is returned by Edit and Delete for an unknown id.
var ErrTransactionNotFound = errors.New("transaction not found")

// ValidationError carries every problem found while staging a commit.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid transaction: " + strings.Join(e.Problems, "; ")
}
