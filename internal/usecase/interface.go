package usecase

import (
	"context"

	"money-tracker/internal/domain"
)

// TransactionRepository stores the raw transaction rows of one user's ledger.
// Rows come back in insertion order. The usecase layer owns decoding.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type TransactionRepository interface {
	ReadAll(ctx context.Context, s domain.Session) ([]domain.Row, error)
	// WriteAll atomically replaces the whole table.
	WriteAll(ctx context.Context, s domain.Session, rows []domain.Row) error
	// AppendAll adds rows in one read-modify-write so a compound entry lands whole.
	AppendAll(ctx context.Context, s domain.Session, rows []domain.Row) error
	// Archive moves the live table aside under label and leaves an empty one.
	Archive(ctx context.Context, s domain.Session, label string) error
}

// SettingsRepository stores the user's settings mapping.
type SettingsRepository interface {
	ReadSettings(ctx context.Context, s domain.Session) (map[string]any, error)
	WriteSettings(ctx context.Context, s domain.Session, settings map[string]any) error
}
