package gateway

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"money-tracker/internal/domain"
	"money-tracker/internal/logger"
)

const (
	transactionsFile = "transactions.csv"
	settingsFile     = "settings.json"
)

// ErrArchiveExists is returned when an archive with the same label is already on disk.
var ErrArchiveExists = errors.New("archive already exists")

// CSVStore keeps each user's transactions in a CSV table and settings in a
// JSON file inside the session's data directory.
type CSVStore struct{}

// NewCSVStore creates a new store instance.
func NewCSVStore() *CSVStore {
	return &CSVStore{}
}

func transactionsPath(s domain.Session) string {
	return filepath.Join(s.DataDir, transactionsFile)
}

func archivePath(s domain.Session, label string) string {
	return filepath.Join(s.DataDir, fmt.Sprintf("transactions_%s.csv", label))
}

// ReadAll reads every row of the table keyed by its header. A missing table
// reads as empty. Short records leave their trailing columns unset, stray
// quotes are kept as text and records that still cannot be parsed are skipped.
func (r *CSVStore) ReadAll(ctx context.Context, s domain.Session) ([]domain.Row, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	path := transactionsPath(s)
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open transactions file %s: %w", path, err)
	}
	defer file.Close()

	return readRows(ctx, file, path)
}

func readRows(ctx context.Context, in io.Reader, path string) ([]domain.Row, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	log := logger.FromContext(ctx)
	var rows []domain.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			log.Warn().Err(err).Str("file", path).Int("line", perr.StartLine).Msg("skipping unreadable record")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			log.Warn().Str("file", path).Int("line", line).Msg("extra fields ignored")
		}

		row := make(domain.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteAll atomically replaces the table with rows.
func (r *CSVStore) WriteAll(ctx context.Context, s domain.Session, rows []domain.Row) error {
	if err := s.Validate(); err != nil {
		return err
	}
	path := transactionsPath(s)
	err := writeFileAtomic(path, func(w io.Writer) error {
		return writeRows(w, rows)
	})
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("file", path).Msg("failed to write transactions")
		return err
	}
	return nil
}

func writeRows(w io.Writer, rows []domain.Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(domain.Columns); err != nil {
		return err
	}
	record := make([]string, len(domain.Columns))
	for _, row := range rows {
		for i, col := range domain.Columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// AppendAll adds rows to the table in a single read-modify-write.
func (r *CSVStore) AppendAll(ctx context.Context, s domain.Session, rows []domain.Row) error {
	existing, err := r.ReadAll(ctx, s)
	if err != nil {
		return err
	}
	return r.WriteAll(ctx, s, append(existing, rows...))
}

// Archive renames the live table to transactions_<label>.csv and starts an
// empty one. An existing archive is never overwritten.
func (r *CSVStore) Archive(ctx context.Context, s domain.Session, label string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	target := archivePath(s, label)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%s: %w", target, ErrArchiveExists)
	}

	live := transactionsPath(s)
	if err := os.Rename(live, target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to archive %s: %w", live, err)
	}
	log := logger.FromContext(ctx)
	log.Info().Str("archive", target).Msg("transactions archived")
	return r.WriteAll(ctx, s, nil)
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it over path, so readers never see a partial file.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
