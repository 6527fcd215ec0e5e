package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"money-tracker/internal/domain"
	"money-tracker/internal/logger"
)

func settingsPath(s domain.Session) string {
	return filepath.Join(s.DataDir, settingsFile)
}

// ReadSettings returns the stored settings mapping. A missing or malformed
// file reads as nil so callers fall back to defaults.
func (r *CSVStore) ReadSettings(ctx context.Context, s domain.Session) (map[string]any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	path := settingsPath(s)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("file", path).Msg("malformed settings, using defaults")
		return nil, nil
	}
	return m, nil
}

// WriteSettings atomically replaces the settings file.
func (r *CSVStore) WriteSettings(ctx context.Context, s domain.Session, settings map[string]any) error {
	if err := s.Validate(); err != nil {
		return err
	}
	path := settingsPath(s)
	err := writeFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(settings)
	})
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("file", path).Msg("failed to write settings")
		return err
	}
	return nil
}
