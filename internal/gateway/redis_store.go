package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis"

	"money-tracker/internal/domain"
	"money-tracker/internal/logger"
)

// RedisStore keeps each user's rows in a Redis list and settings in a string key.
// Multi-row writes run inside MULTI/EXEC.
type RedisStore struct {
	client *redis.Client
}

// RedisOptions configures the connection.
type RedisOptions struct {
	Server string
	DB     int
	Pass   string
}

// NewRedisStore connects to the server described by opts.
func NewRedisStore(opts RedisOptions) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{
		Addr:     opts.Server,
		Password: opts.Pass,
		DB:       opts.DB,
	}))
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close releases the connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func transactionsKey(s domain.Session) string {
	return fmt.Sprintf("ledger:%s:transactions", s.User)
}

func settingsKey(s domain.Session) string {
	return fmt.Sprintf("ledger:%s:settings", s.User)
}

func encodeRows(rows []domain.Row) ([]interface{}, error) {
	values := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		values = append(values, string(payload))
	}
	return values, nil
}

// ReadAll returns every stored row in insertion order. Entries that are not
// valid JSON are skipped and logged.
func (r *RedisStore) ReadAll(ctx context.Context, s domain.Session) ([]domain.Row, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	key := transactionsKey(s)
	values, err := r.client.WithContext(ctx).LRange(key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	rows := make([]domain.Row, 0, len(values))
	for i, v := range values {
		var row domain.Row
		if err := json.Unmarshal([]byte(v), &row); err != nil {
			log := logger.FromContext(ctx)
			log.Warn().Err(err).Str("key", key).Int("index", i).Msg("skipping malformed row")
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteAll replaces the list in one transaction.
func (r *RedisStore) WriteAll(ctx context.Context, s domain.Session, rows []domain.Row) error {
	if err := s.Validate(); err != nil {
		return err
	}
	values, err := encodeRows(rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	key := transactionsKey(s)
	_, err = r.client.WithContext(ctx).TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.Del(key)
		if len(values) > 0 {
			pipe.RPush(key, values...)
		}
		return nil
	})
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("key", key).Msg("failed to write transactions")
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// AppendAll pushes rows in one transaction.
func (r *RedisStore) AppendAll(ctx context.Context, s domain.Session, rows []domain.Row) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	values, err := encodeRows(rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	key := transactionsKey(s)
	_, err = r.client.WithContext(ctx).TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.RPush(key, values...)
		return nil
	})
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("key", key).Msg("failed to append transactions")
		return fmt.Errorf("failed to append to %s: %w", key, err)
	}
	return nil
}

// Archive renames the live list to ledger:<user>:transactions:<label>.
// An existing archive is never overwritten.
func (r *RedisStore) Archive(ctx context.Context, s domain.Session, label string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	client := r.client.WithContext(ctx)
	key := transactionsKey(s)
	target := key + ":" + label

	exists, err := client.Exists(target).Result()
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", target, err)
	}
	if exists > 0 {
		return fmt.Errorf("%s: %w", target, ErrArchiveExists)
	}
	live, err := client.Exists(key).Result()
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", key, err)
	}
	if live == 0 {
		return nil
	}
	if err := client.Rename(key, target).Err(); err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	log := logger.FromContext(ctx)
	log.Info().Str("archive", target).Msg("transactions archived")
	return nil
}

// ReadSettings returns the stored settings mapping, or nil when absent or malformed.
func (r *RedisStore) ReadSettings(ctx context.Context, s domain.Session) (map[string]any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	key := settingsKey(s)
	payload, err := r.client.WithContext(ctx).Get(key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("key", key).Msg("malformed settings, using defaults")
		return nil, nil
	}
	return m, nil
}

// WriteSettings stores the settings mapping.
func (r *RedisStore) WriteSettings(ctx context.Context, s domain.Session, settings map[string]any) error {
	if err := s.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	key := settingsKey(s)
	if err := r.client.WithContext(ctx).Set(key, string(payload), 0).Err(); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("key", key).Msg("failed to write settings")
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
