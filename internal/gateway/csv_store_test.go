package gateway

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"money-tracker/internal/domain"
	"money-tracker/internal/logger"
)

func testSession(t testing.TB) domain.Session {
	return domain.Session{User: "amit", DataDir: filepath.Join(t.TempDir(), "amit")}
}

func writeCSV(t *testing.T, path string, data [][]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	writer := csv.NewWriter(file)
	require.NoError(t, writer.WriteAll(data))
}

func sampleRow(id, amount string) domain.Row {
	return domain.Row{
		"id":              id,
		"timestamp":       "2025-03-01T10:00:00Z",
		"tx_type":         "expense",
		"sub_type":        "regular",
		"amount":          amount,
		"date":            "2025-03-01",
		"description":     "Lunch, with \"team\"",
		"category":        "Food",
		"device":          "UPI",
		"location":        "",
		"occasion":        "",
		"effects_balance": "True",
		"linked_tx_id":    "",
		"shared_flag":     "False",
		"shared_splits":   "",
		"shared_notes":    "",
	}
}

func TestCSVStore_ReadAll(t *testing.T) {
	tests := []struct {
		name     string
		csvData  [][]string
		expected []domain.Row
		wantErr  bool
	}{
		{
			name: "columns mapped by header in any order",
			csvData: [][]string{
				{"amount", "id", "date"},
				{"10.00", "a", "2025-03-01"},
				{"20.50", "b", "2025-03-02"},
			},
			expected: []domain.Row{
				{"amount": "10.00", "id": "a", "date": "2025-03-01"},
				{"amount": "20.50", "id": "b", "date": "2025-03-02"},
			},
		},
		{
			name:     "header only",
			csvData:  [][]string{{"id", "amount"}},
			expected: nil,
		},
		{
			name: "short record leaves trailing columns unset",
			csvData: [][]string{
				{"id", "amount", "category"},
				{"a", "5"},
			},
			expected: []domain.Row{{"id": "a", "amount": "5"}},
		},
		{
			name: "extra fields ignored",
			csvData: [][]string{
				{"id"},
				{"a", "surplus"},
			},
			expected: []domain.Row{{"id": "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t)
			writeCSV(t, transactionsPath(s), tt.csvData)

			got, err := NewCSVStore().ReadAll(context.Background(), s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCSVStore_ReadAll_StrayQuotes(t *testing.T) {
	s := testSession(t)
	require.NoError(t, os.MkdirAll(s.DataDir, 0o755))
	data := "id,description,amount\n" +
		"a,fine,1\n" +
		"b,bad \"quote\" here,2\n" +
		"c,\"also \"odd\" here\",3\n"
	require.NoError(t, os.WriteFile(transactionsPath(s), []byte(data), 0o644))

	got, err := NewCSVStore().ReadAll(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []domain.Row{
		{"id": "a", "description": "fine", "amount": "1"},
		{"id": "b", "description": "bad \"quote\" here", "amount": "2"},
		{"id": "c", "description": "also \"odd\" here", "amount": "3"},
	}, got)
}

func TestCSVStore_ReadAll_MissingFileIsEmpty(t *testing.T) {
	got, err := NewCSVStore().ReadAll(context.Background(), testSession(t))
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestCSVStore_ReadAll_InvalidSession(t *testing.T) {
	_, err := NewCSVStore().ReadAll(context.Background(), domain.Session{User: "amit"})
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestCSVStore_WriteAndAppend(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore()
	s := testSession(t)

	first := sampleRow("a", "10.00")
	require.NoError(t, store.WriteAll(ctx, s, []domain.Row{first}))

	second, third := sampleRow("b", "20.00"), sampleRow("c", "30.00")
	require.NoError(t, store.AppendAll(ctx, s, []domain.Row{second, third}))

	got, err := store.ReadAll(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []domain.Row{first, second, third}, got)

	entries, err := os.ReadDir(s.DataDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, transactionsFile, entries[0].Name())
}

func TestCSVStore_RoundTripsTransactions(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore()
	s := testSession(t)

	row := sampleRow("a", "12.50")
	row["shared_flag"] = "True"
	row["shared_splits"] = `[{"name":"alice","amount":5},{"name":"bob","amount":null}]`
	want, _ := domain.DecodeRow(row, mustParseTime("2025-03-01T10:00:00Z"))

	require.NoError(t, store.WriteAll(ctx, s, []domain.Row{domain.ToRow(want)}))
	rows, err := store.ReadAll(ctx, s)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got, degraded := domain.DecodeRow(rows[0], mustParseTime("2025-04-01T00:00:00Z"))
	assert.Empty(t, degraded)
	assert.Equal(t, want, got)
}

func TestCSVStore_WriteAll_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	buf := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(buf))
	err := NewCSVStore().WriteAll(ctx, domain.Session{User: "amit", DataDir: filepath.Join(blocker, "amit")}, nil)

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "failed to write transactions")
}

func TestCSVStore_Archive(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore()
	s := testSession(t)

	require.NoError(t, store.WriteAll(ctx, s, []domain.Row{sampleRow("a", "1.00")}))
	require.NoError(t, store.Archive(ctx, s, "February_2025"))

	live, err := store.ReadAll(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, live)

	archived, err := os.ReadFile(archivePath(s, "February_2025"))
	require.NoError(t, err)
	assert.Contains(t, string(archived), "Food")

	err = store.Archive(ctx, s, "February_2025")
	assert.ErrorIs(t, err, ErrArchiveExists)
}

func TestCSVStore_Settings(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore()

	t.Run("missing file reads as nil", func(t *testing.T) {
		got, err := store.ReadSettings(ctx, testSession(t))
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("malformed file reads as nil and warns", func(t *testing.T) {
		s := testSession(t)
		require.NoError(t, os.MkdirAll(s.DataDir, 0o755))
		require.NoError(t, os.WriteFile(settingsPath(s), []byte("{broken"), 0o600))

		buf := &bytes.Buffer{}
		got, err := store.ReadSettings(logger.WithContext(ctx, logger.NewWithWriter(buf)), s)
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.Contains(t, buf.String(), "malformed settings")
	})

	t.Run("round trip", func(t *testing.T) {
		s := testSession(t)
		want := domain.DefaultSettings()
		want.InitialBalance = 1500.5
		want.CategoryBudgets["Food"] = 3000

		require.NoError(t, store.WriteSettings(ctx, s, want.ToMap()))
		m, err := store.ReadSettings(ctx, s)
		require.NoError(t, err)

		got, degraded := domain.SettingsFromMap(m)
		assert.Empty(t, degraded)
		assert.Equal(t, want, got)
	})
}

func mustParseTime(timeStr string) time.Time {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		panic(err)
	}
	return t
}

func BenchmarkCSVStore_ReadAll(b *testing.B) {
	ctx := context.Background()
	store := NewCSVStore()
	s := testSession(b)

	rows := make([]domain.Row, 0, 1000)
	for i := 0; i < 1000; i++ {
		rows = append(rows, sampleRow(fmt.Sprintf("tx-%d", i), "150.00"))
	}
	if err := store.WriteAll(ctx, s, rows); err != nil {
		b.Fatalf("Failed to seed store: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.ReadAll(ctx, s); err != nil {
			b.Fatalf("ReadAll failed: %v", err)
		}
	}
}

func BenchmarkCSVStore_AppendAll(b *testing.B) {
	ctx := context.Background()
	store := NewCSVStore()
	s := testSession(b)
	row := []domain.Row{sampleRow("tx", "1.00")}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.AppendAll(ctx, s, row); err != nil {
			b.Fatalf("AppendAll failed: %v", err)
		}
	}
}
