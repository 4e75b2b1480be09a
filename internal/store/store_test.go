package store_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azzam2912/xseon-real/internal/config"
	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/store"
	"github.com/azzam2912/xseon-real/internal/store/csvstore"
	"github.com/azzam2912/xseon-real/internal/store/sheets"
	"github.com/azzam2912/xseon-real/internal/store/sqlite"
)

var (
	_ store.Store = (*csvstore.Store)(nil)
	_ store.Store = (*sheets.Store)(nil)
	_ store.Store = (*sqlite.Store)(nil)
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	dir := t.TempDir()
	cfg.StoreBackend = config.BackendCSV
	cfg.UploadSink = config.SinkLocal
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.DBPath = filepath.Join(dir, "data", "xseon.db")
	cfg.UploadDir = filepath.Join(dir, "uploads")
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenCSV(t *testing.T) {
	cfg := testConfig(t)

	s, err := store.Open(context.Background(), cfg, discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.IsType(t, &csvstore.Store{}, s)
	_, err = os.Stat(filepath.Join(cfg.DataDir, "objects.csv"))
	assert.NoError(t, err)
}

func TestOpenSQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreBackend = config.BackendSQLite

	s, err := store.Open(context.Background(), cfg, discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.IsType(t, &sqlite.Store{}, s)
	url, err := s.UploadFileBytes(context.Background(), "object", "12345", "a.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Contains(t, url, "/uploads/objects/12345/")
}

func TestOpenSheetsWithoutCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreBackend = config.BackendSheets
	cfg.SpreadsheetName = "Inventory"

	_, err := store.Open(context.Background(), cfg, discard())
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.ErrorContains(t, err, "credentials not configured")
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreBackend = "mongo"

	_, err := store.Open(context.Background(), cfg, discard())
	assert.ErrorContains(t, err, "invalid configuration")
}
