// Package sqlite keeps records in a SQLite database. Column names and text
// encodings match the CSV and sheet layouts, so rows move between backends
// unchanged.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/photostore"
	"github.com/azzam2912/xseon-real/internal/record"
)

type Store struct {
	db     *sql.DB
	sink   photostore.Sink
	logger *slog.Logger
}

func New(dbPath string, sink photostore.Sink, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("sqlite store ready", "path", dbPath)
	return &Store{db: db, sink: sink, logger: logger}, nil
}

func tableName(t record.Table) string {
	return strings.TrimSuffix(t.File, filepath.Ext(t.File))
}

// orderColumn is rowid for keyed tables and seq for append-only ones.
func orderColumn(t record.Table) string {
	if t.Kind == domain.KindLog || t.Kind == domain.KindAudit {
		return "seq"
	}
	return "rowid"
}

func (s *Store) query(ctx context.Context, t record.Table, where string, args ...any) ([]record.Row, error) {
	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.Columns, ", "), tableName(t))
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY " + orderColumn(t)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableName(t), err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", "error", err)
		}
	}()

	var out []record.Row
	values := make([]string, len(t.Columns))
	dest := make([]any, len(t.Columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", tableName(t), err)
		}
		out = append(out, record.RowFrom(t.Columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", tableName(t), err)
	}
	return out, nil
}

func (s *Store) upsert(ctx context.Context, t record.Table, row record.Row) error {
	var sets []string
	for _, c := range t.Columns[1:] {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		tableName(t), strings.Join(t.Columns, ", "), placeholders(len(t.Columns)), strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, q, args(t, row)...); err != nil {
		return fmt.Errorf("failed to save %s: %w", t.Kind, err)
	}
	return nil
}

func (s *Store) insert(ctx context.Context, t record.Table, row record.Row) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName(t), strings.Join(t.Columns, ", "), placeholders(len(t.Columns)))
	if _, err := s.db.ExecContext(ctx, q, args(t, row)...); err != nil {
		return fmt.Errorf("failed to add %s: %w", t.Kind, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, t record.Table, column, value string) (int, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", tableName(t), column), value)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", t.Kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func args(t record.Table, row record.Row) []any {
	values := t.Values(row)
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func list[T any](ctx context.Context, s *Store, t record.Table, decode func(record.Row) (T, error)) ([]T, error) {
	rows, err := s.query(ctx, t, "")
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := decode(r)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tableName(t), err)
		}
		out = append(out, v)
	}
	return out, nil
}

func get[T any](ctx context.Context, s *Store, t record.Table, id string, decode func(record.Row) (T, error)) (*T, error) {
	rows, err := s.query(ctx, t, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	v, err := decode(rows[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", tableName(t), err)
	}
	return &v, nil
}

func (s *Store) ListObjects(ctx context.Context) ([]domain.Object, error) {
	return list(ctx, s, record.Objects, record.DecodeObject)
}

func (s *Store) GetObject(ctx context.Context, id string) (*domain.Object, error) {
	return get(ctx, s, record.Objects, id, record.DecodeObject)
}

func (s *Store) SaveObject(ctx context.Context, o domain.Object) error {
	row, err := record.EncodeObject(o)
	if err != nil {
		return err
	}
	return s.upsert(ctx, record.Objects, row)
}

func (s *Store) DeleteObject(ctx context.Context, id string) error {
	_, err := s.delete(ctx, record.Objects, "id", id)
	return err
}

func (s *Store) DeleteObjectsByPlace(ctx context.Context, placeID string) (int, error) {
	return s.delete(ctx, record.Objects, "place_id", placeID)
}

func (s *Store) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	return list(ctx, s, record.Places, record.DecodePlace)
}

func (s *Store) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	return get(ctx, s, record.Places, id, record.DecodePlace)
}

func (s *Store) SavePlace(ctx context.Context, p domain.Place) error {
	row, err := record.EncodePlace(p)
	if err != nil {
		return err
	}
	return s.upsert(ctx, record.Places, row)
}

func (s *Store) DeletePlace(ctx context.Context, id string) error {
	_, err := s.delete(ctx, record.Places, "id", id)
	return err
}

func (s *Store) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return list(ctx, s, record.Tags, record.DecodeTag)
}

func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	return get(ctx, s, record.Tags, id, record.DecodeTag)
}

func (s *Store) SaveTag(ctx context.Context, t domain.Tag) error {
	row, err := record.EncodeTag(t)
	if err != nil {
		return err
	}
	return s.upsert(ctx, record.Tags, row)
}

func (s *Store) DeleteTag(ctx context.Context, id string) error {
	_, err := s.delete(ctx, record.Tags, "id", id)
	return err
}

func (s *Store) ListLogs(ctx context.Context) ([]domain.LogEntry, error) {
	return list(ctx, s, record.Logs, record.DecodeLog)
}

func (s *Store) AddLog(ctx context.Context, e domain.LogEntry) error {
	return s.insert(ctx, record.Logs, record.EncodeLog(e))
}

func (s *Store) ListAudit(ctx context.Context) ([]domain.AuditEntry, error) {
	return list(ctx, s, record.Audit, record.DecodeAudit)
}

func (s *Store) AddAudit(ctx context.Context, e domain.AuditEntry) error {
	return s.insert(ctx, record.Audit, record.EncodeAudit(e))
}

func (s *Store) UploadFileBytes(ctx context.Context, kind domain.Kind, entityID, filename, mimeType string, data []byte) (string, error) {
	if s.sink == nil {
		return "", fmt.Errorf("%w: no upload sink configured", domain.ErrBackendUnavailable)
	}
	return s.sink.Upload(ctx, kind, entityID, filename, mimeType, data)
}

func (s *Store) Close() error {
	return s.db.Close()
}
