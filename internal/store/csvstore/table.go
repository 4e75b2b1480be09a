package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/azzam2912/xseon-real/internal/record"
)

// fileMode lets other tools on the machine read the tables.
const fileMode = 0o644

// snapshot is one table as read from disk. Rows stay as raw field maps so a
// row that fails to decode is written back untouched.
type snapshot struct {
	table record.Table
	rows  []record.Row
}

func (s *Store) path(t record.Table) string {
	return filepath.Join(s.dir, t.File)
}

// ensureFile writes a header-only file when the table does not exist yet.
func (s *Store) ensureFile(t record.Table) error {
	_, err := os.Stat(s.path(t))
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", t.File, err)
	}
	return s.write(&snapshot{table: t})
}

func (s *Store) load(t record.Table) (*snapshot, error) {
	f, err := os.Open(s.path(t))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", t.File, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &snapshot{table: t}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", t.File, err)
	}

	snap := &snapshot{table: t}
	for {
		values, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", t.File, err)
		}
		snap.rows = append(snap.rows, record.RowFrom(header, values))
	}
	return snap, nil
}

// write replaces the table file with the snapshot: temp file, fsync, rename.
// The header is always the current column contract.
func (s *Store) write(snap *snapshot) error {
	path := s.path(snap.table)
	tmp, err := os.CreateTemp(s.dir, "."+snap.table.File+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(snap.table.Columns); err != nil {
		return fail(fmt.Errorf("failed to write header: %w", err))
	}
	for _, row := range snap.rows {
		if err := w.Write(snap.table.Values(row)); err != nil {
			return fail(fmt.Errorf("failed to write row: %w", err))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail(fmt.Errorf("failed to flush %s: %w", snap.table.File, err))
	}
	if err := tmp.Chmod(fileMode); err != nil {
		return fail(fmt.Errorf("failed to set mode of temp file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("failed to sync temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", snap.table.File, err)
	}
	return nil
}

// upsert replaces the first row with the same id or appends a new one.
func (s *Store) upsert(t record.Table, row record.Row) error {
	snap, err := s.load(t)
	if err != nil {
		return err
	}
	found := false
	for i, r := range snap.rows {
		if r.ID() == row.ID() {
			snap.rows[i] = row
			found = true
			break
		}
	}
	if !found {
		snap.rows = append(snap.rows, row)
	}
	return s.write(snap)
}

// remove drops every row matching and rewrites the table only if something
// was removed.
func (s *Store) remove(t record.Table, match func(record.Row) bool) (int, error) {
	snap, err := s.load(t)
	if err != nil {
		return 0, err
	}
	kept := snap.rows[:0]
	for _, r := range snap.rows {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	removed := len(snap.rows) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	snap.rows = kept
	return removed, s.write(snap)
}

func (s *Store) appendRow(t record.Table, row record.Row) error {
	snap, err := s.load(t)
	if err != nil {
		return err
	}
	snap.rows = append(snap.rows, row)
	return s.write(snap)
}

func list[T any](s *Store, t record.Table, decode func(record.Row) (T, error)) ([]T, error) {
	snap, err := s.load(t)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(snap.rows))
	for _, r := range snap.rows {
		v, err := decode(r)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", t.File, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// get decodes only the first row carrying id, so a malformed sibling row
// does not hide a good one.
func get[T any](s *Store, t record.Table, id string, decode func(record.Row) (T, error)) (*T, error) {
	snap, err := s.load(t)
	if err != nil {
		return nil, err
	}
	for _, r := range snap.rows {
		if r.ID() != id {
			continue
		}
		v, err := decode(r)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", t.File, err)
		}
		return &v, nil
	}
	return nil, nil
}
