// Package sheets keeps each entity kind in its own sheet of a Google
// Sheets spreadsheet. Reads fetch the whole sheet; writes touch single rows.
// Uploads go to a shared Google Drive folder.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/photostore"
	"github.com/azzam2912/xseon-real/internal/photostore/drive"
	"github.com/azzam2912/xseon-real/internal/record"
)

const (
	spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
	newSheetRows        = 100
)

type Config struct {
	SpreadsheetName    string
	SpreadsheetID      string
	ServiceAccountFile string
	ServiceAccountInfo string
	DriveFolderName    string
}

type Store struct {
	api    sheetAPI
	sink   photostore.Sink
	logger *slog.Logger
}

// New authenticates, opens the spreadsheet (by id, else by name through
// Drive) and makes sure every sheet exists with the expected header.
// Configuration problems are reported here rather than on first use.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.SpreadsheetID == "" && cfg.SpreadsheetName == "" {
		return nil, fmt.Errorf("%w: SPREADSHEET_NAME or SPREADSHEET_ID must be set", domain.ErrBackendUnavailable)
	}
	creds, err := loadCredentials(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	driveSvc, err := gdrive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create drive client: %w", domain.ErrBackendUnavailable, err)
	}
	sheetsSvc, err := gsheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create sheets client: %w", domain.ErrBackendUnavailable, err)
	}

	id := cfg.SpreadsheetID
	if id == "" {
		id, err = drive.FindByName(ctx, driveSvc, cfg.SpreadsheetName, spreadsheetMimeType)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to look up spreadsheet %q: %w", domain.ErrBackendUnavailable, cfg.SpreadsheetName, err)
		}
		if id == "" {
			return nil, fmt.Errorf("%w: spreadsheet %q not found or not shared with the service account", domain.ErrBackendUnavailable, cfg.SpreadsheetName)
		}
	}

	return newStore(ctx, newGoogleSheets(sheetsSvc, id), drive.New(driveSvc, cfg.DriveFolderName), logger)
}

func newStore(ctx context.Context, api sheetAPI, sink photostore.Sink, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{api: api, sink: sink, logger: logger}

	titles, err := api.SheetTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list sheets: %w", domain.ErrBackendUnavailable, err)
	}
	for _, t := range record.All {
		if err := s.ensureSheet(ctx, t, slices.Contains(titles, t.Sheet)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ensureSheet creates a missing sheet. When row 1 differs from the expected
// header, the header is rewritten and the data rows are moved into the new
// column order by their old column names, in a single write.
func (s *Store) ensureSheet(ctx context.Context, t record.Table, exists bool) error {
	if !exists {
		if err := s.api.AddSheet(ctx, t.Sheet, newSheetRows, len(t.Columns)); err != nil {
			return fmt.Errorf("%w: failed to create sheet %s: %w", domain.ErrBackendUnavailable, t.Sheet, err)
		}
		s.logger.Info("created sheet", "sheet", t.Sheet)
	}
	rows, err := s.api.Rows(ctx, t.Sheet)
	if err != nil {
		return fmt.Errorf("%w: failed to read sheet %s: %w", domain.ErrBackendUnavailable, t.Sheet, err)
	}
	if len(rows) > 0 && t.HeaderMatches(rows[0]) {
		return nil
	}
	var old []string
	if len(rows) > 0 {
		old = rows[0]
	}
	block := [][]string{padded(t.Columns, len(old))}
	if len(rows) > 1 && !blank(old) {
		block = append(block, remapRows(t, old, rows[1:])...)
	}
	if err := s.api.UpdateRows(ctx, t.Sheet, 1, block); err != nil {
		return fmt.Errorf("%w: failed to write header of %s: %w", domain.ErrBackendUnavailable, t.Sheet, err)
	}
	if exists {
		s.logger.Warn("corrected sheet header", "sheet", t.Sheet, "old_header", old, "rows_moved", len(block)-1)
	}
	return nil
}

// remapRows lays data rows read under header out in t's column order.
// Columns absent from t are dropped.
func remapRows(t record.Table, header []string, rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, values := range rows {
		width := max(len(values), len(header))
		if blank(values) {
			out[i] = padded(nil, width)
			continue
		}
		out[i] = padded(t.Values(record.RowFrom(header, values)), width)
	}
	return out
}

// padded extends values with blanks to at least width cells, so an overwrite
// clears whatever stood to the right of the new values.
func padded(values []string, width int) []string {
	if len(values) >= width {
		return values
	}
	out := make([]string, width)
	copy(out, values)
	return out
}

// sheetRow is a data row and its 1-based row number in the sheet.
type sheetRow struct {
	num int
	record.Row
}

// rows returns the data rows of a sheet keyed by its own header. Blank rows
// are skipped.
func (s *Store) rows(ctx context.Context, t record.Table) ([]sheetRow, error) {
	raw, err := s.api.Rows(ctx, t.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %w", domain.ErrBackendUnavailable, t.Sheet, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]sheetRow, 0, len(raw)-1)
	for i, values := range raw[1:] {
		if blank(values) {
			continue
		}
		out = append(out, sheetRow{num: i + 2, Row: record.RowFrom(raw[0], values)})
	}
	return out, nil
}

func blank(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

func (s *Store) upsert(ctx context.Context, t record.Table, row record.Row) error {
	rows, err := s.rows(ctx, t)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if r.ID() == row.ID() {
			if err := s.api.UpdateRow(ctx, t.Sheet, r.num, t.Values(row)); err != nil {
				return fmt.Errorf("%w: failed to update %s row %d: %w", domain.ErrBackendUnavailable, t.Sheet, r.num, err)
			}
			return nil
		}
	}
	return s.appendRow(ctx, t, row)
}

func (s *Store) appendRow(ctx context.Context, t record.Table, row record.Row) error {
	if err := s.api.AppendRow(ctx, t.Sheet, t.Values(row)); err != nil {
		return fmt.Errorf("%w: failed to append to %s: %w", domain.ErrBackendUnavailable, t.Sheet, err)
	}
	return nil
}

// remove deletes every matching row, highest row number first, so earlier
// deletions never shift the rows still to be deleted.
func (s *Store) remove(ctx context.Context, t record.Table, match func(record.Row) bool) (int, error) {
	rows, err := s.rows(ctx, t)
	if err != nil {
		return 0, err
	}
	var targets []int
	for _, r := range rows {
		if match(r.Row) {
			targets = append(targets, r.num)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(targets)))
	for n, row := range targets {
		if err := s.api.DeleteRow(ctx, t.Sheet, row); err != nil {
			return n, fmt.Errorf("%w: failed to delete %s row %d: %w", domain.ErrBackendUnavailable, t.Sheet, row, err)
		}
	}
	return len(targets), nil
}

func list[T any](ctx context.Context, s *Store, t record.Table, decode func(record.Row) (T, error)) ([]T, error) {
	rows, err := s.rows(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := decode(r.Row)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sheet %s row %d: %w", t.Sheet, r.num, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func get[T any](ctx context.Context, s *Store, t record.Table, id string, decode func(record.Row) (T, error)) (*T, error) {
	rows, err := s.rows(ctx, t)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.ID() != id {
			continue
		}
		v, err := decode(r.Row)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sheet %s row %d: %w", t.Sheet, r.num, err)
		}
		return &v, nil
	}
	return nil, nil
}

func byID(id string) func(record.Row) bool {
	return func(r record.Row) bool { return r.ID() == id }
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
	_, err := s.remove(ctx, record.Objects, byID(id))
	return err
}

func (s *Store) DeleteObjectsByPlace(ctx context.Context, placeID string) (int, error) {
	return s.remove(ctx, record.Objects, func(r record.Row) bool { return r["place_id"] == placeID })
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
	_, err := s.remove(ctx, record.Places, byID(id))
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
	_, err := s.remove(ctx, record.Tags, byID(id))
	return err
}

func (s *Store) ListLogs(ctx context.Context) ([]domain.LogEntry, error) {
	return list(ctx, s, record.Logs, record.DecodeLog)
}

func (s *Store) AddLog(ctx context.Context, e domain.LogEntry) error {
	return s.appendRow(ctx, record.Logs, record.EncodeLog(e))
}

func (s *Store) ListAudit(ctx context.Context) ([]domain.AuditEntry, error) {
	return list(ctx, s, record.Audit, record.DecodeAudit)
}

func (s *Store) AddAudit(ctx context.Context, e domain.AuditEntry) error {
	return s.appendRow(ctx, record.Audit, record.EncodeAudit(e))
}

func (s *Store) UploadFileBytes(ctx context.Context, kind domain.Kind, entityID, filename, mimeType string, data []byte) (string, error) {
	return s.sink.Upload(ctx, kind, entityID, filename, mimeType, data)
}

func (s *Store) Close() error { return nil }
