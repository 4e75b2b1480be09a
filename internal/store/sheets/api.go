package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/sheets/v4"
)

// sheetAPI is the slice of the Sheets API the store needs. Row numbers are
// 1-based and count the header row.
type sheetAPI interface {
	SheetTitles(ctx context.Context) ([]string, error)
	AddSheet(ctx context.Context, title string, rows, cols int) error
	// Rows returns every non-empty row of the sheet, header included.
	// Trailing blank cells may be omitted.
	Rows(ctx context.Context, title string) ([][]string, error)
	UpdateRow(ctx context.Context, title string, row int, values []string) error
	// UpdateRows overwrites consecutive rows starting at row in one request.
	UpdateRows(ctx context.Context, title string, row int, values [][]string) error
	AppendRow(ctx context.Context, title string, values []string) error
	DeleteRow(ctx context.Context, title string, row int) error
}

// googleSheets talks to one spreadsheet. Values are written RAW so ids such
// as 01234 are not reinterpreted as numbers.
type googleSheets struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

func newGoogleSheets(svc *sheets.Service, spreadsheetID string) *googleSheets {
	return &googleSheets{svc: svc, spreadsheetID: spreadsheetID}
}

func (g *googleSheets) SheetTitles(ctx context.Context) ([]string, error) {
	if err := g.loadSheetIDs(ctx); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	titles := make([]string, 0, len(g.sheetIDs))
	for title := range g.sheetIDs {
		titles = append(titles, title)
	}
	return titles, nil
}

func (g *googleSheets) AddSheet(ctx context.Context, title string, rows, cols int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	resp, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sheetIDs != nil && len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
		g.sheetIDs[title] = resp.Replies[0].AddSheet.Properties.SheetId
	}
	return nil
}

func (g *googleSheets) Rows(ctx context.Context, title string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, quoteTitle(title)).
		MajorDimension("ROWS").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out, nil
}

func (g *googleSheets) UpdateRow(ctx context.Context, title string, row int, values []string) error {
	return g.UpdateRows(ctx, title, row, [][]string{values})
}

func (g *googleSheets) UpdateRows(ctx context.Context, title string, row int, values [][]string) error {
	rng := fmt.Sprintf("%s!A%d", quoteTitle(title), row)
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, valueRange(values...)).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (g *googleSheets) AppendRow(ctx context.Context, title string, values []string) error {
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, quoteTitle(title)+"!A1", valueRange(values)).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

func (g *googleSheets) DeleteRow(ctx context.Context, title string, row int) error {
	if err := g.loadSheetIDs(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	sheetID, ok := g.sheetIDs[title]
	g.mu.Unlock()
	if !ok {
		return fmt.Errorf("sheet %q not found", title)
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(row - 1),
					EndIndex:        int64(row),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return err
}

// loadSheetIDs fetches the title to sheet id map once.
func (g *googleSheets) loadSheetIDs(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sheetIDs != nil {
		return nil
	}
	ss, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return err
	}
	ids := make(map[string]int64, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	g.sheetIDs = ids
	return nil
}

func valueRange(rows ...[]string) *sheets.ValueRange {
	out := make([][]interface{}, len(rows))
	for i, values := range rows {
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		out[i] = row
	}
	return &sheets.ValueRange{Values: out}
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
