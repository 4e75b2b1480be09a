package sheets

import (
	"context"
	"fmt"
	"slices"
)

// fakeSheets is an in-memory spreadsheet. Like the real API it drops
// trailing blank cells when rows are read.
type fakeSheets struct {
	sheets  map[string][][]string
	order   []string
	added   map[string][2]int
	deleted []int
	err     error
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{sheets: map[string][][]string{}, added: map[string][2]int{}}
}

func (f *fakeSheets) SheetTitles(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.order), nil
}

func (f *fakeSheets) AddSheet(_ context.Context, title string, rows, cols int) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.sheets[title]; ok {
		return fmt.Errorf("sheet %q exists", title)
	}
	f.sheets[title] = nil
	f.order = append(f.order, title)
	f.added[title] = [2]int{rows, cols}
	return nil
}

func (f *fakeSheets) Rows(_ context.Context, title string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]string, 0, len(f.sheets[title]))
	for _, row := range f.sheets[title] {
		end := len(row)
		for end > 0 && row[end-1] == "" {
			end--
		}
		out = append(out, slices.Clone(row[:end]))
	}
	return out, nil
}

func (f *fakeSheets) UpdateRow(_ context.Context, title string, row int, values []string) error {
	if f.err != nil {
		return f.err
	}
	rows := f.sheets[title]
	for len(rows) < row {
		rows = append(rows, nil)
	}
	rows[row-1] = slices.Clone(values)
	f.sheets[title] = rows
	return nil
}

func (f *fakeSheets) UpdateRows(ctx context.Context, title string, row int, values [][]string) error {
	for i, v := range values {
		if err := f.UpdateRow(ctx, title, row+i, v); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSheets) AppendRow(_ context.Context, title string, values []string) error {
	if f.err != nil {
		return f.err
	}
	f.sheets[title] = append(f.sheets[title], slices.Clone(values))
	return nil
}

func (f *fakeSheets) DeleteRow(_ context.Context, title string, row int) error {
	if f.err != nil {
		return f.err
	}
	rows := f.sheets[title]
	if row < 1 || row > len(rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	f.sheets[title] = slices.Delete(rows, row-1, row)
	f.deleted = append(f.deleted, row)
	return nil
}

// set replaces a sheet's content wholesale.
func (f *fakeSheets) set(title string, rows ...[]string) {
	if _, ok := f.sheets[title]; !ok {
		f.order = append(f.order, title)
	}
	f.sheets[title] = rows
}
