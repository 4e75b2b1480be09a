package sheets

import "context"

// NewInMemory returns a store backed by an in-memory spreadsheet.
func NewInMemory(ctx context.Context) (*Store, error) {
	return newStore(ctx, newFakeSheets(), &stubSink{}, nil)
}
