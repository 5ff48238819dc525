// package services defines the capabilities a vocabulary sync needs from the outside world
//
// Google Sheets (source and target), FreeDictionary (lookups)
package services

import (
	"context"

	"github.com/desertthunder/vocx/internal/models"
)

// RangeReader reads rectangular blocks of cells from a source spreadsheet.
type RangeReader interface {
	// ReadRange returns the cell values of r, row by row.
	// Trailing empty rows and cells may be omitted, so rows can be ragged.
	ReadRange(ctx context.Context, r models.CellRange) ([][]string, error)
}

// TargetStore is the editable store enriched records are written to.
//
// Positions and column indexes are 1-based. Row 1 holds the header.
type TargetStore interface {
	// ReadHeader returns the cells of row 1, or an empty slice when the store is empty.
	ReadHeader(ctx context.Context) ([]string, error)

	// ReadColumn returns every value in column col, header included.
	ReadColumn(ctx context.Context, col int) ([]string, error)

	// InsertRow inserts row at position, shifting following rows down.
	InsertRow(ctx context.Context, position int, row []string) error

	// AppendRow writes row after the last non-empty row.
	AppendRow(ctx context.Context, row []string) error

	// Clear removes every row.
	Clear(ctx context.Context) error
}

// Dictionary enriches a single word.
type Dictionary interface {
	// Lookup returns the record for word.
	// Errors wrap [shared.ErrWordNotFound] when the service has no usable entry and [shared.ErrAPIRequest] on transport failure.
	Lookup(ctx context.Context, word string) (*models.Record, error)
}
