package sheetsync

import (
	"context"
	"fmt"
)

// Column counts that identify a Sales sheet generation. The original layout
// predates discount tracking; the Actual Amount and Discount columns were
// added in one migration.
const (
	legacySalesColumns  = 6
	currentSalesColumns = 8
)

// MigrationResult reports what the legacy migration did.
type MigrationResult struct {
	AlreadyMigrated bool `json:"alreadyMigrated"`
	MigratedRows    int  `json:"migratedRows,omitempty"`
}

// MigrateLegacySales upgrades a pre-discount Sales sheet in place. The
// generation is detected by header column count alone: exactly 6 columns is
// the old format and gets Actual Amount (defaulting to the old total) and
// Discount (defaulting to 0) spliced in at columns E and F, rewriting every
// row; 8 or more columns is already migrated and a no-op; anything else is
// rejected as unrecognized rather than guessed at.
func (s *Syncer) MigrateLegacySales(ctx context.Context, spreadsheetID string) (MigrationResult, error) {
	readRange := fmt.Sprintf("%s!A1:Z", SalesSheet)
	rows, err := s.backend.Get(ctx, spreadsheetID, readRange)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("read sales sheet: %w", err)
	}
	if len(rows) == 0 {
		return MigrationResult{}, fmt.Errorf("%w: sheet is empty", ErrUnrecognizedFormat)
	}

	width := len(rows[0])
	if width >= currentSalesColumns {
		return MigrationResult{AlreadyMigrated: true}, nil
	}
	if width != legacySalesColumns {
		return MigrationResult{}, fmt.Errorf("%w: %d columns", ErrUnrecognizedFormat, width)
	}

	migrated := make([][]interface{}, 0, len(rows))
	migrated = append(migrated, []interface{}{
		"ID", "Date", "Items", "Total", "Actual Amount", "Discount", "Payment Method", "Hookup",
	})

	for _, row := range rows[1:] {
		// Old layout: ID, Date, Items, Total, Payment Method, Hookup.
		total := cellString(row, 3)
		migrated = append(migrated, []interface{}{
			cellString(row, 0),
			cellString(row, 1),
			cellString(row, 2),
			total,
			total, // actual amount defaults to the pre-discount total
			"0",
			cellString(row, 4),
			cellString(row, 5),
		})
	}

	clearRange := fmt.Sprintf("%s!A1:Z", SalesSheet)
	if err := s.backend.Clear(ctx, spreadsheetID, clearRange); err != nil {
		return MigrationResult{}, fmt.Errorf("clear sales sheet: %w", err)
	}

	writeRange := fmt.Sprintf("%s!A1", SalesSheet)
	if err := s.backend.Update(ctx, spreadsheetID, writeRange, migrated); err != nil {
		return MigrationResult{}, fmt.Errorf("rewrite sales sheet: %w", err)
	}

	if err := s.backend.BoldHeaderRow(ctx, spreadsheetID, SalesSheet, 1); err != nil {
		return MigrationResult{}, fmt.Errorf("format header: %w", err)
	}

	return MigrationResult{MigratedRows: len(migrated) - 1}, nil
}
