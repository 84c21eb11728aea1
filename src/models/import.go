// backend/src/models/import.go
package models

import "strings"

// ImportRow is one spreadsheet data row keyed by its header cell. Parsers keep blank
// sheet rows as empty ImportRows so a row's slice index matches its position in the sheet.
type ImportRow map[string]string

// NewImportRow keys the trimmed, non-empty cells by their header.
func NewImportRow(header, cells []string) ImportRow {
	row := make(ImportRow, len(header))
	for i, key := range header {
		if key == "" || i >= len(cells) {
			continue
		}
		if v := strings.TrimSpace(cells[i]); v != "" {
			row[key] = v
		}
	}
	return row
}

// IsBlank reports whether the row has no values at all.
func (r ImportRow) IsBlank() bool { return len(r) == 0 }

// TrimTrailingBlank drops blank rows after the last row with data.
func TrimTrailingBlank(rows []ImportRow) []ImportRow {
	end := len(rows)
	for end > 0 && rows[end-1].IsBlank() {
		end--
	}
	if end == 0 {
		return nil
	}
	return rows[:end]
}

// Row outcome statuses.
const (
	OutcomeImported = "imported"
	OutcomeUpdated  = "updated"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Skip reasons.
const (
	SkipInvalidCardNumber      = "invalid_card_number"
	SkipEmptyCodeAndName       = "empty_code_and_name"
	SkipConflictNotOverwritten = "conflict_not_overwritten"
)

// RowOutcome is the per-row result of an import run. Row is the 1-based data row index
// in the sheet (the header row is not counted, blank rows are).
type RowOutcome struct {
	Row      int    `json:"row"`
	Identity string `json:"identity,omitempty"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
}

// PendingItem is a mapped record waiting for persistence.
type PendingItem struct {
	Row        int    `json:"row"`
	Record     Record `json:"record"`
	Identifier string `json:"identifier"`
}

// Conflict pairs a persisted record with an incoming one sharing its identity.
type Conflict struct {
	Kind     Kind   `json:"kind"`
	Existing Record `json:"existing"`
	New      Record `json:"new"`
}

// ImportResult is the tally reported after an import run. Skipped rows never count
// toward SuccessCount or ErrorCount.
type ImportResult struct {
	Kind         Kind         `json:"kind"`
	SuccessCount int          `json:"successCount"`
	ErrorCount   int          `json:"errorCount"`
	SkippedCount int          `json:"skippedCount"`
	Outcomes     []RowOutcome `json:"outcomes"`
}
