package reporter

import (
	"errors"

	"github.com/aleister1102/metawatch/internal/models"
)

// ErrEmptyTable is returned when a renderer is handed a table without rows.
var ErrEmptyTable = errors.New("report table has no rows")

// TableCell is one rendered value. Value keeps the raw typed field value.
type TableCell struct {
	Key     string
	Value   interface{}
	Changed bool
}

// TableRow is one scraped page.
type TableRow struct {
	URL    string
	Status models.RowStatus
	Cells  []TableCell
}

// ChangeEntry is one changed field of one page.
type ChangeEntry struct {
	URL string
	models.FieldChange
}

// Table is the in-memory model shared by the spreadsheet and HTML renderers.
type Table struct {
	Headers []string
	Rows    []TableRow
	Changes []ChangeEntry
}

// NewTable builds a table from diffed rows, keeping their order.
func NewTable(rows []models.RowDiff) *Table {
	t := &Table{
		Headers: models.SchemaLabels(),
		Rows:    make([]TableRow, 0, len(rows)),
	}

	for _, rd := range rows {
		row := TableRow{
			URL:    rd.Record.URL,
			Status: rd.Status(),
			Cells:  make([]TableCell, 0, len(models.PageMetadataSchema)),
		}
		for _, f := range models.PageMetadataSchema {
			row.Cells = append(row.Cells, TableCell{
				Key:     f.Key,
				Value:   rd.Record.Value(f.Key),
				Changed: rd.Changes.Has(f.Key),
			})
		}
		t.Rows = append(t.Rows, row)

		for _, c := range rd.Changes.Changes() {
			t.Changes = append(t.Changes, ChangeEntry{URL: rd.Record.URL, FieldChange: c})
		}
	}
	return t
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

// ChangedCells counts highlighted cells.
func (t *Table) ChangedCells() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, r := range t.Rows {
		for _, c := range r.Cells {
			if c.Changed {
				n++
			}
		}
	}
	return n
}
