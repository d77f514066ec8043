package reporter

import (
	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/config"
	"github.com/aleister1102/metawatch/internal/spreadsheet"
	"github.com/rs/zerolog"
)

// SpreadsheetReporter writes a report table to an .xlsx workbook.
type SpreadsheetReporter struct {
	cfg    config.ReporterConfig
	writer *spreadsheet.Writer
	logger zerolog.Logger
}

// NewSpreadsheetReporter creates a spreadsheet reporter.
func NewSpreadsheetReporter(cfg config.ReporterConfig, appLogger zerolog.Logger) *SpreadsheetReporter {
	moduleLogger := appLogger.With().Str("module", "SpreadsheetReporter").Logger()
	return &SpreadsheetReporter{
		cfg: cfg,
		writer: spreadsheet.NewWriter(spreadsheet.WriterConfig{
			HighlightColor: cfg.HighlightColor,
			BoldHeaders:    cfg.BoldHeaders,
		}, moduleLogger),
		logger: moduleLogger,
	}
}

// Write replaces the workbook at path with the data sheet and, when enabled, the Changes sheet.
func (r *SpreadsheetReporter) Write(table *Table, path string) error {
	if table.IsEmpty() {
		return ErrEmptyTable
	}

	sheets := []spreadsheet.Sheet{r.dataSheet(table)}
	if r.cfg.IncludeChangesSheet {
		sheets = append(sheets, r.changesSheet(table))
	}

	if err := r.writer.Write(path, sheets...); err != nil {
		return common.WrapError(err, "failed to write spreadsheet report")
	}

	r.logger.Info().
		Str("path", path).
		Int("rows", len(table.Rows)).
		Int("changed_cells", table.ChangedCells()).
		Msg("Spreadsheet report written")
	return nil
}

func (r *SpreadsheetReporter) dataSheet(table *Table) spreadsheet.Sheet {
	rows := make([][]spreadsheet.Cell, 0, len(table.Rows))
	for _, tr := range table.Rows {
		cells := make([]spreadsheet.Cell, len(tr.Cells))
		for i, c := range tr.Cells {
			cells[i] = spreadsheet.Cell{Value: c.Value, Highlight: c.Changed}
		}
		rows = append(rows, cells)
	}
	return spreadsheet.Sheet{
		Name:        r.cfg.SheetName,
		Headers:     table.Headers,
		Rows:        rows,
		ColumnWidth: r.cfg.ColumnWidth,
	}
}

func (r *SpreadsheetReporter) changesSheet(table *Table) spreadsheet.Sheet {
	rows := make([][]spreadsheet.Cell, 0, len(table.Changes))
	for _, c := range table.Changes {
		rows = append(rows, []spreadsheet.Cell{
			{Value: c.URL},
			{Value: c.Label},
			{Value: c.OldValue},
			{Value: c.NewValue},
			{Value: c.InlineDiff},
		})
	}
	return spreadsheet.Sheet{
		Name:        ChangesSheetName,
		Headers:     ChangesHeaders,
		Rows:        rows,
		ColumnWidth: r.cfg.ColumnWidth,
	}
}
