package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet every new workbook starts with.
const defaultSheet = "Sheet1"

// ErrSheetNotFound is returned when a workbook lacks the requested sheet.
var ErrSheetNotFound = fmt.Errorf("sheet not found: %w", common.ErrMalformedFile)

// Cell is a single value plus whether it should be highlighted.
type Cell struct {
	Value     interface{}
	Highlight bool
}

// Sheet is one worksheet: a header row followed by data rows.
type Sheet struct {
	Name        string
	Headers     []string
	Rows        [][]Cell
	ColumnWidth float64
}

// WriterConfig configures workbook styling.
type WriterConfig struct {
	// HighlightColor is an RGB or ARGB hex colour, with or without a leading '#'.
	HighlightColor string
	BoldHeaders    bool
}

// Writer encodes sheets into .xlsx workbooks.
type Writer struct {
	cfg         WriterConfig
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewWriter creates a workbook writer.
func NewWriter(cfg WriterConfig, logger zerolog.Logger) *Writer {
	componentLogger := logger.With().Str("component", "SpreadsheetWriter").Logger()
	return &Writer{
		cfg:         cfg,
		fileManager: common.NewFileManager(componentLogger),
		logger:      componentLogger,
	}
}

// Write builds a workbook from sheets, in order, and replaces the file at path.
func (w *Writer) Write(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return common.NewValidationError("sheets", 0, "at least one sheet is required")
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	styles, err := w.createStyles(f)
	if err != nil {
		return err
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return common.WrapError(err, "failed to rename sheet "+sheet.Name)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return common.WrapError(err, "failed to create sheet "+sheet.Name)
		}

		if err := w.writeSheet(f, sheet, styles); err != nil {
			return common.WrapErrorf(err, "failed to write sheet %s", sheet.Name)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return common.WrapError(err, "failed to encode workbook")
	}
	if err := w.fileManager.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}

	w.logger.Debug().Str("path", path).Int("sheets", len(sheets)).Msg("Workbook written")
	return nil
}

type sheetStyles struct {
	header    int
	highlight int
}

func (w *Writer) createStyles(f *excelize.File) (sheetStyles, error) {
	var styles sheetStyles

	highlight, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{NormalizeColor(w.cfg.HighlightColor)},
		},
	})
	if err != nil {
		return styles, common.WrapError(err, "failed to create highlight style")
	}
	styles.highlight = highlight

	if w.cfg.BoldHeaders {
		header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return styles, common.WrapError(err, "failed to create header style")
		}
		styles.header = header
	}
	return styles, nil
}

func (w *Writer) writeSheet(f *excelize.File, sheet Sheet, styles sheetStyles) error {
	if len(sheet.Headers) > 0 {
		header := make([]interface{}, len(sheet.Headers))
		for i, h := range sheet.Headers {
			header[i] = h
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return err
		}
		if styles.header != 0 {
			last, err := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet.Name, "A1", last, styles.header); err != nil {
				return err
			}
		}
	}

	for r, row := range sheet.Rows {
		for c, cell := range row {
			// Header occupies row 1.
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			value := cell.Value
			if text, ok := value.(string); ok {
				if cut, truncated := TruncateCellText(text); truncated {
					w.logger.Warn().
						Str("sheet", sheet.Name).
						Str("cell", name).
						Int("length", len(text)).
						Msg("Cell value exceeds the workbook limit, truncated")
					value = cut
				}
			}
			if err := f.SetCellValue(sheet.Name, name, value); err != nil {
				return err
			}
			if cell.Highlight {
				if err := f.SetCellStyle(sheet.Name, name, name, styles.highlight); err != nil {
					return err
				}
			}
		}
	}

	if sheet.ColumnWidth > 0 {
		cols := columnCount(sheet)
		if cols > 0 {
			lastCol, err := excelize.ColumnNumberToName(cols)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheet.Name, "A", lastCol, sheet.ColumnWidth); err != nil {
				return err
			}
		}
	}
	return nil
}

// TruncateCellText cuts s to the cell limit of excelize.TotalCellChars UTF-16 units,
// reporting whether anything was removed.
func TruncateCellText(s string) (string, bool) {
	units := 0
	for i, r := range s {
		if units += utf16.RuneLen(r); units > excelize.TotalCellChars {
			return s[:i], true
		}
	}
	return s, false
}

func columnCount(sheet Sheet) int {
	n := len(sheet.Headers)
	for _, row := range sheet.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// ReadSheet returns every row of the named sheet as strings, header row included.
func ReadSheet(path, sheetName string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.WrapError(errors.Join(common.ErrMalformedFile, err), "failed to open workbook "+path)
	}
	defer func() { _ = f.Close() }()

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, common.WrapError(err, "failed to look up sheet "+sheetName)
	}
	if idx < 0 {
		return nil, common.WrapErrorf(ErrSheetNotFound, "%s in %s", sheetName, path)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, common.WrapError(errors.Join(common.ErrMalformedFile, err), "failed to read sheet "+sheetName)
	}
	return rows, nil
}

// NormalizeColor converts "#FFFF00" or the ARGB form "FFFFFF00" to the RGB hex excelize expects.
func NormalizeColor(color string) string {
	c := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	return c
}
