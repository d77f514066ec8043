package config

// ReporterConfig defines spreadsheet and HTML rendering options
type ReporterConfig struct {
	BoldHeaders         bool    `json:"bold_headers" yaml:"bold_headers"`
	ColumnWidth         float64 `json:"column_width,omitempty" yaml:"column_width,omitempty" validate:"gt=0,lte=255"`
	DateLayout          string  `json:"date_layout,omitempty" yaml:"date_layout,omitempty" validate:"required"`
	HighlightColor      string  `json:"highlight_color,omitempty" yaml:"highlight_color,omitempty" validate:"required,hexcolor"`
	IncludeChangesSheet bool    `json:"include_changes_sheet" yaml:"include_changes_sheet"`
	SheetName           string  `json:"sheet_name,omitempty" yaml:"sheet_name,omitempty" validate:"required,max=31"`
}

// NewDefaultReporterConfig creates default reporter configuration
func NewDefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		BoldHeaders:         DefaultReporterBoldHeaders,
		ColumnWidth:         DefaultReporterColumnWidth,
		DateLayout:          DefaultReporterDateLayout,
		HighlightColor:      DefaultReporterHighlightColor,
		IncludeChangesSheet: true,
		SheetName:           DefaultReporterSheetName,
	}
}
