package reporter

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	mdtable "github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/config"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/aleister1102/metawatch/internal/spreadsheet"
	"github.com/rs/zerolog"
)

//go:embed templates/report.html.tmpl
var defaultTemplate embed.FS

// Summary is the digest rendered above the table.
type Summary struct {
	Hostname      string
	Intro         string
	PagesScraped  int
	NewRows       int
	ChangedRows   int
	UnchangedRows int
	Failures      []models.PageFailure
	MissingURLs   []string
	GeneratedAt   time.Time
}

// NewSummary derives a summary from a diff result.
func NewSummary(hostname, intro string, diff *models.DiffResult, failures []models.PageFailure) Summary {
	s := Summary{
		Hostname: hostname,
		Intro:    intro,
		Failures: failures,
	}
	if diff != nil {
		s.PagesScraped = len(diff.Rows)
		s.NewRows = diff.NewCount
		s.ChangedRows = diff.ChangedCount
		s.UnchangedRows = diff.UnchangedCount
		s.MissingURLs = diff.MissingURLs
	}
	return s
}

// Text returns the summary as a single line for chat channels.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d pages scraped, %d new, %d changed, %d unchanged",
		s.Hostname, s.PagesScraped, s.NewRows, s.ChangedRows, s.UnchangedRows)
	if len(s.Failures) > 0 {
		fmt.Fprintf(&b, ", %d failed", len(s.Failures))
	}
	if len(s.MissingURLs) > 0 {
		fmt.Fprintf(&b, ", %d missing", len(s.MissingURLs))
	}
	return b.String()
}

type htmlPageData struct {
	Summary        Summary
	Headers        []string
	Rows           []TableRow
	HighlightStyle template.CSS
}

// HTMLReporter renders a report table as an HTML email body.
type HTMLReporter struct {
	cfg       config.ReporterConfig
	logger    zerolog.Logger
	template  *template.Template
	converter *converter.Converter
}

// NewHTMLReporter creates an HTML reporter from the embedded template.
func NewHTMLReporter(cfg config.ReporterConfig, appLogger zerolog.Logger) (*HTMLReporter, error) {
	r := &HTMLReporter{
		cfg:    cfg,
		logger: appLogger.With().Str("module", "HtmlReporter").Logger(),
		converter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				mdtable.NewTablePlugin(),
			),
		),
	}

	if err := r.setupTemplate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *HTMLReporter) setupTemplate() error {
	content, err := defaultTemplate.ReadFile(reportTemplatePath)
	if err != nil {
		return common.WrapError(err, "failed to load embedded report template")
	}

	cleaned := strings.ReplaceAll(string(content), "\r\n", "\n")
	tmpl, err := template.New(reportTemplateName).Funcs(r.templateFunctions()).Parse(cleaned)
	if err != nil {
		return common.WrapError(err, "failed to parse embedded report template")
	}

	r.template = tmpl
	return nil
}

func (r *HTMLReporter) templateFunctions() template.FuncMap {
	return template.FuncMap{
		"formatValue": r.formatValue,
		"formatTime": func(t time.Time) string {
			return t.Format(r.cfg.DateLayout)
		},
	}
}

// formatValue renders dates with the configured layout and nil as the empty string.
func (r *HTMLReporter) formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return models.FormatTimeOptional(val, r.cfg.DateLayout)
	case *time.Time:
		if val == nil {
			return ""
		}
		return models.FormatTimeOptional(*val, r.cfg.DateLayout)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// Render returns the HTML body: the summary followed by the table with changed cells highlighted.
func (r *HTMLReporter) Render(table *Table, summary Summary) (string, error) {
	if table.IsEmpty() {
		return "", ErrEmptyTable
	}

	data := htmlPageData{
		Summary: summary,
		Headers: table.Headers,
		Rows:    table.Rows,
		HighlightStyle: template.CSS(fmt.Sprintf("background-color: #%s;",
			spreadsheet.NormalizeColor(r.cfg.HighlightColor))),
	}

	buf := common.DefaultBufferPool.Get()
	defer common.DefaultBufferPool.Put(buf)
	if err := r.template.Execute(buf, data); err != nil {
		r.logger.Error().Err(err).Str("hostname", summary.Hostname).Msg("Failed to execute report template")
		return "", common.WrapError(err, "failed to render html report")
	}
	return buf.String(), nil
}

// PlainText converts a rendered HTML body to Markdown for the text/plain alternative.
func (r *HTMLReporter) PlainText(html string) (string, error) {
	md, err := r.converter.ConvertString(html)
	if err != nil {
		return "", common.WrapError(err, "failed to convert html report to text")
	}
	return md, nil
}
