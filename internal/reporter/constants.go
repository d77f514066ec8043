package reporter

const (
	// ChangesSheetName is the sheet listing per-field changes.
	ChangesSheetName = "Changes"

	reportTemplateName = "report.html.tmpl"
	reportTemplatePath = "templates/" + reportTemplateName
)

// ChangesHeaders are the columns of the Changes sheet.
var ChangesHeaders = []string{"Url", "Field", "Old Value", "New Value", "Diff"}
