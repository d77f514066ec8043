package models

import "sort"

// FieldChange records one field whose trimmed value differs from the previous run.
type FieldChange struct {
	Field      string `json:"field"`
	Label      string `json:"label"`
	OldValue   string `json:"old_value"`
	NewValue   string `json:"new_value"`
	InlineDiff string `json:"inline_diff,omitempty"`
}

// ChangeMask is the set of changed fields for one row, keyed by field key.
// A nil mask means nothing changed.
type ChangeMask map[string]FieldChange

// Has reports whether the field changed.
func (m ChangeMask) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Len returns the number of changed fields.
func (m ChangeMask) Len() int {
	return len(m)
}

// Changes returns the recorded changes in schema column order.
func (m ChangeMask) Changes() []FieldChange {
	out := make([]FieldChange, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return SchemaIndex(out[i].Field) < SchemaIndex(out[j].Field)
	})
	return out
}

// RowStatus classifies a row against the baseline.
type RowStatus string

const (
	// RowStatusNew marks a row with no matching baseline record.
	RowStatusNew RowStatus = "new"
	// RowStatusChanged marks a matched row with at least one changed field.
	RowStatusChanged RowStatus = "changed"
	// RowStatusUnchanged marks a matched row identical to its baseline record.
	RowStatusUnchanged RowStatus = "unchanged"
)

// RowDiff is a scraped record with its change mask, the model both renderers consume.
type RowDiff struct {
	Record  PageMetadata
	Changes ChangeMask
	Matched bool
}

// Status classifies the row.
func (r RowDiff) Status() RowStatus {
	switch {
	case !r.Matched:
		return RowStatusNew
	case r.Changes.Len() > 0:
		return RowStatusChanged
	default:
		return RowStatusUnchanged
	}
}

// DiffResult is the outcome of comparing one group's records against its baseline.
type DiffResult struct {
	Rows           []RowDiff `json:"rows"`
	NewCount       int       `json:"new_count"`
	ChangedCount   int       `json:"changed_count"`
	UnchangedCount int       `json:"unchanged_count"`
	// MissingURLs lists baseline URLs absent from the current run.
	MissingURLs []string `json:"missing_urls,omitempty"`
}

// HasChanges reports whether any row changed or appeared, or any page went missing.
func (d *DiffResult) HasChanges() bool {
	return d.NewCount > 0 || d.ChangedCount > 0 || len(d.MissingURLs) > 0
}
