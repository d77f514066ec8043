package models

import "time"

// FormatTimeOptional formats t with layout, returning "" for the zero time.
func FormatTimeOptional(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
