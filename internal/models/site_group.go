package models

import "time"

// SiteGroup is the set of sitemap URLs sharing one hostname.
type SiteGroup struct {
	Hostname    string
	SitemapURLs []string
}

// PageFailure records a page that could not be scraped.
type PageFailure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// GroupStatus is the terminal state of a group run.
type GroupStatus string

const (
	GroupStatusCompleted GroupStatus = "completed"
	GroupStatusSkipped   GroupStatus = "skipped"
	GroupStatusFailed    GroupStatus = "failed"
)

// GroupResult summarizes the processing of one site group.
type GroupResult struct {
	Hostname     string
	SitemapURLs  []string
	OutputPath   string
	PagesScraped int
	Failures     []PageFailure
	NewRows      int
	ChangedRows  int
	MissingURLs  []string
	Status       GroupStatus
	Error        error
	Duration     time.Duration
}

// Failed reports whether the group ended in failure.
func (g GroupResult) Failed() bool {
	return g.Status == GroupStatusFailed
}
