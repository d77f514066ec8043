package urlhandler

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// GroupFilePrefix starts every per-group spreadsheet name
const GroupFilePrefix = "ScrapedData_"

// GroupFileExt is the extension of per-group spreadsheets
const GroupFileExt = ".xlsx"

const groupFileDateLayout = "2006-01-02"

var nonWordCharsRegex = regexp.MustCompile(`\W+`)

// NormalizeURL trims a URL and checks that it is an absolute http(s) URL with a host.
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errors.New("URL is empty or only whitespace")
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", trimmedURL, err)
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("URL '%s' must use http or https", trimmedURL)
	}

	if parsedURL.Hostname() == "" {
		return "", errors.New("URL lacks a valid hostname")
	}

	return trimmedURL, nil
}

// ExtractHostname returns the lower-cased hostname of a URL, without port.
func ExtractHostname(rawURL string) (string, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	parsedURL, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", normalized, err)
	}

	return strings.ToLower(parsedURL.Hostname()), nil
}

// ValidateURLFormat validates URL format (for config validation)
func ValidateURLFormat(rawURL string) error {
	if _, err := NormalizeURL(rawURL); err != nil {
		return fmt.Errorf("invalid URL format '%s': %w", strings.TrimSpace(rawURL), err)
	}
	return nil
}

// SanitizeHostname replaces every run of non-word characters with a single underscore,
// so "www.example.com" becomes "www_example_com".
func SanitizeHostname(hostname string) string {
	return nonWordCharsRegex.ReplaceAllString(hostname, "_")
}

// GroupFileName builds the dated spreadsheet name for a host: ScrapedData_<host>_<YYYY-MM-DD>.xlsx.
// The date is taken in UTC.
func GroupFileName(hostname string, date time.Time) string {
	return GroupFilePrefix + SanitizeHostname(hostname) + "_" + date.UTC().Format(groupFileDateLayout) + GroupFileExt
}

// ParseGroupFileDate extracts the date from a group file name produced by GroupFileName
// for the given host. ok is false when the name belongs to another host or is not a group file.
func ParseGroupFileDate(fileName, hostname string) (time.Time, bool) {
	prefix := GroupFilePrefix + SanitizeHostname(hostname) + "_"
	if !strings.HasPrefix(fileName, prefix) || !strings.HasSuffix(fileName, GroupFileExt) {
		return time.Time{}, false
	}

	datePart := strings.TrimSuffix(strings.TrimPrefix(fileName, prefix), GroupFileExt)
	date, err := time.Parse(groupFileDateLayout, datePart)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
