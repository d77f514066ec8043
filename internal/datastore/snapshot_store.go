package datastore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/aleister1102/metawatch/internal/spreadsheet"
	"github.com/aleister1102/metawatch/internal/urlhandler"
	"github.com/rs/zerolog"
)

const parquetExt = ".parquet"

// SnapshotStore loads and persists last-known page metadata.
type SnapshotStore struct {
	config      SnapshotStoreConfig
	logger      zerolog.Logger
	fileManager *common.FileManager
}

// NewSnapshotStore creates a SnapshotStore using builder pattern
func NewSnapshotStore(cfg SnapshotStoreConfig, logger zerolog.Logger) (*SnapshotStore, error) {
	return NewSnapshotStoreBuilder(logger).WithConfig(cfg).Build()
}

// SnapshotPath returns the generic last-run file path.
func (s *SnapshotStore) SnapshotPath() string {
	return s.config.SnapshotPath
}

// GroupFilePath returns the dated spreadsheet path for a host under the output directory.
func (s *SnapshotStore) GroupFilePath(hostname string, date time.Time) string {
	return filepath.Join(s.config.OutputDir, urlhandler.GroupFileName(hostname, date))
}

func (s *SnapshotStore) isParquet() bool {
	return strings.EqualFold(filepath.Ext(s.config.SnapshotPath), parquetExt)
}

// LoadGeneric reads the shared last-run snapshot. A missing or unreadable file yields an empty slice.
func (s *SnapshotStore) LoadGeneric() []models.PageMetadata {
	path := s.config.SnapshotPath
	if !s.fileManager.FileExists(path) {
		s.logger.Info().Str("path", path).Msg("No previous snapshot found")
		return []models.PageMetadata{}
	}

	var (
		records []models.PageMetadata
		err     error
	)
	if s.isParquet() {
		records, err = decodeParquet(path)
	} else {
		records, err = s.decodeJSON(path)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to read previous snapshot, treating as empty")
		return []models.PageMetadata{}
	}

	for i := range records {
		records[i].RefreshIndexable()
	}
	s.logger.Debug().Str("path", path).Int("records", len(records)).Msg("Loaded previous snapshot")
	return records
}

func (s *SnapshotStore) decodeJSON(path string) ([]models.PageMetadata, error) {
	data, err := s.fileManager.ReadFile(path, s.config.MaxSnapshotSize)
	if err != nil {
		return nil, err
	}

	var records []models.PageMetadata
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, common.WrapError(err, "failed to parse snapshot json")
	}
	if records == nil {
		records = []models.PageMetadata{}
	}
	return records, nil
}

// SaveGeneric replaces the shared last-run snapshot with records.
func (s *SnapshotStore) SaveGeneric(records []models.PageMetadata) error {
	if records == nil {
		records = []models.PageMetadata{}
	}

	var (
		data []byte
		err  error
	)
	if s.isParquet() {
		data, err = encodeParquet(records, s.config.CompressionType, s.logger)
	} else {
		data, err = json.MarshalIndent(records, "", "  ")
	}
	if err != nil {
		return common.WrapError(err, "failed to encode snapshot")
	}

	if err := s.fileManager.WriteFileAtomic(s.config.SnapshotPath, data); err != nil {
		return common.WrapError(err, "failed to save snapshot")
	}

	s.logger.Info().Str("path", s.config.SnapshotPath).Int("records", len(records)).Msg("Snapshot saved")
	return nil
}

// LoadGroup reads the scraped rows of a group spreadsheet. An absent file yields an empty
// slice silently; an unreadable file or missing sheet is logged and yields an empty slice.
func (s *SnapshotStore) LoadGroup(path string) []models.PageMetadata {
	if !s.fileManager.FileExists(path) {
		return []models.PageMetadata{}
	}

	rows, err := spreadsheet.ReadSheet(path, s.config.SheetName)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Malformed group spreadsheet, treating as empty")
		return []models.PageMetadata{}
	}

	records := recordsFromRows(rows, s.logger.With().Str("path", path).Logger())
	s.logger.Debug().Str("path", path).Int("records", len(records)).Msg("Loaded group spreadsheet")
	return records
}

// recordsFromRows maps a header row plus data rows onto PageMetadata by schema label.
// Unknown columns are ignored; rows without a url are skipped.
func recordsFromRows(rows [][]string, logger zerolog.Logger) []models.PageMetadata {
	records := []models.PageMetadata{}
	if len(rows) == 0 {
		return records
	}

	keys := make([]string, len(rows[0]))
	hasIndexable := false
	for i, label := range rows[0] {
		if f, ok := models.FieldByLabel(label); ok {
			keys[i] = f.Key
			if f.Key == models.FieldIsIndexable {
				hasIndexable = true
			}
		}
	}

	for n, row := range rows[1:] {
		var rec models.PageMetadata
		for i, value := range row {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			if err := rec.SetField(keys[i], value); err != nil {
				logger.Debug().Err(err).Int("row", n+2).Msg("Ignoring unreadable cell")
			}
		}
		if strings.TrimSpace(rec.URL) == "" {
			continue
		}
		if !hasIndexable || indexableCellEmpty(row, keys) {
			rec.RefreshIndexable()
		}
		records = append(records, rec)
	}
	return records
}

func indexableCellEmpty(row []string, keys []string) bool {
	for i, k := range keys {
		if k == models.FieldIsIndexable {
			return i >= len(row) || strings.TrimSpace(row[i]) == ""
		}
	}
	return true
}

// LatestGroupFile returns the newest group spreadsheet for hostname dated strictly before
// the UTC day of before.
func (s *SnapshotStore) LatestGroupFile(hostname string, before time.Time) (string, bool) {
	entries, err := os.ReadDir(s.config.OutputDir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("dir", s.config.OutputDir).Msg("Failed to list output directory")
		}
		return "", false
	}

	cutoff := before.UTC().Truncate(24 * time.Hour)
	var (
		latestName string
		latestDate time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := urlhandler.ParseGroupFileDate(entry.Name(), hostname)
		if !ok || !date.Before(cutoff) {
			continue
		}
		if latestName == "" || date.After(latestDate) {
			latestName = entry.Name()
			latestDate = date
		}
	}

	if latestName == "" {
		return "", false
	}
	return filepath.Join(s.config.OutputDir, latestName), true
}
