package datastore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/config"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/aleister1102/metawatch/internal/spreadsheet"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, snapshotName string) *SnapshotStore {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewDefaultStorageConfig()
	cfg.SnapshotPath = filepath.Join(dir, "data", snapshotName)
	cfg.OutputDir = dir

	store, err := NewSnapshotStoreBuilder(zerolog.Nop()).WithStorageConfig(cfg).Build()
	require.NoError(t, err)
	return store
}

func sampleRecords() []models.PageMetadata {
	return []models.PageMetadata{
		{URL: "https://a.test/1", Title: "One", Robots: "index, follow", IsIndexable: true, Schema: "WebPage, Organization"},
		{URL: "https://a.test/2", Title: "Two", Robots: "NOINDEX", ImageWidth: "1200"},
	}
}

func TestSnapshotStoreBuilder_Validation(t *testing.T) {
	_, err := NewSnapshotStoreBuilder(zerolog.Nop()).WithConfig(SnapshotStoreConfig{SheetName: "x"}).Build()
	var vErr *common.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "snapshot_path", vErr.Field)

	_, err = NewSnapshotStoreBuilder(zerolog.Nop()).WithConfig(SnapshotStoreConfig{SnapshotPath: "a.json"}).Build()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "sheet_name", vErr.Field)
}

func TestSnapshotStore_GenericRoundTripJSON(t *testing.T) {
	store := newTestStore(t, "last_run.json")

	assert.Empty(t, store.LoadGeneric())
	require.NoError(t, store.SaveGeneric(sampleRecords()))

	loaded := store.LoadGeneric()
	assert.Equal(t, sampleRecords(), loaded)

	raw, err := os.ReadFile(store.SnapshotPath())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"isIndexable": true`)
}

func TestSnapshotStore_GenericRoundTripParquet(t *testing.T) {
	store := newTestStore(t, "last_run.parquet")

	require.NoError(t, store.SaveGeneric(sampleRecords()))
	assert.Equal(t, sampleRecords(), store.LoadGeneric())
}

func TestSnapshotStore_SaveGenericOverwrites(t *testing.T) {
	store := newTestStore(t, "last_run.json")

	require.NoError(t, store.SaveGeneric(sampleRecords()))
	require.NoError(t, store.SaveGeneric(sampleRecords()[:1]))
	assert.Len(t, store.LoadGeneric(), 1)
}

func TestSnapshotStore_LoadGenericMalformed(t *testing.T) {
	store := newTestStore(t, "last_run.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(store.SnapshotPath()), 0755))
	require.NoError(t, os.WriteFile(store.SnapshotPath(), []byte("{not json"), 0644))

	loaded := store.LoadGeneric()
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestSnapshotStore_LoadGenericRecomputesIndexable(t *testing.T) {
	store := newTestStore(t, "last_run.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(store.SnapshotPath()), 0755))
	body := `[{"url":"https://a.test/","robots":"noindex","isIndexable":true},{"url":"https://a.test/b"}]`
	require.NoError(t, os.WriteFile(store.SnapshotPath(), []byte(body), 0644))

	loaded := store.LoadGeneric()
	require.Len(t, loaded, 2)
	assert.False(t, loaded[0].IsIndexable)
	assert.True(t, loaded[1].IsIndexable)
}

func writeGroupFile(t *testing.T, path string, sheetName string, records []models.PageMetadata) {
	t.Helper()
	rows := make([][]spreadsheet.Cell, 0, len(records))
	for _, rec := range records {
		cells := make([]spreadsheet.Cell, 0, len(models.PageMetadataSchema))
		for _, f := range models.PageMetadataSchema {
			cells = append(cells, spreadsheet.Cell{Value: rec.Value(f.Key)})
		}
		rows = append(rows, cells)
	}
	w := spreadsheet.NewWriter(spreadsheet.WriterConfig{HighlightColor: "FFFF00"}, zerolog.Nop())
	require.NoError(t, w.Write(path, spreadsheet.Sheet{Name: sheetName, Headers: models.SchemaLabels(), Rows: rows}))
}

func TestSnapshotStore_LoadGroup(t *testing.T) {
	store := newTestStore(t, "last_run.json")
	path := store.GroupFilePath("a.test", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	writeGroupFile(t, path, config.DefaultReporterSheetName, sampleRecords())

	loaded := store.LoadGroup(path)
	require.Len(t, loaded, 2)
	assert.Equal(t, sampleRecords()[0], loaded[0])
	assert.Equal(t, "1200", loaded[1].ImageWidth)
	assert.False(t, loaded[1].IsIndexable)
}

func TestSnapshotStore_LoadGroupMissingFile(t *testing.T) {
	store := newTestStore(t, "last_run.json")
	loaded := store.LoadGroup(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestSnapshotStore_LoadGroupWrongSheet(t *testing.T) {
	store := newTestStore(t, "last_run.json")
	path := filepath.Join(t.TempDir(), "group.xlsx")
	writeGroupFile(t, path, "Other", sampleRecords())

	assert.Empty(t, store.LoadGroup(path))
}

func TestRecordsFromRows(t *testing.T) {
	rows := [][]string{
		{"Url", "Title", "Extra", "Robots"},
		{"https://a.test/1", "One", "ignored", "noindex"},
		{"", "no url"},
		{"https://a.test/2"},
	}

	records := recordsFromRows(rows, zerolog.Nop())
	require.Len(t, records, 2)
	assert.Equal(t, "One", records[0].Title)
	assert.False(t, records[0].IsIndexable)
	assert.True(t, records[1].IsIndexable)
	assert.Empty(t, recordsFromRows(nil, zerolog.Nop()))
}

func TestSnapshotStore_LatestGroupFile(t *testing.T) {
	store := newTestStore(t, "last_run.json")
	dir := store.config.OutputDir
	for _, name := range []string{
		"ScrapedData_a_test_2024-03-01.xlsx",
		"ScrapedData_a_test_2024-03-04.xlsx",
		"ScrapedData_a_test_2024-03-05.xlsx",
		"ScrapedData_b_test_2024-03-04.xlsx",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	now := time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)
	path, ok := store.LatestGroupFile("a.test", now)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "ScrapedData_a_test_2024-03-04.xlsx"), path)

	_, ok = store.LatestGroupFile("c.test", now)
	assert.False(t, ok)

	_, ok = store.LatestGroupFile("a.test", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestSnapshotStore_GroupFilePath(t *testing.T) {
	store := newTestStore(t, "last_run.json")
	path := store.GroupFilePath("www.a-b.test", time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, filepath.Join(store.config.OutputDir, "ScrapedData_www_a_b_test_2024-03-05.xlsx"), path)
}
