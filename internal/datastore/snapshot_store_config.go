package datastore

import "github.com/aleister1102/metawatch/internal/config"

// SnapshotStoreConfig holds configuration for SnapshotStore.
// SheetName is the group spreadsheet sheet holding the scraped rows.
type SnapshotStoreConfig struct {
	SnapshotPath    string
	OutputDir       string
	CompressionType string
	SheetName       string
	MaxSnapshotSize int64
}

// DefaultSnapshotStoreConfig returns default configuration
func DefaultSnapshotStoreConfig() SnapshotStoreConfig {
	return SnapshotStoreConfig{
		SnapshotPath:    config.DefaultStorageSnapshotPath,
		OutputDir:       config.DefaultStorageOutputDir,
		CompressionType: config.DefaultStorageParquetCompression,
		SheetName:       config.DefaultReporterSheetName,
		MaxSnapshotSize: 256 * 1024 * 1024,
	}
}
