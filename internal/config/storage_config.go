package config

// StorageConfig defines where snapshots and group spreadsheets live.
// A .parquet SnapshotPath selects parquet encoding, compressed with ParquetCompression.
type StorageConfig struct {
	SnapshotPath       string `json:"snapshot_path,omitempty" yaml:"snapshot_path,omitempty" validate:"required,snapshotext"`
	OutputDir          string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" validate:"required"`
	ParquetCompression string `json:"parquet_compression,omitempty" yaml:"parquet_compression,omitempty" validate:"omitempty,oneof=zstd snappy gzip none"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SnapshotPath:       DefaultStorageSnapshotPath,
		OutputDir:          DefaultStorageOutputDir,
		ParquetCompression: DefaultStorageParquetCompression,
	}
}
