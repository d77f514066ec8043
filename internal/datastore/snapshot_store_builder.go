package datastore

import (
	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/config"
	"github.com/rs/zerolog"
)

// SnapshotStoreBuilder provides a fluent interface for creating SnapshotStore
type SnapshotStoreBuilder struct {
	logger zerolog.Logger
	config SnapshotStoreConfig
}

// NewSnapshotStoreBuilder creates a new SnapshotStoreBuilder
func NewSnapshotStoreBuilder(logger zerolog.Logger) *SnapshotStoreBuilder {
	return &SnapshotStoreBuilder{
		logger: logger.With().Str("component", "SnapshotStore").Logger(),
		config: DefaultSnapshotStoreConfig(),
	}
}

// WithStorageConfig applies the storage section of the global configuration
func (b *SnapshotStoreBuilder) WithStorageConfig(cfg config.StorageConfig) *SnapshotStoreBuilder {
	b.config.SnapshotPath = cfg.SnapshotPath
	b.config.OutputDir = cfg.OutputDir
	if cfg.ParquetCompression != "" {
		b.config.CompressionType = cfg.ParquetCompression
	}
	return b
}

// WithSheetName sets the group spreadsheet sheet to load rows from
func (b *SnapshotStoreBuilder) WithSheetName(name string) *SnapshotStoreBuilder {
	b.config.SheetName = name
	return b
}

// WithConfig replaces the whole store configuration
func (b *SnapshotStoreBuilder) WithConfig(cfg SnapshotStoreConfig) *SnapshotStoreBuilder {
	b.config = cfg
	return b
}

// Build creates a new SnapshotStore instance
func (b *SnapshotStoreBuilder) Build() (*SnapshotStore, error) {
	if b.config.SnapshotPath == "" {
		return nil, common.NewValidationError("snapshot_path", b.config.SnapshotPath, "snapshot path cannot be empty")
	}
	if b.config.SheetName == "" {
		return nil, common.NewValidationError("sheet_name", b.config.SheetName, "sheet name cannot be empty")
	}
	if b.config.OutputDir == "" {
		b.config.OutputDir = "."
	}

	return &SnapshotStore{
		config:      b.config,
		logger:      b.logger,
		fileManager: common.NewFileManager(b.logger),
	}, nil
}
