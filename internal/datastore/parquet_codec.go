package datastore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aleister1102/metawatch/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// compressionOption maps a codec name to a parquet writer option.
func compressionOption(codec string, logger zerolog.Logger) parquet.WriterOption {
	switch strings.ToLower(codec) {
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "none", "uncompressed", "":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		logger.Warn().Str("codec", codec).Msg("Unsupported compression codec, defaulting to uncompressed")
		return parquet.Compression(&parquet.Uncompressed)
	}
}

// encodeParquet serializes records into an in-memory parquet file.
func encodeParquet(records []models.PageMetadata, codec string, logger zerolog.Logger) ([]byte, error) {
	var buf bytes.Buffer
	writer := parquet.NewWriter(&buf, parquet.SchemaOf(models.PageMetadata{}), compressionOption(codec, logger))

	for _, rec := range records {
		if err := writer.Write(rec); err != nil {
			return nil, fmt.Errorf("writing parquet record for %s: %w", rec.URL, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeParquet reads every record of a parquet snapshot file.
func decodeParquet(path string) ([]models.PageMetadata, error) {
	osFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer osFile.Close()

	stat, err := osFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat parquet file '%s': %w", path, err)
	}
	if stat.Size() == 0 {
		return []models.PageMetadata{}, nil
	}

	pqFile, err := parquet.OpenFile(osFile, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file '%s': %w", path, err)
	}

	reader := parquet.NewReader(pqFile)
	defer reader.Close()

	records := make([]models.PageMetadata, 0, pqFile.NumRows())
	for {
		var record models.PageMetadata
		if err := reader.Read(&record); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading record from parquet file '%s': %w", path, err)
		}
		records = append(records, record)
	}
	return records, nil
}
