package batchprocessor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BatchProcessorConfig holds configuration for bounded concurrent processing
type BatchProcessorConfig struct {
	MaxConcurrency int // Max items processed at once (default: 10)
}

// DefaultBatchProcessorConfig returns default configuration
func DefaultBatchProcessorConfig() BatchProcessorConfig {
	return BatchProcessorConfig{
		MaxConcurrency: 10,
	}
}

// ItemResult holds the outcome of processing one input item
type ItemResult[T any] struct {
	Index    int
	Item     string
	Value    T
	Error    error
	Duration time.Duration
}

// ProcessFunc processes a single item
type ProcessFunc[T any] func(ctx context.Context, item string) (T, error)

// BatchProcessor runs a function over a list of items with bounded concurrency.
// One item failing never cancels the others.
type BatchProcessor struct {
	config BatchProcessorConfig
	logger zerolog.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(config BatchProcessorConfig, logger zerolog.Logger) *BatchProcessor {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = DefaultBatchProcessorConfig().MaxConcurrency
	}
	return &BatchProcessor{
		config: config,
		logger: logger.With().Str("component", "BatchProcessor").Logger(),
	}
}

// MaxConcurrency returns the effective concurrency limit
func (bp *BatchProcessor) MaxConcurrency() int {
	return bp.config.MaxConcurrency
}

// Process runs fn for every item and waits for all of them to settle.
// Results are returned in input order. Items not started because ctx was
// cancelled carry ctx.Err().
func Process[T any](ctx context.Context, bp *BatchProcessor, items []string, fn ProcessFunc[T]) []ItemResult[T] {
	results := make([]ItemResult[T], len(items))
	semaphore := make(chan struct{}, bp.config.MaxConcurrency)
	var wg sync.WaitGroup

	start := time.Now()
	for i, item := range items {
		results[i] = ItemResult[T]{Index: i, Item: item}

		select {
		case <-ctx.Done():
			results[i].Error = ctx.Err()
			continue
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(index int, value string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			itemStart := time.Now()
			v, err := fn(ctx, value)
			// each goroutine writes only its own slot
			results[index].Value = v
			results[index].Error = err
			results[index].Duration = time.Since(itemStart)
		}(i, item)
	}

	wg.Wait()

	bp.logger.Debug().
		Int("items", len(items)).
		Int("max_concurrency", bp.config.MaxConcurrency).
		Dur("duration", time.Since(start)).
		Msg("Batch processing completed")

	return results
}
