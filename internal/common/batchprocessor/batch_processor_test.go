package batchprocessor

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchProcessor_DefaultsConcurrency(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{}, zerolog.Nop())
	assert.Equal(t, DefaultBatchProcessorConfig().MaxConcurrency, bp.MaxConcurrency())
}

func TestProcess_KeepsInputOrderAndIsolatesFailures(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{MaxConcurrency: 3}, zerolog.Nop())
	items := []string{"a", "fail", "c", "d"}

	results := Process(context.Background(), bp, items, func(ctx context.Context, item string) (string, error) {
		if item == "fail" {
			return "", errors.New("boom")
		}
		// Later items finish first.
		time.Sleep(time.Duration(10-len(item)) * time.Millisecond)
		return strings.ToUpper(item), nil
	})

	require.Len(t, results, 4)
	assert.Equal(t, "A", results[0].Value)
	assert.EqualError(t, results[1].Error, "boom")
	assert.Equal(t, "C", results[2].Value)
	assert.Equal(t, "D", results[3].Value)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, items[i], r.Item)
	}
}

func TestProcess_RespectsConcurrencyLimit(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{MaxConcurrency: 2}, zerolog.Nop())
	var inFlight, peak atomic.Int32

	items := make([]string, 10)
	Process(context.Background(), bp, items, func(ctx context.Context, item string) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int32(0), inFlight.Load())
}

func TestProcess_CancelledContext(t *testing.T) {
	bp := NewBatchProcessor(BatchProcessorConfig{MaxConcurrency: 1}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := Process(ctx, bp, []string{"a", "b"}, func(ctx context.Context, item string) (int, error) {
		calls.Add(1)
		return 1, nil
	})

	require.Len(t, results, 2)
	for _, r := range results {
		if r.Error != nil {
			assert.ErrorIs(t, r.Error, context.Canceled)
		}
	}
	assert.LessOrEqual(t, calls.Load(), int32(2))
}
