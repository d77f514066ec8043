package common

import (
	"bytes"
	"sync"
)

// BufferPool recycles byte buffers for response bodies and rendered reports.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a pool whose fresh buffers start with initialCapacity bytes.
func NewBufferPool(initialCapacity int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, initialCapacity))
			},
		},
	}
}

// Get retrieves an empty buffer from the pool
func (bp *BufferPool) Get() *bytes.Buffer {
	return bp.pool.Get().(*bytes.Buffer)
}

// Put resets buf and returns it to the pool. Callers must not keep references to its bytes.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	bp.pool.Put(buf)
}

// DefaultBufferPool holds 64KB buffers, enough for a typical report page.
var DefaultBufferPool = NewBufferPool(64 * 1024)
