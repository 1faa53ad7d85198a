// Package bufpool provides a tiered buffer pool for chunked streaming I/O.
//
// The pool hands out reusable byte slices for the read loop's chunk
// buffers, so repeated invocations (the interactive shell in particular)
// do not allocate a fresh buffer per file.
//
// Three size tiers balance memory efficiency with reuse:
//   - Small buffers (4KB): tiny configured chunk sizes
//   - Medium buffers (64KB): the default streaming chunk size
//   - Large buffers (1MB): bulk-transfer chunk sizes
//
// Requests larger than the large tier are allocated directly and not
// pooled, to avoid keeping very large buffers in memory indefinitely.
// All operations are safe for concurrent use via sync.Pool.
package bufpool

import (
	"sync"
)

// Buffer size classes.
const (
	SmallSize  = 4 << 10
	MediumSize = 64 << 10
	LargeSize  = 1 << 20
)

// Pool manages byte slice pools organized by size class.
type Pool struct {
	small  sync.Pool
	medium sync.Pool
	large  sync.Pool
}

// NewPool creates a new buffer pool.
func NewPool() *Pool {
	p := &Pool{}
	p.small = sync.Pool{
		New: func() any {
			buf := make([]byte, SmallSize)
			return &buf
		},
	}
	p.medium = sync.Pool{
		New: func() any {
			buf := make([]byte, MediumSize)
			return &buf
		},
	}
	p.large = sync.Pool{
		New: func() any {
			buf := make([]byte, LargeSize)
			return &buf
		},
	}
	return p
}

// Get returns a byte slice of exactly the requested length, backed by a
// pooled buffer whose capacity may be larger. The caller must return it
// with Put when finished.
func (p *Pool) Get(size int) []byte {
	var bufPtr *[]byte

	switch {
	case size <= SmallSize:
		bufPtr = p.small.Get().(*[]byte)
	case size <= MediumSize:
		bufPtr = p.medium.Get().(*[]byte)
	case size <= LargeSize:
		bufPtr = p.large.Get().(*[]byte)
	default:
		// Oversized requests are allocated directly and never pooled
		return make([]byte, size)
	}

	buf := *bufPtr
	return buf[:size]
}

// Put returns a buffer to the pool for reuse. Buffers not obtained from
// Get, and oversized buffers, are left for the garbage collector.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}

	switch cap(buf) {
	case SmallSize:
		fullBuf := buf[:cap(buf)]
		p.small.Put(&fullBuf)
	case MediumSize:
		fullBuf := buf[:cap(buf)]
		p.medium.Put(&fullBuf)
	case LargeSize:
		fullBuf := buf[:cap(buf)]
		p.large.Put(&fullBuf)
	}
}

// globalPool is the package-level pool shared across all users.
var globalPool = NewPool()

// Get returns a byte slice of the requested length from the global pool.
func Get(size int) []byte {
	return globalPool.Get(size)
}

// Put returns a buffer to the global pool. Pair with Get using defer.
func Put(buf []byte) {
	globalPool.Put(buf)
}
