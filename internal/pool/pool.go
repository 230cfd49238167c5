// Package pool wraps sync.Pool with a typed API.
// The engine reuses token buffers through it and the request logger reuses
// its records and format buffers.
package pool

import (
	"bytes"
	"sync"
)

// Pool is a generic, type-safe object pool
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // called on Get, before handing the object out
}

// NewPool creates a pool with the given factory function
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return factory() },
		},
	}
}

// NewPoolWithReset creates a pool with a reset function called before reuse
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool. nil is ignored.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// maxBufferCap: larger buffers are dropped instead of pooled.
const maxBufferCap = 64 << 10

var buffers = NewPoolWithReset(
	func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 256)) },
	func(b *bytes.Buffer) { b.Reset() },
)

// GetBuffer returns an empty buffer
func GetBuffer() *bytes.Buffer {
	return buffers.Get()
}

// PutBuffer returns buf to the shared buffer pool
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxBufferCap {
		return
	}
	buffers.Put(buf)
}
