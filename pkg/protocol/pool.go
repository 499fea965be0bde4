package protocol

import "sync"

// BufferPool is a LIFO stack of reusable buffers for the temporaries an
// encode needs (nested messages and packed fields).
type BufferPool struct {
	mu    sync.Mutex
	stack []*ByteBuffer
}

// NewBufferPool creates an empty pool.
func NewBufferPool() *BufferPool {
	return &BufferPool{}
}

// Get pops a buffer, or allocates one when the pool is empty.
// The buffer is always reset.
func (p *BufferPool) Get() *ByteBuffer {
	p.mu.Lock()
	n := len(p.stack)
	if n == 0 {
		p.mu.Unlock()
		return NewByteBuffer(DefaultBufferSize)
	}
	bb := p.stack[n-1]
	p.stack[n-1] = nil
	p.stack = p.stack[:n-1]
	p.mu.Unlock()
	bb.Reset()
	return bb
}

// Put resets bb and pushes it back onto the pool.
func (p *BufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	bb.Reset()
	p.mu.Lock()
	p.stack = append(p.stack, bb)
	p.mu.Unlock()
}

// With borrows a buffer for the duration of fn. The buffer goes back to
// the pool on every exit path, including a panic in fn.
func (p *BufferPool) With(fn func(bb *ByteBuffer) error) error {
	bb := p.Get()
	defer p.Put(bb)
	return fn(bb)
}

// Size returns the number of idle buffers.
func (p *BufferPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stack)
}
