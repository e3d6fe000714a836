package server

import "sync"

// BufferPool hands out fixed-size read buffers
type BufferPool struct {
	size int
	pool sync.Pool
}

// NewBufferPool creates a pool of buffers of exactly size bytes
func NewBufferPool(size int) *BufferPool {
	p := &BufferPool{size: size}
	p.pool.New = func() interface{} {
		buf := make([]byte, size)
		return &buf
	}
	return p
}

// Size returns the length of every buffer in the pool
func (p *BufferPool) Size() int {
	return p.size
}

// Get returns a buffer of Size bytes. Its contents are not cleared.
func (p *BufferPool) Get() []byte {
	buf := p.pool.Get().(*[]byte)
	return (*buf)[:p.size]
}

// Put returns a buffer to the pool
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) != p.size {
		// Not one of ours, let GC handle it
		return
	}
	buf = buf[:p.size]
	p.pool.Put(&buf)
}
