// Package bufpool provides size-classed byte slice pools so the frame
// reader can reuse frame bodies across connections instead of allocating one
// per packet.
package bufpool

import "sync"

// DefaultSize is the size of the third (large) pool tier; the huge tier
// above it holds 128 KiB buffers.
const DefaultSize = 64 * 1024

// Pool is a sync.Pool of fixed-capacity byte slices.
type Pool struct {
	pool sync.Pool
}

// NewPool creates a pool whose slices have the given capacity.
func NewPool(size int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]byte, size)
				return &buf
			},
		},
	}
}

// Get returns a buffer from the pool. Its capacity is the pool's size; a
// fresh buffer also has that length, a recycled one keeps the length it was
// Put back with.
func (p *Pool) Get() []byte {
	bufPtr := p.pool.Get().(*[]byte)
	return *bufPtr
}

// Put returns a buffer to the pool after zeroing it, since frame bodies may
// carry key material (shared secrets, verify tokens) that should not linger
// in a reused buffer.
func (p *Pool) Put(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	p.pool.Put(&buf)
}

var (
	smallPool  = NewPool(4 * 1024)
	mediumPool = NewPool(16 * 1024)
	largePool  = NewPool(DefaultSize)
	hugePool   = NewPool(128 * 1024)
)

// Get returns a buffer of at least size bytes from the appropriately sized
// tier, sliced down to exactly size.
func Get(size int) []byte {
	switch {
	case size <= 4*1024:
		return smallPool.Get()[:size]
	case size <= 16*1024:
		return mediumPool.Get()[:size]
	case size <= 64*1024:
		return largePool.Get()[:size]
	case size <= 128*1024:
		return hugePool.Get()[:size]
	default:
		return make([]byte, size)
	}
}

// Put returns buf to the tier matching its length. Buffers too large for any
// tier (oversized frame bodies) are simply dropped rather than pooled.
func Put(buf []byte) {
	sz := len(buf)
	switch {
	case sz <= 4*1024:
		smallPool.Put(buf[:sz])
	case sz <= 16*1024:
		mediumPool.Put(buf[:sz])
	case sz <= 64*1024:
		largePool.Put(buf[:sz])
	case sz <= 128*1024:
		hugePool.Put(buf[:sz])
	}
}
