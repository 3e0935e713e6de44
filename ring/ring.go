// Package ring implements a lock-free single-producer/single-consumer
// FIFO used by streaming audio sources to decouple a producer goroutine
// from a real-time consumer callback.
package ring

import "sync/atomic"

// cacheLinePad keeps the write and read index on separate cache lines
// so the producer and consumer never false-share.
type cacheLinePad [64 - 8]byte

// Buffer is a fixed-capacity SPSC ring of float32 samples. One slot is
// sacrificed to disambiguate full from empty. Exactly one goroutine may
// call the Push side and exactly one goroutine may call the Pop side;
// concurrent use from more than one producer or more than one consumer
// is undefined.
type Buffer struct {
	buf  []float32
	mask uint64 // len(buf)-1, buf length is a power of two

	writeIdx atomic.Uint64
	_        cacheLinePad
	readIdx  atomic.Uint64
	_        cacheLinePad
}

// New creates a ring whose backing array is capacity rounded up to the
// next power of two (at least 2), so index wrapping can use a mask
// instead of a modulo. Usable capacity is one less than that array
// size: capacity-1 when capacity is already a power of two.
func New(capacity int) *Buffer {
	if capacity < 2 {
		capacity = 2
	}
	size := nextPowerOfTwo(capacity)
	return &Buffer{
		buf:  make([]float32, size),
		mask: uint64(size - 1),
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Capacity returns the usable capacity (one less than the backing
// array size).
func (b *Buffer) Capacity() int {
	return len(b.buf) - 1
}

// Size returns the number of samples currently queued. Safe to call
// from either side.
func (b *Buffer) Size() int {
	w := b.writeIdx.Load()
	r := b.readIdx.Load()
	return int(w - r)
}

// TryPush appends one sample. Returns false if the ring is full.
func (b *Buffer) TryPush(v float32) bool {
	w := b.writeIdx.Load()
	r := b.readIdx.Load()
	if w-r >= uint64(len(b.buf)-1) {
		return false
	}
	b.buf[w&b.mask] = v
	b.writeIdx.Store(w + 1)
	return true
}

// TryPop removes one sample into *v. Returns false if the ring is
// empty.
func (b *Buffer) TryPop(v *float32) bool {
	r := b.readIdx.Load()
	w := b.writeIdx.Load()
	if r == w {
		return false
	}
	*v = b.buf[r&b.mask]
	b.readIdx.Store(r + 1)
	return true
}

// PushN copies as many samples from src as fit and returns the count
// actually transferred. Partial success is normal and PushN never
// blocks; the samples past the returned count are not queued.
func (b *Buffer) PushN(src []float32) int {
	n := 0
	for n < len(src) && b.TryPush(src[n]) {
		n++
	}
	return n
}

// PopN fills dst with as many queued samples as are available and
// returns the count actually transferred. The caller zero-fills the
// remainder and accounts it as an underrun.
func (b *Buffer) PopN(dst []float32) int {
	n := 0
	for n < len(dst) && b.TryPop(&dst[n]) {
		n++
	}
	return n
}
