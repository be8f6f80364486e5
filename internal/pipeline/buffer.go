// Package pipeline re-blocks sample streams so that processors which want
// fixed-size blocks can be fed from callers that deliver arbitrary lengths.
package pipeline

import (
	"sync"

	"github.com/tphakala/go-audio-widener/internal/simdops"
)

// RingBuffer is a growable circular sample queue. It is safe for one writer
// and one reader on different goroutines.
type RingBuffer[F simdops.Float] struct {
	data     []F
	size     int
	readPos  int
	writePos int
	mu       sync.Mutex
}

// NewRingBuffer creates a ring buffer holding at least capacity samples.
func NewRingBuffer[F simdops.Float](capacity int) *RingBuffer[F] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[F]{data: make([]F, capacity)}
}

// Write appends samples, growing the buffer if they do not fit.
func (b *RingBuffer[F]) Write(samples []F) {
	if len(samples) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size+len(samples) > len(b.data) {
		b.grow(b.size + len(samples))
	}

	// At most two copies: up to the end of storage, then from the start.
	n := copy(b.data[b.writePos:], samples)
	if n < len(samples) {
		copy(b.data, samples[n:])
	}
	b.writePos = (b.writePos + len(samples)) % len(b.data)
	b.size += len(samples)
}

// Read moves up to len(dst) samples into dst and returns how many it moved.
func (b *RingBuffer[F]) Read(dst []F) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.peek(dst)
	b.readPos = (b.readPos + n) % len(b.data)
	b.size -= n
	if b.size == 0 {
		b.readPos, b.writePos = 0, 0
	}
	return n
}

// Peek copies up to len(dst) samples into dst without consuming them.
func (b *RingBuffer[F]) Peek(dst []F) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.peek(dst)
}

func (b *RingBuffer[F]) peek(dst []F) int {
	n := min(len(dst), b.size)
	if n == 0 {
		return 0
	}
	first := copy(dst[:n], b.data[b.readPos:])
	if first < n {
		copy(dst[first:n], b.data)
	}
	return n
}

// Available returns the number of samples ready to read.
func (b *RingBuffer[F]) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Space returns how many samples fit before the buffer grows.
func (b *RingBuffer[F]) Space() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) - b.size
}

// Capacity returns the current storage size.
func (b *RingBuffer[F]) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Clear drops all buffered samples.
func (b *RingBuffer[F]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.size, b.readPos, b.writePos = 0, 0, 0
}

// grow doubles capacity until minCapacity fits, unwrapping the contents.
func (b *RingBuffer[F]) grow(minCapacity int) {
	newCapacity := len(b.data)
	for newCapacity < minCapacity {
		newCapacity *= bufferGrowthFactor
	}

	newData := make([]F, newCapacity)
	b.peek(newData)

	b.data = newData
	b.readPos = 0
	b.writePos = b.size % newCapacity
}
