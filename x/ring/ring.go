// Package ring provides a bounded FIFO that drops its oldest element when
// full. It is safe for one producer and one consumer on different goroutines.
package ring

import (
	"sync"
	"sync/atomic"
)

// Ring is a bounded FIFO of T with drop-oldest overflow.
type Ring[T any] struct {
	mu   sync.Mutex
	buf  []T
	head int // index of the oldest element
	n    int // number of held elements

	drops atomic.Uint32

	readable chan struct{} // coalesced empty->non-empty edge
}

// New allocates a ring holding at most size elements (size >= 1).
func New[T any](size int) *Ring[T] {
	if size < 1 {
		panic("ring: size must be >= 1")
	}
	return &Ring[T]{
		buf:      make([]T, size),
		readable: make(chan struct{}, 1),
	}
}

// Cap returns the capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Len returns the number of held elements.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	n := r.n
	r.mu.Unlock()
	return n
}

// Push appends v. When the ring is full the oldest element is discarded,
// the drop counter is incremented, and dropped is true. Push never blocks.
func (r *Ring[T]) Push(v T) (dropped bool) {
	r.mu.Lock()
	wasEmpty := r.n == 0
	size := len(r.buf)
	if r.n == size {
		var zero T
		r.buf[r.head] = zero
		r.head = (r.head + 1) % size
		r.n--
		dropped = true
	}
	r.buf[(r.head+r.n)%size] = v
	r.n++
	r.mu.Unlock()

	if dropped {
		r.drops.Add(1)
	}
	if wasEmpty {
		select {
		case r.readable <- struct{}{}:
		default:
		}
	}
	return dropped
}

// Drain appends every held element to dst in FIFO order, empties the ring
// and returns the extended slice.
func (r *Ring[T]) Drain(dst []T) []T {
	r.mu.Lock()
	size := len(r.buf)
	var zero T
	for i := 0; i < r.n; i++ {
		j := (r.head + i) % size
		dst = append(dst, r.buf[j])
		r.buf[j] = zero
	}
	r.head, r.n = 0, 0
	r.mu.Unlock()
	return dst
}

// Drops returns the number of elements discarded by overflow.
func (r *Ring[T]) Drops() uint32 { return r.drops.Load() }

// Readable fires (coalesced) when the ring goes from empty to non-empty.
func (r *Ring[T]) Readable() <-chan struct{} { return r.readable }
