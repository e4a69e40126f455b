// Package buffer provides the bounded FIFO ring gateway workers use to hold
// payloads that failed to publish.
package buffer

// Ring is a fixed-capacity FIFO buffer with oldest-entry eviction.
//
// Pushing into a full ring evicts the oldest element to admit the new one,
// so the ring never exceeds its capacity and the newest entries are always
// preserved. A Ring is not synchronized; each gateway worker exclusively
// owns its own.
type Ring[T any] struct {
	items []T
	head  int
	size  int
}

// New creates a ring with the given capacity. Capacity must be positive;
// New panics otherwise since a zero-capacity buffer cannot hold a retry.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("buffer: capacity must be positive")
	}

	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends v at the tail. When the ring is full the oldest element is
// evicted first and returned with evicted=true.
func (r *Ring[T]) Push(v T) (old T, evicted bool) {
	if r.size == len(r.items) {
		old = r.items[r.head]
		r.items[r.head] = v
		r.head = r.next(r.head)

		return old, true
	}

	r.items[(r.head+r.size)%len(r.items)] = v
	r.size++

	return old, false
}

// Peek returns the oldest element without removing it.
func (r *Ring[T]) Peek() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	return r.items[r.head], true
}

// PopFront removes and returns the oldest element.
func (r *Ring[T]) PopFront() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	v := r.items[r.head]
	r.items[r.head] = zero
	r.head = r.next(r.head)
	r.size--

	return v, true
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// Items returns a copy of the buffered elements in FIFO order.
func (r *Ring[T]) Items() []T {
	out := make([]T, 0, r.size)
	for i := range r.size {
		out = append(out, r.items[(r.head+i)%len(r.items)])
	}

	return out
}

func (r *Ring[T]) next(i int) int {
	return (i + 1) % len(r.items)
}
