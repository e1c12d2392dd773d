package alert

// DefaultCapacity is the number of alerts retained when no capacity is configured.
const DefaultCapacity = 5

// Ring is a fixed-capacity FIFO backed by a slice. Pushing into a full ring
// evicts the oldest element. It is not safe for concurrent use.
type Ring[T any] struct {
	data  []T
	head  int // index of the oldest element
	count int
}

// NewRing creates a ring with the given capacity.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// Push appends v and returns the evicted element, if any.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	size := len(r.data)
	if r.count < size {
		r.data[(r.head+r.count)%size] = v
		r.count++
		return evicted, false
	}
	evicted = r.data[r.head]
	r.data[r.head] = v
	r.head = (r.head + 1) % size
	return evicted, true
}

// Items returns the elements ordered oldest to newest.
func (r *Ring[T]) Items() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.data[(r.head+i)%len(r.data)]
	}
	return out
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.data) }
