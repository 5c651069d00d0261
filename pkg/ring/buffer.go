package ring

import "errors"

// ErrBufferFull is returned by Push when every slot is occupied.
var ErrBufferFull = errors.New("buffer full")

// Buffer is a bounded FIFO queue over a fixed set of slots.
// It is not safe for concurrent use, see Locked.
type Buffer[T any] struct {
	slots []T
	head  int // next slot to pop
	tail  int // next slot to fill
	count int
}

// New creates a Buffer holding at most capacity values.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Buffer[T]{slots: make([]T, capacity)}
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.slots)
}

// Len returns the number of values currently stored.
func (b *Buffer[T]) Len() int {
	return b.count
}

// IsEmpty indicates no value is stored.
func (b *Buffer[T]) IsEmpty() bool {
	return b.count == 0
}

// IsFull indicates all slots are occupied.
func (b *Buffer[T]) IsFull() bool {
	return b.count == len(b.slots)
}

// Push appends v at the tail. If the buffer is full, it returns
// ErrBufferFull and the buffer is left untouched.
func (b *Buffer[T]) Push(v T) error {
	if b.count == len(b.slots) {
		return ErrBufferFull
	}
	b.slots[b.tail] = v
	b.tail = b.advance(b.tail)
	b.count++
	return nil
}

// Pop removes and returns the value at the head.
// It returns false if the buffer is empty.
func (b *Buffer[T]) Pop() (v T, ok bool) {
	if b.count == 0 {
		return
	}
	var zero T
	v, b.slots[b.head] = b.slots[b.head], zero
	b.head = b.advance(b.head)
	b.count--
	return v, true
}

// Reset drops all stored values.
func (b *Buffer[T]) Reset() {
	var zero T
	for i := range b.slots {
		b.slots[i] = zero
	}
	b.head, b.tail, b.count = 0, 0, 0
}

func (b *Buffer[T]) advance(i int) int {
	if i++; i == len(b.slots) {
		return 0
	}
	return i
}
