package ring

import "sync"

// Locked guards a Buffer with a single mutex so that a producer and a
// consumer may run on different goroutines.
type Locked[T any] struct {
	buf  *Buffer[T]
	lock sync.Mutex
}

// NewLocked creates a Locked buffer with the given capacity.
func NewLocked[T any](capacity int) *Locked[T] {
	return &Locked[T]{buf: New[T](capacity)}
}

// Cap returns the fixed capacity.
func (l *Locked[T]) Cap() int {
	return l.buf.Cap()
}

// Len returns the number of values currently stored.
func (l *Locked[T]) Len() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.buf.Len()
}

// IsEmpty indicates no value is stored.
func (l *Locked[T]) IsEmpty() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.buf.IsEmpty()
}

// IsFull indicates all slots are occupied.
func (l *Locked[T]) IsFull() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.buf.IsFull()
}

// Push implements Buffer.Push.
func (l *Locked[T]) Push(v T) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.buf.Push(v)
}

// Pop implements Buffer.Pop.
func (l *Locked[T]) Pop() (T, bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.buf.Pop()
}

// Reset implements Buffer.Reset.
func (l *Locked[T]) Reset() {
	l.lock.Lock()
	l.buf.Reset()
	l.lock.Unlock()
}
