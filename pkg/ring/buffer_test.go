package ring

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type snapshot struct {
	slots       []int
	head, tail  int
	count       int
	empty, full bool
}

func snapshotOf(b *Buffer[int]) snapshot {
	return snapshot{
		slots: append([]int(nil), b.slots...),
		head:  b.head,
		tail:  b.tail,
		count: b.count,
		empty: b.IsEmpty(),
		full:  b.IsFull(),
	}
}

func TestNew(t *testing.T) {
	b := New[int](4)
	require.Equal(t, 4, b.Cap())
	require.Equal(t, 0, b.Len())
	require.True(t, b.IsEmpty())
	require.False(t, b.IsFull())
	require.Equal(t, 0, b.head)
	require.Equal(t, 0, b.tail)

	require.Panics(t, func() { New[int](0) })
	require.Panics(t, func() { New[byte](-1) })
}

func TestCapacityFour(t *testing.T) {
	b := New[int](4)

	for _, v := range []int{10, 20, 30} {
		require.NoError(t, b.Push(v))
	}
	require.Equal(t, 3, b.Len())
	require.False(t, b.IsFull())

	require.NoError(t, b.Push(40))
	require.Equal(t, 4, b.Len())
	require.True(t, b.IsFull())

	err := b.Push(50)
	require.True(t, errors.Is(err, ErrBufferFull))
	require.Equal(t, 4, b.Len())

	for _, expected := range []int{10, 20, 30, 40} {
		v, ok := b.Pop()
		require.True(t, ok)
		require.Equal(t, expected, v)
	}
	v, ok := b.Pop()
	require.False(t, ok)
	require.Zero(t, v)
	require.Equal(t, 0, b.Len())
	require.True(t, b.IsEmpty())
}

func TestLenFollowsPushes(t *testing.T) {
	const capacity = 7
	b := New[int](capacity)
	for k := 1; k <= capacity; k++ {
		require.NoError(t, b.Push(k))
		require.Equal(t, k, b.Len())
		require.Equal(t, k == capacity, b.IsFull())
		require.False(t, b.IsEmpty())
	}
}

func TestFIFOOrder(t *testing.T) {
	for capacity := 1; capacity <= 9; capacity++ {
		b := New[int](capacity)
		for k := 0; k <= capacity; k++ {
			for i := 0; i < k; i++ {
				require.NoError(t, b.Push(i*capacity+k))
			}
			for i := 0; i < k; i++ {
				v, ok := b.Pop()
				require.True(t, ok)
				require.Equal(t, i*capacity+k, v, "capacity=%d k=%d i=%d", capacity, k, i)
			}
			require.True(t, b.IsEmpty())
		}
	}
}

func TestPushFullLeavesStateUnchanged(t *testing.T) {
	b := New[int](3)
	require.NoError(t, b.Push(1))
	require.NoError(t, b.Push(2))
	_, _ = b.Pop()
	require.NoError(t, b.Push(3))
	require.NoError(t, b.Push(4)) // wraps
	require.True(t, b.IsFull())

	before := snapshotOf(b)
	require.Equal(t, ErrBufferFull, b.Push(5))
	require.Equal(t, before, snapshotOf(b))
}

func TestPopEmptyLeavesStateUnchanged(t *testing.T) {
	b := New[int](3)
	require.NoError(t, b.Push(1))
	_, _ = b.Pop()

	before := snapshotOf(b)
	v, ok := b.Pop()
	require.False(t, ok)
	require.Zero(t, v)
	require.Equal(t, before, snapshotOf(b))
}

func TestWrapAround(t *testing.T) {
	const capacity = 5
	b := New[int](capacity)
	for batch := 0; batch < 3; batch++ {
		for i := 0; i < capacity; i++ {
			require.NoError(t, b.Push(batch*100+i))
		}
		require.True(t, b.IsFull())
		for i := 0; i < capacity; i++ {
			v, ok := b.Pop()
			require.True(t, ok)
			require.Equal(t, batch*100+i, v)
		}
		require.True(t, b.IsEmpty())
		require.Equal(t, 0, b.head)
		require.Equal(t, 0, b.tail)
	}

	// interleaved, cursors cross the end of slots at different times
	next, expect := 0, 0
	for round := 0; round < 4*capacity; round++ {
		for b.Len() < 3 {
			require.NoError(t, b.Push(next))
			next++
		}
		v, ok := b.Pop()
		require.True(t, ok)
		require.Equal(t, expect, v)
		expect++
		require.True(t, b.head >= 0 && b.head < capacity)
		require.True(t, b.tail >= 0 && b.tail < capacity)
	}
}

func TestQueriesAreIdempotent(t *testing.T) {
	b := New[int](2)
	for i := 0; i < 3; i++ {
		require.True(t, b.IsEmpty())
		require.False(t, b.IsFull())
	}
	require.NoError(t, b.Push(1))
	require.NoError(t, b.Push(2))
	for i := 0; i < 3; i++ {
		require.False(t, b.IsEmpty())
		require.True(t, b.IsFull())
		require.Equal(t, 2, b.Len())
	}
}

func TestPopReleasesSlot(t *testing.T) {
	b := New[*int](2)
	v := 42
	require.NoError(t, b.Push(&v))
	p, ok := b.Pop()
	require.True(t, ok)
	require.Equal(t, &v, p)
	require.Nil(t, b.slots[0])
}

func TestReset(t *testing.T) {
	b := New[string](3)
	require.NoError(t, b.Push("a"))
	require.NoError(t, b.Push("b"))
	_, _ = b.Pop()
	b.Reset()
	require.True(t, b.IsEmpty())
	require.Equal(t, []string{"", "", ""}, b.slots)
	require.Equal(t, 0, b.head)
	require.Equal(t, 0, b.tail)
	require.NoError(t, b.Push("c"))
	v, ok := b.Pop()
	require.True(t, ok)
	require.Equal(t, "c", v)
}

func TestLockedProducerConsumer(t *testing.T) {
	const total = 10000
	l := NewLocked[int](16)
	require.Equal(t, 16, l.Cap())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			if err := l.Push(i); err == nil {
				i++
			}
		}
	}()

	for expect := 0; expect < total; {
		if v, ok := l.Pop(); ok {
			require.Equal(t, expect, v)
			expect++
		}
	}
	wg.Wait()
	require.True(t, l.IsEmpty())
	require.False(t, l.IsFull())
	require.Equal(t, 0, l.Len())
}
