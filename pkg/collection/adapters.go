package collection

import (
	"container/list"

	"github.com/eapache/queue"

	"github.com/jzx17/collext/pkg/types"
)

// Slice adapts a Go slice. Positions are the usual zero-based indexes.
type Slice[T any] []T

// Of returns the arguments as a Slice
func Of[T any](items ...T) Slice[T] {
	return Slice[T](items)
}

func (s Slice[T]) StartIndex() int      { return 0 }
func (s Slice[T]) EndIndex() int        { return len(s) }
func (s Slice[T]) IndexAfter(i int) int { return i + 1 }
func (s Slice[T]) At(i int) T           { return s[i] }
func (s Slice[T]) Len() int             { return len(s) }

// ValidIndex reports whether i addresses an element of s
func (s Slice[T]) ValidIndex(i int) bool {
	return i >= 0 && i < len(s)
}

// List adapts a container/list whose values all have type T.
// Positions are *list.Element; the end position is nil.
type List[T any] struct {
	l *list.List
}

// NewList creates a List holding items in order
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{l: list.New()}
	for _, item := range items {
		l.PushBack(item)
	}
	return l
}

// PushBack appends v and returns its position
func (l *List[T]) PushBack(v T) *list.Element {
	return l.l.PushBack(v)
}

// Remove deletes the element at e. The position becomes invalid.
func (l *List[T]) Remove(e *list.Element) T {
	return l.l.Remove(e).(T)
}

func (l *List[T]) StartIndex() *list.Element                { return l.l.Front() }
func (l *List[T]) EndIndex() *list.Element                  { return nil }
func (l *List[T]) IndexAfter(e *list.Element) *list.Element { return e.Next() }
func (l *List[T]) At(e *list.Element) T                     { return e.Value.(T) }
func (l *List[T]) Len() int                                 { return l.l.Len() }

// Queue adapts an eapache ring-buffer queue. Positions count from the head, starting at 0.
type Queue[T any] struct {
	q *queue.Queue
}

// NewQueue creates a Queue holding items, head first
func NewQueue[T any](items ...T) *Queue[T] {
	q := &Queue[T]{q: queue.New()}
	for _, item := range items {
		q.Add(item)
	}
	return q
}

// Add puts v at the tail
func (q *Queue[T]) Add(v T) {
	q.q.Add(v)
}

// Remove takes the head element. It panics on an empty queue.
func (q *Queue[T]) Remove() T {
	return q.q.Remove().(T)
}

func (q *Queue[T]) StartIndex() int      { return 0 }
func (q *Queue[T]) EndIndex() int        { return q.q.Length() }
func (q *Queue[T]) IndexAfter(i int) int { return i + 1 }
func (q *Queue[T]) At(i int) T           { return q.q.Get(i).(T) }
func (q *Queue[T]) Len() int             { return q.q.Length() }

// ValidIndex reports whether i addresses an element. Negative indexes are rejected even though
// the underlying queue accepts them as offsets from the tail.
func (q *Queue[T]) ValidIndex(i int) bool {
	return i >= 0 && i < q.q.Length()
}

var (
	_ types.Collection[int, int]           = Slice[int](nil)
	_ types.Indexed[int]                   = Slice[int](nil)
	_ types.PositionChecker[int]           = Slice[int](nil)
	_ types.Collection[*list.Element, int] = (*List[int])(nil)
	_ types.Collection[int, int]           = (*Queue[int])(nil)
	_ types.Indexed[int]                   = (*Queue[int])(nil)
	_ types.PositionChecker[int]           = (*Queue[int])(nil)
)
