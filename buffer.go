package rollgrid

import "unsafe"

// FixedBuffer is a fixed-capacity region of slots of type T. It is the
// storage abstraction under the rolling grid implementations: values can be
// moved out of slots without disturbing the rest of the region, overwritten
// without touching the prior value, or cleared in place, which gives the
// grid algorithms manual control over the lifecycle of individual regions.
// The caller manages the dimensionality and bounds that sit on top of it.
//
// Every slot is either live (holds a value the caller still owns) or vacant
// (moved out or cleared). The buffer tracks capacity only; callers of the
// low-level primitives are responsible for never reading a slot twice or
// overwriting a live slot they still need.
type FixedBuffer[T any] struct {
	data []T // nil once released
}

// NewFixedBuffer allocates a buffer of the given capacity and constructs
// every slot eagerly, in index order, using init.
// Panics if capacity is negative.
func NewFixedBuffer[T any](capacity int, init func(i int) T) FixedBuffer[T] {
	if capacity < 0 {
		panic(msgRawCapacity)
	}
	data := make([]T, capacity)
	for i := range data {
		data[i] = init(i)
	}
	return FixedBuffer[T]{data: data}
}

// TryNewFixedBuffer is the fallible variant of NewFixedBuffer. On the first
// init error, construction aborts, already-constructed slots are discarded
// and the error is propagated unchanged.
func TryNewFixedBuffer[T any](capacity int, init func(i int) (T, error)) (FixedBuffer[T], error) {
	if capacity < 0 {
		panic(msgRawCapacity)
	}
	data := make([]T, capacity)
	for i := range data {
		v, err := init(i)
		if err != nil {
			return FixedBuffer[T]{}, err
		}
		data[i] = v
	}
	return FixedBuffer[T]{data: data}, nil
}

// slot validates access and returns the slot pointer.
func (b *FixedBuffer[T]) slot(i int) *T {
	if b.data == nil {
		panic(msgUnallocated)
	}
	if i < 0 || i >= len(b.data) {
		panic(msgOutOfBounds)
	}
	return &b.data[i]
}

// Len is the capacity of the buffer. A released buffer has capacity 0.
func (b *FixedBuffer[T]) Len() int {
	return len(b.data)
}

// Released reports whether the buffer's region has been released.
func (b *FixedBuffer[T]) Released() bool {
	return b.data == nil
}

// Read moves the value out of the slot at i, leaving the slot vacant
// (zeroed). The returned value is the only live reference; the caller must
// track which slots have been read so they are not read again.
func (b *FixedBuffer[T]) Read(i int) T {
	p := b.slot(i)
	v := *p
	var zero T
	*p = zero
	return v
}

// Write moves value into the slot at i without reading the prior value.
// Writing over a live slot abandons whatever it held, so either Read or
// Drop the slot first, or accept the leak. This is appropriate for filling
// vacant slots.
func (b *FixedBuffer[T]) Write(i int, value T) {
	*b.slot(i) = value
}

// Replace swaps value into the slot at i and returns the old value. Unlike
// the Read/Write pair this is always balanced: nothing is abandoned and
// nothing is left vacant.
func (b *FixedBuffer[T]) Replace(i int, value T) T {
	p := b.slot(i)
	old := *p
	*p = value
	return old
}

// ReplaceWith replaces the value in the slot at i using a function from the
// old value to the new value, swapping in place.
func (b *FixedBuffer[T]) ReplaceWith(i int, replace func(T) T) {
	p := b.slot(i)
	*p = replace(*p)
}

// Drop clears the slot at i in place, releasing whatever the payload
// referenced and leaving the slot vacant.
func (b *FixedBuffer[T]) Drop(i int) {
	var zero T
	*b.slot(i) = zero
}

// At returns a pointer to the slot at i. The pointer stays valid until the
// buffer is released.
func (b *FixedBuffer[T]) At(i int) *T {
	return b.slot(i)
}

// Slice returns the buffer's slots as a slice.
// Panics if the buffer has been released.
func (b *FixedBuffer[T]) Slice() []T {
	if b.data == nil {
		panic(msgUnallocated)
	}
	return b.data
}

// Release drops the buffer's region. When destroyContents is true every
// slot is cleared first so that live payloads are handed back to the
// garbage collector; pass false when every slot has already been moved out
// or cleared. All slot operations on a released buffer panic.
func (b *FixedBuffer[T]) Release(destroyContents bool) {
	if b.data == nil {
		return
	}
	if destroyContents {
		clear(b.data)
	}
	b.data = nil
}

// IntoRaw releases ownership of the region and returns the raw pointer to
// the first slot along with the capacity. The pointer is nil if the buffer
// was already released. Used to hand memory to foreign allocators; pair
// with FromRaw to reclaim ownership.
func (b *FixedBuffer[T]) IntoRaw() (*T, int) {
	if b.data == nil {
		return nil, 0
	}
	ptr := unsafe.SliceData(b.data)
	capacity := len(b.data)
	b.data = nil
	return ptr, capacity
}

// FromRaw builds a buffer from a raw pointer and a capacity, taking
// ownership of the region. A nil pointer with capacity 0 produces a
// released buffer.
// Panics if ptr is nil with a nonzero capacity or capacity is negative.
func FromRaw[T any](ptr *T, capacity int) FixedBuffer[T] {
	if capacity < 0 {
		panic(msgRawCapacity)
	}
	if ptr == nil {
		if capacity != 0 {
			panic(msgNilRawPointer)
		}
		return FixedBuffer[T]{}
	}
	return FixedBuffer[T]{data: unsafe.Slice(ptr, capacity)}
}
