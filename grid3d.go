package rollgrid

import (
	"iter"
	"math"
)

// checkLayout3 validates a 3D size and offset and returns the cell
// capacity. See checkLayout2.
func checkLayout3(width, height, depth uint32, offset Point3) int {
	volume := uint64(width) * uint64(height)
	if depth != 0 && volume > math.MaxUint64/uint64(depth) {
		panic(msgSizeTooLarge)
	}
	volume *= uint64(depth)
	if volume == 0 {
		panic(msgVolumeIsZero)
	}
	if volume > math.MaxInt32 {
		panic(msgSizeTooLarge)
	}
	if int64(offset.X)+int64(width) > math.MaxInt32 ||
		int64(offset.Y)+int64(height) > math.MaxInt32 ||
		int64(offset.Z)+int64(depth) > math.MaxInt32 {
		panic(msgOffsetRange)
	}
	return int(volume)
}

// Grid3D is a dense 3-dimensional matrix with a fixed size and a fixed
// offset into the infinite coordinate space. It is the non-rolling
// counterpart of RollGrid3D. Storage is row-major with X innermost,
// then Z, then Y.
type Grid3D[T any] struct {
	cells  FixedBuffer[T]
	width  uint32
	height uint32
	depth  uint32
	offset Point3
}

// NewGrid3D creates a grid using init to construct cells. init is invoked
// once per coordinate in scan order (X innermost, then Z, then Y).
func NewGrid3D[T any](width, height, depth uint32, offset Point3, init func(pos Point3) T) *Grid3D[T] {
	capacity := checkLayout3(width, height, depth, offset)
	g := &Grid3D[T]{width: width, height: height, depth: depth, offset: offset}
	g.cells = NewFixedBuffer(capacity, func(i int) T {
		return init(g.pointAt(i))
	})
	return g
}

// TryNewGrid3D is the fallible variant of NewGrid3D. Construction aborts
// on the first init error, which is propagated unchanged.
func TryNewGrid3D[T any](width, height, depth uint32, offset Point3, init func(pos Point3) (T, error)) (*Grid3D[T], error) {
	capacity := checkLayout3(width, height, depth, offset)
	g := &Grid3D[T]{width: width, height: height, depth: depth, offset: offset}
	cells, err := TryNewFixedBuffer(capacity, func(i int) (T, error) {
		return init(g.pointAt(i))
	})
	if err != nil {
		return nil, err
	}
	g.cells = cells
	return g, nil
}

// pointAt is the inverse of offsetIndex for the natural (unwrapped) layout.
func (g *Grid3D[T]) pointAt(i int) Point3 {
	w := int(g.width)
	plane := w * int(g.depth)
	return Point3{
		X: g.offset.X + int32(i%w),
		Y: g.offset.Y + int32(i/plane),
		Z: g.offset.Z + int32(i%plane/w),
	}
}

// offsetIndex finds the buffer index of the cell at the world coordinate p.
func (g *Grid3D[T]) offsetIndex(p Point3) (int, bool) {
	x := int64(p.X) - int64(g.offset.X)
	y := int64(p.Y) - int64(g.offset.Y)
	z := int64(p.Z) - int64(g.offset.Z)
	if x < 0 || y < 0 || z < 0 ||
		x >= int64(g.width) || y >= int64(g.height) || z >= int64(g.depth) {
		return 0, false
	}
	plane := int64(g.width) * int64(g.depth)
	return int(y*plane + z*int64(g.width) + x), true
}

// Get returns a pointer to the cell at p, or nil when p is outside the
// grid. Querying outside the grid is a routine case, not an error.
func (g *Grid3D[T]) Get(p Point3) *T {
	i, ok := g.offsetIndex(p)
	if !ok {
		return nil
	}
	return g.cells.At(i)
}

// Set swaps value into the cell at p and returns the previous value.
// The second result is false when p is outside the grid, in which case the
// grid is unchanged.
func (g *Grid3D[T]) Set(p Point3, value T) (T, bool) {
	i, ok := g.offsetIndex(p)
	if !ok {
		var zero T
		return zero, false
	}
	return g.cells.Replace(i, value), true
}

// Replace swaps value into the cell at p and returns the old value.
// Panics when p is outside the grid.
func (g *Grid3D[T]) Replace(p Point3, value T) T {
	i, ok := g.offsetIndex(p)
	if !ok {
		panic(msgCoordOutOfBounds)
	}
	return g.cells.Replace(i, value)
}

// ReplaceWith replaces the cell at p using a function from the old value
// to the new value, swapping in place.
// Panics when p is outside the grid.
func (g *Grid3D[T]) ReplaceWith(p Point3, replace func(T) T) {
	i, ok := g.offsetIndex(p)
	if !ok {
		panic(msgCoordOutOfBounds)
	}
	g.cells.ReplaceWith(i, replace)
}

// RelativeOffset returns p relative to the grid's offset.
func (g *Grid3D[T]) RelativeOffset(p Point3) Point3 {
	return p.Sub(g.offset)
}

// Width is the size along the X axis.
func (g *Grid3D[T]) Width() uint32 { return g.width }

// Height is the size along the Y axis.
func (g *Grid3D[T]) Height() uint32 { return g.height }

// Depth is the size along the Z axis.
func (g *Grid3D[T]) Depth() uint32 { return g.depth }

// Offset is the minimum corner of the grid in world space.
func (g *Grid3D[T]) Offset() Point3 { return g.offset }

// Len is the total cell count (width * height * depth).
func (g *Grid3D[T]) Len() int { return g.cells.Len() }

// Bounds is the region covered by the grid.
func (g *Grid3D[T]) Bounds() Bounds3D {
	return Bounds3D{
		Min: g.offset,
		Max: Point3{
			X: g.offset.X + int32(g.width),
			Y: g.offset.Y + int32(g.height),
			Z: g.offset.Z + int32(g.depth),
		},
	}
}

// Cells iterates (coordinate, cell pointer) pairs in scan order.
func (g *Grid3D[T]) Cells() iter.Seq2[Point3, *T] {
	return func(yield func(Point3, *T) bool) {
		for p := range g.Bounds().Points() {
			i, _ := g.offsetIndex(p)
			if !yield(p, g.cells.At(i)) {
				return
			}
		}
	}
}

// Buffer exposes the underlying storage for advanced integrations.
func (g *Grid3D[T]) Buffer() *FixedBuffer[T] {
	return &g.cells
}

// Release releases the grid's storage, destroying every live cell exactly
// once. The grid must not be used afterwards.
func (g *Grid3D[T]) Release() {
	g.cells.Release(true)
}
