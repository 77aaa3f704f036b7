package rollgrid

import (
	"iter"
	"math"
)

// checkLayout2 validates a 2D size and offset and returns the cell
// capacity. The total cell count must be nonzero and fit the addressable
// range, and offset+size must not leave the signed 32-bit coordinate
// space.
func checkLayout2(width, height uint32, offset Point) int {
	area := uint64(width) * uint64(height)
	if area == 0 {
		panic(msgAreaIsZero)
	}
	if area > math.MaxInt32 {
		panic(msgSizeTooLarge)
	}
	if int64(offset.X)+int64(width) > math.MaxInt32 ||
		int64(offset.Y)+int64(height) > math.MaxInt32 {
		panic(msgOffsetRange)
	}
	return int(area)
}

// Grid2D is a dense 2-dimensional matrix with a fixed size and a fixed
// offset into the infinite coordinate space. It is the non-rolling
// counterpart of RollGrid2D: same storage and addressing, no wrap offset
// and no window movement.
type Grid2D[T any] struct {
	cells  FixedBuffer[T]
	width  uint32
	height uint32
	offset Point
}

// NewGrid2D creates a grid using init to construct cells. init is invoked
// once per coordinate in scan order (X innermost, then Y).
func NewGrid2D[T any](width, height uint32, offset Point, init func(pos Point) T) *Grid2D[T] {
	capacity := checkLayout2(width, height, offset)
	g := &Grid2D[T]{width: width, height: height, offset: offset}
	g.cells = NewFixedBuffer(capacity, func(i int) T {
		return init(g.pointAt(i))
	})
	return g
}

// TryNewGrid2D is the fallible variant of NewGrid2D. Construction aborts
// on the first init error, which is propagated unchanged.
func TryNewGrid2D[T any](width, height uint32, offset Point, init func(pos Point) (T, error)) (*Grid2D[T], error) {
	capacity := checkLayout2(width, height, offset)
	g := &Grid2D[T]{width: width, height: height, offset: offset}
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
func (g *Grid2D[T]) pointAt(i int) Point {
	w := int(g.width)
	return Point{
		X: g.offset.X + int32(i%w),
		Y: g.offset.Y + int32(i/w),
	}
}

// offsetIndex finds the buffer index of the cell at the world coordinate p.
func (g *Grid2D[T]) offsetIndex(p Point) (int, bool) {
	x := int64(p.X) - int64(g.offset.X)
	y := int64(p.Y) - int64(g.offset.Y)
	if x < 0 || y < 0 || x >= int64(g.width) || y >= int64(g.height) {
		return 0, false
	}
	return int(y*int64(g.width) + x), true
}

// Get returns a pointer to the cell at p, or nil when p is outside the
// grid. Querying outside the grid is a routine case, not an error.
func (g *Grid2D[T]) Get(p Point) *T {
	i, ok := g.offsetIndex(p)
	if !ok {
		return nil
	}
	return g.cells.At(i)
}

// Set swaps value into the cell at p and returns the previous value.
// The second result is false when p is outside the grid, in which case the
// grid is unchanged.
func (g *Grid2D[T]) Set(p Point, value T) (T, bool) {
	i, ok := g.offsetIndex(p)
	if !ok {
		var zero T
		return zero, false
	}
	return g.cells.Replace(i, value), true
}

// Replace swaps value into the cell at p and returns the old value.
// Panics when p is outside the grid.
func (g *Grid2D[T]) Replace(p Point, value T) T {
	i, ok := g.offsetIndex(p)
	if !ok {
		panic(msgCoordOutOfBounds)
	}
	return g.cells.Replace(i, value)
}

// ReplaceWith replaces the cell at p using a function from the old value
// to the new value, swapping in place.
// Panics when p is outside the grid.
func (g *Grid2D[T]) ReplaceWith(p Point, replace func(T) T) {
	i, ok := g.offsetIndex(p)
	if !ok {
		panic(msgCoordOutOfBounds)
	}
	g.cells.ReplaceWith(i, replace)
}

// RelativeOffset returns p relative to the grid's offset.
func (g *Grid2D[T]) RelativeOffset(p Point) Point {
	return p.Sub(g.offset)
}

// Width is the size along the X axis.
func (g *Grid2D[T]) Width() uint32 { return g.width }

// Height is the size along the Y axis.
func (g *Grid2D[T]) Height() uint32 { return g.height }

// Offset is the minimum corner of the grid in world space.
func (g *Grid2D[T]) Offset() Point { return g.offset }

// Len is the total cell count (width * height).
func (g *Grid2D[T]) Len() int { return g.cells.Len() }

// Bounds is the region covered by the grid.
func (g *Grid2D[T]) Bounds() Bounds2D {
	return Bounds2D{
		Min: g.offset,
		Max: Point{
			X: g.offset.X + int32(g.width),
			Y: g.offset.Y + int32(g.height),
		},
	}
}

// Cells iterates (coordinate, cell pointer) pairs in scan order.
func (g *Grid2D[T]) Cells() iter.Seq2[Point, *T] {
	return func(yield func(Point, *T) bool) {
		for p := range g.Bounds().Points() {
			i, _ := g.offsetIndex(p)
			if !yield(p, g.cells.At(i)) {
				return
			}
		}
	}
}

// Buffer exposes the underlying storage for advanced integrations.
func (g *Grid2D[T]) Buffer() *FixedBuffer[T] {
	return &g.cells
}

// Release releases the grid's storage, destroying every live cell exactly
// once. The grid must not be used afterwards.
func (g *Grid2D[T]) Release() {
	g.cells.Release(true)
}
