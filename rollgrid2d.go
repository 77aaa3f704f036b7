package rollgrid

import (
	"iter"
	"math"
)

// RollGrid2D is a dense 2D grid with a fixed capacity whose window over the
// infinite coordinate space can be translated, resized and repositioned
// with minimal reloading. Cell storage is toroidal: moving the window
// advances a per-axis wrap offset instead of moving cell payloads, so cells
// that stay inside the window keep their storage slot and see no callback.
//
// All window mutations run to completion before returning and invoke the
// supplied cell manager synchronously, exactly once per cell transition.
// RollGrid2D is not safe for concurrent use.
type RollGrid2D[T any] struct {
	cells  FixedBuffer[T]
	width  uint32
	height uint32
	wrapX  uint32 // always < width
	wrapY  uint32 // always < height
	offset Point
}

// NewRollGrid2D creates a grid using init to construct cells. init is
// invoked once per coordinate in scan order (X innermost, then Y).
//
// Panics when either axis is zero, when width*height exceeds the
// addressable range, or when offset+size leaves the signed 32-bit
// coordinate space.
func NewRollGrid2D[T any](width, height uint32, offset Point, init func(pos Point) T) *RollGrid2D[T] {
	capacity := checkLayout2(width, height, offset)
	g := &RollGrid2D[T]{width: width, height: height, offset: offset}
	g.cells = NewFixedBuffer(capacity, func(i int) T {
		return init(pointAt2(i, width, offset))
	})
	return g
}

// TryNewRollGrid2D is the fallible variant of NewRollGrid2D. Construction
// aborts on the first init error, which is propagated unchanged.
func TryNewRollGrid2D[T any](width, height uint32, offset Point, init func(pos Point) (T, error)) (*RollGrid2D[T], error) {
	capacity := checkLayout2(width, height, offset)
	g := &RollGrid2D[T]{width: width, height: height, offset: offset}
	cells, err := TryNewFixedBuffer(capacity, func(i int) (T, error) {
		return init(pointAt2(i, width, offset))
	})
	if err != nil {
		return nil, err
	}
	g.cells = cells
	return g, nil
}

// pointAt2 is the coordinate at buffer index i for an unrotated 2D layout.
func pointAt2(i int, width uint32, offset Point) Point {
	w := int(width)
	return Point{
		X: offset.X + int32(i%w),
		Y: offset.Y + int32(i/w),
	}
}

// offsetIndex maps the world coordinate p to its buffer index through the
// grid offset and the wrap offset.
func (g *RollGrid2D[T]) offsetIndex(p Point) (int, bool) {
	x := int64(p.X) - int64(g.offset.X)
	y := int64(p.Y) - int64(g.offset.Y)
	w := int64(g.width)
	h := int64(g.height)
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0, false
	}
	wx := (x + int64(g.wrapX)) % w
	wy := (y + int64(g.wrapY)) % h
	return int(wy*w + wx), true
}

// mustIndex is offsetIndex for coordinates known to be inside the window.
func (g *RollGrid2D[T]) mustIndex(p Point) int {
	i, ok := g.offsetIndex(p)
	if !ok {
		panic(msgCoordOutOfBounds)
	}
	return i
}

// Get returns a pointer to the cell at p, or nil when p is outside the
// window. Querying outside the window is a routine case, not an error.
func (g *RollGrid2D[T]) Get(p Point) *T {
	i, ok := g.offsetIndex(p)
	if !ok {
		return nil
	}
	return g.cells.At(i)
}

// Set swaps value into the cell at p and returns the previous value.
// The second result is false when p is outside the window, in which case
// the grid is unchanged.
func (g *RollGrid2D[T]) Set(p Point, value T) (T, bool) {
	i, ok := g.offsetIndex(p)
	if !ok {
		var zero T
		return zero, false
	}
	return g.cells.Replace(i, value), true
}

// RelativeOffset returns p relative to the grid's offset.
func (g *RollGrid2D[T]) RelativeOffset(p Point) Point {
	return p.Sub(g.offset)
}

// Width is the size along the X axis.
func (g *RollGrid2D[T]) Width() uint32 { return g.width }

// Height is the size along the Y axis.
func (g *RollGrid2D[T]) Height() uint32 { return g.height }

// Size returns the per-axis sizes of the window.
func (g *RollGrid2D[T]) Size() (width, height uint32) {
	return g.width, g.height
}

// Offset is the minimum corner of the window in world space.
func (g *RollGrid2D[T]) Offset() Point { return g.offset }

// WrapOffset returns the internal per-axis storage rotation. It is always
// componentwise less than the size.
func (g *RollGrid2D[T]) WrapOffset() (x, y uint32) {
	return g.wrapX, g.wrapY
}

// XMin is the minimum bound of the window on the X axis.
func (g *RollGrid2D[T]) XMin() int32 { return g.offset.X }

// YMin is the minimum bound of the window on the Y axis.
func (g *RollGrid2D[T]) YMin() int32 { return g.offset.Y }

// XMax is the maximum bound of the window on the X axis (exclusive).
func (g *RollGrid2D[T]) XMax() int32 { return g.offset.X + int32(g.width) }

// YMax is the maximum bound of the window on the Y axis (exclusive).
func (g *RollGrid2D[T]) YMax() int32 { return g.offset.Y + int32(g.height) }

// Bounds is the region covered by the window.
func (g *RollGrid2D[T]) Bounds() Bounds2D {
	return Bounds2D{
		Min: g.offset,
		Max: Point{X: g.XMax(), Y: g.YMax()},
	}
}

// Len is the total cell count (width * height).
func (g *RollGrid2D[T]) Len() int { return g.cells.Len() }

// Points iterates every coordinate in the window in scan order.
func (g *RollGrid2D[T]) Points() iter.Seq[Point] {
	return g.Bounds().Points()
}

// Cells iterates (coordinate, cell pointer) pairs in scan order.
func (g *RollGrid2D[T]) Cells() iter.Seq2[Point, *T] {
	return func(yield func(Point, *T) bool) {
		for p := range g.Bounds().Points() {
			if !yield(p, g.cells.At(g.mustIndex(p))) {
				return
			}
		}
	}
}

// Buffer exposes the underlying storage for advanced integrations.
func (g *RollGrid2D[T]) Buffer() *FixedBuffer[T] {
	return &g.cells
}

// Release releases the grid's storage, destroying every live cell exactly
// once. The grid must not be used afterwards.
func (g *RollGrid2D[T]) Release() {
	g.cells.Release(true)
}

// Translate moves the window by delta. Only manage's Reload is invoked;
// see Reposition.
func (g *RollGrid2D[T]) Translate(delta Point, manage CellManager2[T]) {
	g.Reposition(g.translateTarget(delta), manage)
}

// TryTranslate is the fallible variant of Translate.
func (g *RollGrid2D[T]) TryTranslate(delta Point, manage TryCellManager2[T]) error {
	return g.TryReposition(g.translateTarget(delta), manage)
}

func (g *RollGrid2D[T]) translateTarget(delta Point) Point {
	x := int64(g.offset.X) + int64(delta.X)
	y := int64(g.offset.Y) + int64(delta.Y)
	if x < math.MinInt32 || x > math.MaxInt32 || y < math.MinInt32 || y > math.MaxInt32 {
		panic(msgOffsetRange)
	}
	return Point{X: int32(x), Y: int32(y)}
}

// Reposition moves the window to a new offset without changing its size.
// Cells whose logical coordinate stays inside both the old and new windows
// keep their storage slot untouched and see no callback. Every other cell
// receives exactly one Reload call with the old coordinate whose value the
// slot currently holds, the new coordinate, and the slot itself; the
// callback may rebuild the payload in place. When the move is at least the
// window size on some axis the windows are disjoint and every cell is
// reloaded in scan order. Only manage's Reload is invoked.
func (g *RollGrid2D[T]) Reposition(position Point, manage CellManager2[T]) {
	// the bridged callbacks never fail
	_ = g.tryReposition(position, infallible2[T]{m: manage})
}

// TryReposition is the fallible variant of Reposition. On a Reload error
// the operation stops; cells already reloaded stay reloaded and the wrap
// and grid offsets remain at their new values.
func (g *RollGrid2D[T]) TryReposition(position Point, manage TryCellManager2[T]) error {
	return g.tryReposition(position, manage)
}

func (g *RollGrid2D[T]) tryReposition(position Point, manage TryCellManager2[T]) error {
	dx := int64(position.X) - int64(g.offset.X)
	dy := int64(position.Y) - int64(g.offset.Y)
	if dx == 0 && dy == 0 {
		return nil
	}
	checkLayout2(g.width, g.height, position)
	w := int64(g.width)
	h := int64(g.height)
	oldOffset := g.offset
	g.offset = position
	if absI64(dx) >= w || absI64(dy) >= h {
		// Disjoint windows: reload everything, old coordinates paired by
		// relative position.
		for p := range g.Bounds().Points() {
			old := Point{
				X: oldOffset.X + (p.X - position.X),
				Y: oldOffset.Y + (p.Y - position.Y),
			}
			if err := manage.Reload(old, p, g.cells.At(g.mustIndex(p))); err != nil {
				return err
			}
		}
		return nil
	}
	// Advancing the wrap offset relabels every kept cell in place; only
	// the cells whose logical identity changed are visited below.
	g.wrapX = uint32((int64(g.wrapX) + modI64(dx, w)) % w)
	g.wrapY = uint32((int64(g.wrapY) + modI64(dy, h)) % h)
	nx := int64(position.X)
	ny := int64(position.Y)
	// Decompose the newly-entered region into up to three disjoint pieces:
	// the X-side strip over the kept Y range, the Y-side strip over the
	// kept X range, and the corner where both strips meet.
	xsLo, xsHi := enteredSpan(nx, nx+w, dx)
	xkLo, xkHi := keptSpan(nx, nx+w, dx)
	ysLo, ysHi := enteredSpan(ny, ny+h, dy)
	ykLo, ykHi := keptSpan(ny, ny+h, dy)
	pieces := [3]Bounds2D{
		NewBounds2D(Pt(int32(xsLo), int32(ykLo)), Pt(int32(xsHi), int32(ykHi))),
		NewBounds2D(Pt(int32(xkLo), int32(ysLo)), Pt(int32(xkHi), int32(ysHi))),
		NewBounds2D(Pt(int32(xsLo), int32(ysLo)), Pt(int32(xsHi), int32(ysHi))),
	}
	for _, piece := range pieces {
		for p := range piece.Points() {
			old := Point{
				X: wrapPrior(p.X, oldOffset.X, w),
				Y: wrapPrior(p.Y, oldOffset.Y, h),
			}
			if err := manage.Reload(old, p, g.cells.At(g.mustIndex(p))); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resize changes the window size, keeping the same offset.
// See ResizeAndReposition.
func (g *RollGrid2D[T]) Resize(width, height uint32, manage CellManager2[T]) {
	g.ResizeAndReposition(width, height, g.offset, manage)
}

// TryResize is the fallible variant of Resize.
func (g *RollGrid2D[T]) TryResize(width, height uint32, manage TryCellManager2[T]) error {
	return g.TryResizeAndReposition(width, height, g.offset, manage)
}

// ResizeAndReposition changes the window size and offset in one step.
// Cells inside both the old and new windows are relocated to the new
// storage without any callback; cells leaving the window receive exactly
// one Unload with their payload; cells entering receive exactly one Load.
// When the size is unchanged this degenerates to Reposition with every
// changed cell unloaded then loaded. The wrap offset resets to zero.
func (g *RollGrid2D[T]) ResizeAndReposition(width, height uint32, position Point, manage CellManager2[T]) {
	_ = g.tryResizeAndReposition(width, height, position, infallible2[T]{m: manage})
}

// TryResizeAndReposition is the fallible variant of ResizeAndReposition.
// On a callback error the operation stops; cells already transitioned stay
// transitioned and cells already relocated to the new storage are
// discarded without an Unload. Callers needing atomicity must use
// idempotent or compensating callbacks.
func (g *RollGrid2D[T]) TryResizeAndReposition(width, height uint32, position Point, manage TryCellManager2[T]) error {
	return g.tryResizeAndReposition(width, height, position, manage)
}

func (g *RollGrid2D[T]) tryResizeAndReposition(width, height uint32, position Point, manage TryCellManager2[T]) error {
	if width == g.width && height == g.height {
		return g.tryReposition(position, resizeReload2[T]{m: manage})
	}
	capacity := checkLayout2(width, height, position)
	oldBounds := g.Bounds()
	newBounds := NewBounds2D(position, Point{
		X: position.X + int32(width),
		Y: position.Y + int32(height),
	})
	if oldBounds.Intersects(newBounds) {
		// Unload the old cells outside the new bounds as disjoint slabs:
		// the two Y sides take the full old X range, the two X sides are
		// clipped to the Y overlap so corners are not unloaded twice.
		ykLo := max(oldBounds.Min.Y, newBounds.Min.Y)
		ykHi := min(oldBounds.Max.Y, newBounds.Max.Y)
		slabs := [4]Bounds2D{
			NewBounds2D(oldBounds.Min, Pt(oldBounds.Max.X, newBounds.Min.Y)),
			NewBounds2D(Pt(oldBounds.Min.X, newBounds.Max.Y), oldBounds.Max),
			NewBounds2D(Pt(oldBounds.Min.X, ykLo), Pt(newBounds.Min.X, ykHi)),
			NewBounds2D(Pt(newBounds.Max.X, ykLo), Pt(oldBounds.Max.X, ykHi)),
		}
		for _, slab := range slabs {
			slab = slab.Intersection(oldBounds)
			for p := range slab.Points() {
				if err := manage.Unload(p, g.cells.Read(g.mustIndex(p))); err != nil {
					return err
				}
			}
		}
		cells, err := TryNewFixedBuffer(capacity, func(i int) (T, error) {
			p := pointAt2(i, width, position)
			if oldBounds.Contains(p) {
				// relocate, no callback
				return g.cells.Read(g.mustIndex(p)), nil
			}
			return manage.Load(p)
		})
		if err != nil {
			return err
		}
		g.cells.Release(false)
		g.cells = cells
	} else {
		for p := range oldBounds.Points() {
			if err := manage.Unload(p, g.cells.Read(g.mustIndex(p))); err != nil {
				return err
			}
		}
		cells, err := TryNewFixedBuffer(capacity, func(i int) (T, error) {
			return manage.Load(pointAt2(i, width, position))
		})
		if err != nil {
			return err
		}
		g.cells.Release(false)
		g.cells = cells
	}
	g.width = width
	g.height = height
	g.offset = position
	g.wrapX = 0
	g.wrapY = 0
	return nil
}

// InflateSize grows the window by amount on every side, keeping it
// centered: the offset moves by -amount per axis and each size grows by
// 2*amount.
func (g *RollGrid2D[T]) InflateSize(amount uint32, manage CellManager2[T]) {
	width, height, position := g.inflateLayout(amount)
	g.ResizeAndReposition(width, height, position, manage)
}

// TryInflateSize is the fallible variant of InflateSize.
func (g *RollGrid2D[T]) TryInflateSize(amount uint32, manage TryCellManager2[T]) error {
	width, height, position := g.inflateLayout(amount)
	return g.TryResizeAndReposition(width, height, position, manage)
}

func (g *RollGrid2D[T]) inflateLayout(amount uint32) (width, height uint32, position Point) {
	grow := uint64(amount) * 2
	w := uint64(g.width) + grow
	h := uint64(g.height) + grow
	if w > math.MaxUint32 || h > math.MaxUint32 {
		panic(msgInflateOverflow)
	}
	x := int64(g.offset.X) - int64(amount)
	y := int64(g.offset.Y) - int64(amount)
	if x < math.MinInt32 || y < math.MinInt32 {
		panic(msgOffsetRange)
	}
	return uint32(w), uint32(h), Point{X: int32(x), Y: int32(y)}
}

// DeflateSize shrinks the window by amount on every side, keeping it
// centered: the offset moves by +amount per axis and each size shrinks by
// 2*amount. Deflating an axis to zero or below panics.
func (g *RollGrid2D[T]) DeflateSize(amount uint32, manage CellManager2[T]) {
	width, height, position := g.deflateLayout(amount)
	g.ResizeAndReposition(width, height, position, manage)
}

// TryDeflateSize is the fallible variant of DeflateSize.
func (g *RollGrid2D[T]) TryDeflateSize(amount uint32, manage TryCellManager2[T]) error {
	width, height, position := g.deflateLayout(amount)
	return g.TryResizeAndReposition(width, height, position, manage)
}

func (g *RollGrid2D[T]) deflateLayout(amount uint32) (width, height uint32, position Point) {
	shrink := uint64(amount) * 2
	if shrink >= uint64(g.width) || shrink >= uint64(g.height) {
		panic(msgDeflateTooLarge)
	}
	return g.width - uint32(shrink), g.height - uint32(shrink), Point{
		X: g.offset.X + int32(amount),
		Y: g.offset.Y + int32(amount),
	}
}

// resizeReload2 turns a reposition reload into an unload of the departing
// cell followed by a load of the entering one, for the equal-size resize
// path.
type resizeReload2[T any] struct {
	m TryCellManager2[T]
}

func (r resizeReload2[T]) Load(pos Point) (T, error) {
	return r.m.Load(pos)
}

func (r resizeReload2[T]) Unload(pos Point, value T) error {
	return r.m.Unload(pos, value)
}

func (r resizeReload2[T]) Reload(oldPos, newPos Point, value *T) error {
	old := *value
	var zero T
	*value = zero
	if err := r.m.Unload(oldPos, old); err != nil {
		return err
	}
	v, err := r.m.Load(newPos)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

// enteredSpan is the part of [lo, hi) that newly entered the window for a
// move of d on that axis. Empty when d is zero.
func enteredSpan(lo, hi, d int64) (int64, int64) {
	if d >= 0 {
		return hi - d, hi
	}
	return lo, lo - d
}

// keptSpan is the complement of enteredSpan within [lo, hi).
func keptSpan(lo, hi, d int64) (int64, int64) {
	if d >= 0 {
		return lo, hi - d
	}
	return lo - d, hi
}

// wrapPrior recovers the old logical coordinate whose value currently
// occupies the storage slot of the entered coordinate v: the inverse of
// the address relation, ((v - oldMin) mod size) + oldMin.
func wrapPrior(v, oldMin int32, size int64) int32 {
	return oldMin + int32(modI64(int64(v)-int64(oldMin), size))
}

// modI64 is the euclidean remainder: the result is always in [0, m).
func modI64(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func absI64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}
