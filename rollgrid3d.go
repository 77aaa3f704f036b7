package rollgrid

import (
	"iter"
	"math"
)

// RollGrid3D is the three dimensional counterpart of RollGrid2D: a dense
// fixed-capacity grid whose window can be translated, resized and
// repositioned with minimal reloading. Storage is toroidal per axis, so
// cells that stay inside the window keep their storage slot and see no
// callback when the window moves.
//
// RollGrid3D is not safe for concurrent use.
type RollGrid3D[T any] struct {
	cells  FixedBuffer[T]
	width  uint32
	height uint32
	depth  uint32
	wrapX  uint32 // always < width
	wrapY  uint32 // always < height
	wrapZ  uint32 // always < depth
	offset Point3
}

// NewRollGrid3D creates a grid using init to construct cells. init is
// invoked once per coordinate in scan order (X innermost, then Z, then Y).
//
// Panics when any axis is zero, when the volume exceeds the addressable
// range, or when offset+size leaves the signed 32-bit coordinate space.
func NewRollGrid3D[T any](width, height, depth uint32, offset Point3, init func(pos Point3) T) *RollGrid3D[T] {
	capacity := checkLayout3(width, height, depth, offset)
	g := &RollGrid3D[T]{width: width, height: height, depth: depth, offset: offset}
	g.cells = NewFixedBuffer(capacity, func(i int) T {
		return init(pointAt3(i, width, depth, offset))
	})
	return g
}

// TryNewRollGrid3D is the fallible variant of NewRollGrid3D. Construction
// aborts on the first init error, which is propagated unchanged.
func TryNewRollGrid3D[T any](width, height, depth uint32, offset Point3, init func(pos Point3) (T, error)) (*RollGrid3D[T], error) {
	capacity := checkLayout3(width, height, depth, offset)
	g := &RollGrid3D[T]{width: width, height: height, depth: depth, offset: offset}
	cells, err := TryNewFixedBuffer(capacity, func(i int) (T, error) {
		return init(pointAt3(i, width, depth, offset))
	})
	if err != nil {
		return nil, err
	}
	g.cells = cells
	return g, nil
}

// pointAt3 is the coordinate at buffer index i for an unrotated 3D layout.
func pointAt3(i int, width, depth uint32, offset Point3) Point3 {
	w := int(width)
	plane := w * int(depth)
	return Point3{
		X: offset.X + int32(i%w),
		Y: offset.Y + int32(i/plane),
		Z: offset.Z + int32(i%plane/w),
	}
}

// offsetIndex maps the world coordinate p to its buffer index through the
// grid offset and the wrap offset.
func (g *RollGrid3D[T]) offsetIndex(p Point3) (int, bool) {
	x := int64(p.X) - int64(g.offset.X)
	y := int64(p.Y) - int64(g.offset.Y)
	z := int64(p.Z) - int64(g.offset.Z)
	w := int64(g.width)
	h := int64(g.height)
	d := int64(g.depth)
	if x < 0 || y < 0 || z < 0 || x >= w || y >= h || z >= d {
		return 0, false
	}
	wx := (x + int64(g.wrapX)) % w
	wy := (y + int64(g.wrapY)) % h
	wz := (z + int64(g.wrapZ)) % d
	return int(wy*w*d + wz*w + wx), true
}

// mustIndex is offsetIndex for coordinates known to be inside the window.
func (g *RollGrid3D[T]) mustIndex(p Point3) int {
	i, ok := g.offsetIndex(p)
	if !ok {
		panic(msgCoordOutOfBounds)
	}
	return i
}

// Get returns a pointer to the cell at p, or nil when p is outside the
// window. Querying outside the window is a routine case, not an error.
func (g *RollGrid3D[T]) Get(p Point3) *T {
	i, ok := g.offsetIndex(p)
	if !ok {
		return nil
	}
	return g.cells.At(i)
}

// Set swaps value into the cell at p and returns the previous value.
// The second result is false when p is outside the window, in which case
// the grid is unchanged.
func (g *RollGrid3D[T]) Set(p Point3, value T) (T, bool) {
	i, ok := g.offsetIndex(p)
	if !ok {
		var zero T
		return zero, false
	}
	return g.cells.Replace(i, value), true
}

// RelativeOffset returns p relative to the grid's offset.
func (g *RollGrid3D[T]) RelativeOffset(p Point3) Point3 {
	return p.Sub(g.offset)
}

// Width is the size along the X axis.
func (g *RollGrid3D[T]) Width() uint32 { return g.width }

// Height is the size along the Y axis.
func (g *RollGrid3D[T]) Height() uint32 { return g.height }

// Depth is the size along the Z axis.
func (g *RollGrid3D[T]) Depth() uint32 { return g.depth }

// Size returns the per-axis sizes of the window.
func (g *RollGrid3D[T]) Size() (width, height, depth uint32) {
	return g.width, g.height, g.depth
}

// Offset is the minimum corner of the window in world space.
func (g *RollGrid3D[T]) Offset() Point3 { return g.offset }

// WrapOffset returns the internal per-axis storage rotation. It is always
// componentwise less than the size.
func (g *RollGrid3D[T]) WrapOffset() (x, y, z uint32) {
	return g.wrapX, g.wrapY, g.wrapZ
}

// XMin is the minimum bound of the window on the X axis.
func (g *RollGrid3D[T]) XMin() int32 { return g.offset.X }

// YMin is the minimum bound of the window on the Y axis.
func (g *RollGrid3D[T]) YMin() int32 { return g.offset.Y }

// ZMin is the minimum bound of the window on the Z axis.
func (g *RollGrid3D[T]) ZMin() int32 { return g.offset.Z }

// XMax is the maximum bound of the window on the X axis (exclusive).
func (g *RollGrid3D[T]) XMax() int32 { return g.offset.X + int32(g.width) }

// YMax is the maximum bound of the window on the Y axis (exclusive).
func (g *RollGrid3D[T]) YMax() int32 { return g.offset.Y + int32(g.height) }

// ZMax is the maximum bound of the window on the Z axis (exclusive).
func (g *RollGrid3D[T]) ZMax() int32 { return g.offset.Z + int32(g.depth) }

// Bounds is the region covered by the window.
func (g *RollGrid3D[T]) Bounds() Bounds3D {
	return Bounds3D{
		Min: g.offset,
		Max: Point3{X: g.XMax(), Y: g.YMax(), Z: g.ZMax()},
	}
}

// Len is the total cell count (width * height * depth).
func (g *RollGrid3D[T]) Len() int { return g.cells.Len() }

// Points iterates every coordinate in the window in scan order.
func (g *RollGrid3D[T]) Points() iter.Seq[Point3] {
	return g.Bounds().Points()
}

// Cells iterates (coordinate, cell pointer) pairs in scan order.
func (g *RollGrid3D[T]) Cells() iter.Seq2[Point3, *T] {
	return func(yield func(Point3, *T) bool) {
		for p := range g.Bounds().Points() {
			if !yield(p, g.cells.At(g.mustIndex(p))) {
				return
			}
		}
	}
}

// Buffer exposes the underlying storage for advanced integrations.
func (g *RollGrid3D[T]) Buffer() *FixedBuffer[T] {
	return &g.cells
}

// Release releases the grid's storage, destroying every live cell exactly
// once. The grid must not be used afterwards.
func (g *RollGrid3D[T]) Release() {
	g.cells.Release(true)
}

// Translate moves the window by delta. Only manage's Reload is invoked;
// see Reposition.
func (g *RollGrid3D[T]) Translate(delta Point3, manage CellManager3[T]) {
	g.Reposition(g.translateTarget(delta), manage)
}

// TryTranslate is the fallible variant of Translate.
func (g *RollGrid3D[T]) TryTranslate(delta Point3, manage TryCellManager3[T]) error {
	return g.TryReposition(g.translateTarget(delta), manage)
}

func (g *RollGrid3D[T]) translateTarget(delta Point3) Point3 {
	x := int64(g.offset.X) + int64(delta.X)
	y := int64(g.offset.Y) + int64(delta.Y)
	z := int64(g.offset.Z) + int64(delta.Z)
	if x < math.MinInt32 || x > math.MaxInt32 ||
		y < math.MinInt32 || y > math.MaxInt32 ||
		z < math.MinInt32 || z > math.MaxInt32 {
		panic(msgOffsetRange)
	}
	return Point3{X: int32(x), Y: int32(y), Z: int32(z)}
}

// Reposition moves the window to a new offset without changing its size.
// Cells whose logical coordinate stays inside both the old and new windows
// keep their storage slot untouched and see no callback; every other cell
// receives exactly one Reload call. When the move is at least the window
// size on some axis every cell is reloaded in scan order. Only manage's
// Reload is invoked.
func (g *RollGrid3D[T]) Reposition(position Point3, manage CellManager3[T]) {
	// the bridged callbacks never fail
	_ = g.tryReposition(position, infallible3[T]{m: manage})
}

// TryReposition is the fallible variant of Reposition. On a Reload error
// the operation stops; cells already reloaded stay reloaded and the wrap
// and grid offsets remain at their new values.
func (g *RollGrid3D[T]) TryReposition(position Point3, manage TryCellManager3[T]) error {
	return g.tryReposition(position, manage)
}

func (g *RollGrid3D[T]) tryReposition(position Point3, manage TryCellManager3[T]) error {
	dx := int64(position.X) - int64(g.offset.X)
	dy := int64(position.Y) - int64(g.offset.Y)
	dz := int64(position.Z) - int64(g.offset.Z)
	if dx == 0 && dy == 0 && dz == 0 {
		return nil
	}
	checkLayout3(g.width, g.height, g.depth, position)
	w := int64(g.width)
	h := int64(g.height)
	d := int64(g.depth)
	oldOffset := g.offset
	g.offset = position
	if absI64(dx) >= w || absI64(dy) >= h || absI64(dz) >= d {
		// Disjoint windows: reload everything, old coordinates paired by
		// relative position.
		for p := range g.Bounds().Points() {
			old := Point3{
				X: oldOffset.X + (p.X - position.X),
				Y: oldOffset.Y + (p.Y - position.Y),
				Z: oldOffset.Z + (p.Z - position.Z),
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
	g.wrapZ = uint32((int64(g.wrapZ) + modI64(dz, d)) % d)
	nx := int64(position.X)
	ny := int64(position.Y)
	nz := int64(position.Z)
	// Decompose the newly-entered region into up to three disjoint pieces:
	// the X slab over the full cross-section, the Z slab over the kept X
	// range, and the Y slab over the kept X and Z ranges.
	xsLo, xsHi := enteredSpan(nx, nx+w, dx)
	xkLo, xkHi := keptSpan(nx, nx+w, dx)
	ysLo, ysHi := enteredSpan(ny, ny+h, dy)
	zsLo, zsHi := enteredSpan(nz, nz+d, dz)
	zkLo, zkHi := keptSpan(nz, nz+d, dz)
	pieces := [3]Bounds3D{
		NewBounds3D(Pt3(int32(xsLo), int32(ny), int32(nz)), Pt3(int32(xsHi), int32(ny+h), int32(nz+d))),
		NewBounds3D(Pt3(int32(xkLo), int32(ny), int32(zsLo)), Pt3(int32(xkHi), int32(ny+h), int32(zsHi))),
		NewBounds3D(Pt3(int32(xkLo), int32(ysLo), int32(zkLo)), Pt3(int32(xkHi), int32(ysHi), int32(zkHi))),
	}
	for _, piece := range pieces {
		for p := range piece.Points() {
			old := Point3{
				X: wrapPrior(p.X, oldOffset.X, w),
				Y: wrapPrior(p.Y, oldOffset.Y, h),
				Z: wrapPrior(p.Z, oldOffset.Z, d),
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
func (g *RollGrid3D[T]) Resize(width, height, depth uint32, manage CellManager3[T]) {
	g.ResizeAndReposition(width, height, depth, g.offset, manage)
}

// TryResize is the fallible variant of Resize.
func (g *RollGrid3D[T]) TryResize(width, height, depth uint32, manage TryCellManager3[T]) error {
	return g.TryResizeAndReposition(width, height, depth, g.offset, manage)
}

// ResizeAndReposition changes the window size and offset in one step.
// Cells inside both the old and new windows are relocated to the new
// storage without any callback; cells leaving the window receive exactly
// one Unload with their payload; cells entering receive exactly one Load.
// When the size is unchanged this degenerates to Reposition with every
// changed cell unloaded then loaded. The wrap offset resets to zero.
func (g *RollGrid3D[T]) ResizeAndReposition(width, height, depth uint32, position Point3, manage CellManager3[T]) {
	_ = g.tryResizeAndReposition(width, height, depth, position, infallible3[T]{m: manage})
}

// TryResizeAndReposition is the fallible variant of ResizeAndReposition.
// On a callback error the operation stops; cells already transitioned stay
// transitioned and cells already relocated to the new storage are
// discarded without an Unload. Callers needing atomicity must use
// idempotent or compensating callbacks.
func (g *RollGrid3D[T]) TryResizeAndReposition(width, height, depth uint32, position Point3, manage TryCellManager3[T]) error {
	return g.tryResizeAndReposition(width, height, depth, position, manage)
}

func (g *RollGrid3D[T]) tryResizeAndReposition(width, height, depth uint32, position Point3, manage TryCellManager3[T]) error {
	if width == g.width && height == g.height && depth == g.depth {
		return g.tryReposition(position, resizeReload3[T]{m: manage})
	}
	capacity := checkLayout3(width, height, depth, position)
	oldBounds := g.Bounds()
	newBounds := NewBounds3D(position, Point3{
		X: position.X + int32(width),
		Y: position.Y + int32(height),
		Z: position.Z + int32(depth),
	})
	if oldBounds.Intersects(newBounds) {
		// Unload the old cells outside the new bounds as disjoint slabs:
		// the Y sides take the full old cross-section, the Z sides are
		// clipped to the Y overlap, and the X sides are clipped to both
		// overlaps so no cell is unloaded twice.
		ykLo := max(oldBounds.Min.Y, newBounds.Min.Y)
		ykHi := min(oldBounds.Max.Y, newBounds.Max.Y)
		zkLo := max(oldBounds.Min.Z, newBounds.Min.Z)
		zkHi := min(oldBounds.Max.Z, newBounds.Max.Z)
		slabs := [6]Bounds3D{
			NewBounds3D(oldBounds.Min, Pt3(oldBounds.Max.X, newBounds.Min.Y, oldBounds.Max.Z)),
			NewBounds3D(Pt3(oldBounds.Min.X, newBounds.Max.Y, oldBounds.Min.Z), oldBounds.Max),
			NewBounds3D(Pt3(oldBounds.Min.X, ykLo, oldBounds.Min.Z), Pt3(oldBounds.Max.X, ykHi, newBounds.Min.Z)),
			NewBounds3D(Pt3(oldBounds.Min.X, ykLo, newBounds.Max.Z), Pt3(oldBounds.Max.X, ykHi, oldBounds.Max.Z)),
			NewBounds3D(Pt3(oldBounds.Min.X, ykLo, zkLo), Pt3(newBounds.Min.X, ykHi, zkHi)),
			NewBounds3D(Pt3(newBounds.Max.X, ykLo, zkLo), Pt3(oldBounds.Max.X, ykHi, zkHi)),
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
			p := pointAt3(i, width, depth, position)
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
			return manage.Load(pointAt3(i, width, depth, position))
		})
		if err != nil {
			return err
		}
		g.cells.Release(false)
		g.cells = cells
	}
	g.width = width
	g.height = height
	g.depth = depth
	g.offset = position
	g.wrapX = 0
	g.wrapY = 0
	g.wrapZ = 0
	return nil
}

// InflateSize grows the window by amount on every side, keeping it
// centered: the offset moves by -amount per axis and each size grows by
// 2*amount.
func (g *RollGrid3D[T]) InflateSize(amount uint32, manage CellManager3[T]) {
	width, height, depth, position := g.inflateLayout(amount)
	g.ResizeAndReposition(width, height, depth, position, manage)
}

// TryInflateSize is the fallible variant of InflateSize.
func (g *RollGrid3D[T]) TryInflateSize(amount uint32, manage TryCellManager3[T]) error {
	width, height, depth, position := g.inflateLayout(amount)
	return g.TryResizeAndReposition(width, height, depth, position, manage)
}

func (g *RollGrid3D[T]) inflateLayout(amount uint32) (width, height, depth uint32, position Point3) {
	grow := uint64(amount) * 2
	w := uint64(g.width) + grow
	h := uint64(g.height) + grow
	d := uint64(g.depth) + grow
	if w > math.MaxUint32 || h > math.MaxUint32 || d > math.MaxUint32 {
		panic(msgInflateOverflow)
	}
	x := int64(g.offset.X) - int64(amount)
	y := int64(g.offset.Y) - int64(amount)
	z := int64(g.offset.Z) - int64(amount)
	if x < math.MinInt32 || y < math.MinInt32 || z < math.MinInt32 {
		panic(msgOffsetRange)
	}
	return uint32(w), uint32(h), uint32(d), Point3{X: int32(x), Y: int32(y), Z: int32(z)}
}

// DeflateSize shrinks the window by amount on every side, keeping it
// centered: the offset moves by +amount per axis and each size shrinks by
// 2*amount. Deflating an axis to zero or below panics.
func (g *RollGrid3D[T]) DeflateSize(amount uint32, manage CellManager3[T]) {
	width, height, depth, position := g.deflateLayout(amount)
	g.ResizeAndReposition(width, height, depth, position, manage)
}

// TryDeflateSize is the fallible variant of DeflateSize.
func (g *RollGrid3D[T]) TryDeflateSize(amount uint32, manage TryCellManager3[T]) error {
	width, height, depth, position := g.deflateLayout(amount)
	return g.TryResizeAndReposition(width, height, depth, position, manage)
}

func (g *RollGrid3D[T]) deflateLayout(amount uint32) (width, height, depth uint32, position Point3) {
	shrink := uint64(amount) * 2
	if shrink >= uint64(g.width) || shrink >= uint64(g.height) || shrink >= uint64(g.depth) {
		panic(msgDeflateTooLarge)
	}
	return g.width - uint32(shrink), g.height - uint32(shrink), g.depth - uint32(shrink), Point3{
		X: g.offset.X + int32(amount),
		Y: g.offset.Y + int32(amount),
		Z: g.offset.Z + int32(amount),
	}
}

// resizeReload3 turns a reposition reload into an unload of the departing
// cell followed by a load of the entering one, for the equal-size resize
// path.
type resizeReload3[T any] struct {
	m TryCellManager3[T]
}

func (r resizeReload3[T]) Load(pos Point3) (T, error) {
	return r.m.Load(pos)
}

func (r resizeReload3[T]) Unload(pos Point3, value T) error {
	return r.m.Unload(pos, value)
}

func (r resizeReload3[T]) Reload(oldPos, newPos Point3, value *T) error {
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
