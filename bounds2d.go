package rollgrid

import "iter"

// Bounds2D is an axis-aligned rectangle over integer coordinates with an
// inclusive minimum and an exclusive maximum.
type Bounds2D struct {
	// Min is the inclusive minimum bound.
	Min Point
	// Max is the exclusive maximum bound.
	Max Point
}

// NewBounds2D creates a Bounds2D from an inclusive min and exclusive max.
// If you don't know which corner is which, use Bounds2DFromCorners.
func NewBounds2D(min, max Point) Bounds2D {
	return Bounds2D{Min: min, Max: max}
}

// Bounds2DFromCorners resolves the inclusive min and exclusive max from two
// arbitrary corner points.
func Bounds2DFromCorners(a, b Point) Bounds2D {
	return Bounds2D{
		Min: Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// Width is the size along the X axis.
func (b Bounds2D) Width() uint32 {
	return uint32(int64(b.Max.X) - int64(b.Min.X))
}

// Height is the size along the Y axis.
func (b Bounds2D) Height() uint32 {
	return uint32(int64(b.Max.Y) - int64(b.Min.Y))
}

// Area is Width * Height, widened to avoid overflow.
func (b Bounds2D) Area() int64 {
	return int64(b.Width()) * int64(b.Height())
}

// IsEmpty reports whether the bounds cover no coordinates.
func (b Bounds2D) IsEmpty() bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y
}

// XMin is the minimum bound on the X axis.
func (b Bounds2D) XMin() int32 { return b.Min.X }

// YMin is the minimum bound on the Y axis.
func (b Bounds2D) YMin() int32 { return b.Min.Y }

// XMax is the maximum bound on the X axis (exclusive).
func (b Bounds2D) XMax() int32 { return b.Max.X }

// YMax is the maximum bound on the Y axis (exclusive).
func (b Bounds2D) YMax() int32 { return b.Max.Y }

// Intersects tests for intersection with another Bounds2D. Empty bounds
// intersect nothing, including themselves.
func (b Bounds2D) Intersects(other Bounds2D) bool {
	return b.Min.X < other.Max.X &&
		other.Min.X < b.Max.X &&
		b.Min.Y < other.Max.Y &&
		other.Min.Y < b.Max.Y
}

// Contains determines whether a point is within the bounds.
func (b Bounds2D) Contains(p Point) bool {
	return p.X >= b.Min.X &&
		p.Y >= b.Min.Y &&
		p.X < b.Max.X &&
		p.Y < b.Max.Y
}

// Intersection returns the overlapping region of two bounds. The result is
// empty when the bounds do not intersect.
func (b Bounds2D) Intersection(other Bounds2D) Bounds2D {
	return Bounds2D{
		Min: Point{X: max(b.Min.X, other.Min.X), Y: max(b.Min.Y, other.Min.Y)},
		Max: Point{X: min(b.Max.X, other.Max.X), Y: min(b.Max.Y, other.Max.Y)},
	}
}

// Points iterates every coordinate in the bounds in scan order: X advances
// first, then Y. The sequence is restartable and yields exactly Area()
// coordinates. Bounds that are empty on either axis yield nothing.
func (b Bounds2D) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if b.IsEmpty() {
			return
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if !yield(Point{X: x, Y: y}) {
					return
				}
			}
		}
	}
}
