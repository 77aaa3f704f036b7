package rollgrid

import "iter"

// Bounds3D is an axis-aligned box over integer coordinates with an
// inclusive minimum and an exclusive maximum.
type Bounds3D struct {
	// Min is the inclusive minimum bound.
	Min Point3
	// Max is the exclusive maximum bound.
	Max Point3
}

// NewBounds3D creates a Bounds3D from an inclusive min and exclusive max.
// If you don't know which corner is which, use Bounds3DFromCorners.
func NewBounds3D(min, max Point3) Bounds3D {
	return Bounds3D{Min: min, Max: max}
}

// Bounds3DFromCorners resolves the inclusive min and exclusive max from two
// arbitrary corner points.
func Bounds3DFromCorners(a, b Point3) Bounds3D {
	return Bounds3D{
		Min: Point3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: Point3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// Width is the size along the X axis.
func (b Bounds3D) Width() uint32 {
	return uint32(int64(b.Max.X) - int64(b.Min.X))
}

// Height is the size along the Y axis.
func (b Bounds3D) Height() uint32 {
	return uint32(int64(b.Max.Y) - int64(b.Min.Y))
}

// Depth is the size along the Z axis.
func (b Bounds3D) Depth() uint32 {
	return uint32(int64(b.Max.Z) - int64(b.Min.Z))
}

// Volume is Width * Height * Depth, widened to avoid overflow for any box
// whose cell count fits the addressable range.
func (b Bounds3D) Volume() int64 {
	return int64(b.Width()) * int64(b.Height()) * int64(b.Depth())
}

// IsEmpty reports whether the bounds cover no coordinates.
func (b Bounds3D) IsEmpty() bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y || b.Min.Z >= b.Max.Z
}

// XMin is the minimum bound on the X axis.
func (b Bounds3D) XMin() int32 { return b.Min.X }

// YMin is the minimum bound on the Y axis.
func (b Bounds3D) YMin() int32 { return b.Min.Y }

// ZMin is the minimum bound on the Z axis.
func (b Bounds3D) ZMin() int32 { return b.Min.Z }

// XMax is the maximum bound on the X axis (exclusive).
func (b Bounds3D) XMax() int32 { return b.Max.X }

// YMax is the maximum bound on the Y axis (exclusive).
func (b Bounds3D) YMax() int32 { return b.Max.Y }

// ZMax is the maximum bound on the Z axis (exclusive).
func (b Bounds3D) ZMax() int32 { return b.Max.Z }

// Intersects tests for intersection with another Bounds3D. Empty bounds
// intersect nothing, including themselves.
func (b Bounds3D) Intersects(other Bounds3D) bool {
	return b.Min.X < other.Max.X &&
		other.Min.X < b.Max.X &&
		b.Min.Y < other.Max.Y &&
		other.Min.Y < b.Max.Y &&
		b.Min.Z < other.Max.Z &&
		other.Min.Z < b.Max.Z
}

// Contains determines whether a point is within the bounds.
func (b Bounds3D) Contains(p Point3) bool {
	return p.X >= b.Min.X &&
		p.Y >= b.Min.Y &&
		p.Z >= b.Min.Z &&
		p.X < b.Max.X &&
		p.Y < b.Max.Y &&
		p.Z < b.Max.Z
}

// Intersection returns the overlapping region of two bounds. The result is
// empty when the bounds do not intersect.
func (b Bounds3D) Intersection(other Bounds3D) Bounds3D {
	return Bounds3D{
		Min: Point3{
			X: max(b.Min.X, other.Min.X),
			Y: max(b.Min.Y, other.Min.Y),
			Z: max(b.Min.Z, other.Min.Z),
		},
		Max: Point3{
			X: min(b.Max.X, other.Max.X),
			Y: min(b.Max.Y, other.Max.Y),
			Z: min(b.Max.Z, other.Max.Z),
		},
	}
}

// Points iterates every coordinate in the bounds in scan order: X advances
// first, then Z, then Y, matching the buffer storage layout. The sequence
// is restartable and yields exactly Volume() coordinates. Bounds that are
// empty on any axis yield nothing.
func (b Bounds3D) Points() iter.Seq[Point3] {
	return func(yield func(Point3) bool) {
		if b.IsEmpty() {
			return
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for z := b.Min.Z; z < b.Max.Z; z++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					if !yield(Point3{X: x, Y: y, Z: z}) {
						return
					}
				}
			}
		}
	}
}
