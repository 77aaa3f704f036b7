package rollgrid

// Invariant violations are contract breaches by the caller and are not
// recoverable; they panic with one of the messages below. Failures coming
// out of caller-supplied callbacks travel through the Try* methods as
// ordinary errors instead.
const (
	msgAreaIsZero       = "rollgrid: width/height cannot be 0"
	msgVolumeIsZero     = "rollgrid: width/height/depth cannot be 0"
	msgSizeTooLarge     = "rollgrid: size is too large"
	msgOffsetRange      = "rollgrid: offset is too close to the maximum bound"
	msgOutOfBounds      = "rollgrid: index out of bounds"
	msgUnallocated      = "rollgrid: use of released buffer"
	msgRawCapacity      = "rollgrid: negative capacity"
	msgNilRawPointer    = "rollgrid: nil pointer with nonzero capacity"
	msgDeflateTooLarge  = "rollgrid: deflate amount exceeds grid size"
	msgInflateOverflow  = "rollgrid: inflate amount is too large"
	msgCoordOutOfBounds = "rollgrid: coordinate out of bounds"
)
