package physics

// Fixed-point units shared by every movement call site.
//
// Positions are in millipixels, speeds in millipixels per millisecond and
// directions in millidegrees. Direction 0 points along +Y and angles grow
// clockwise, so 90 degrees points along +X and 180 degrees along -Y.
const (
	MilliScale = 1000

	QuarterCircle = 90 * MilliScale
	HalfCircle    = 180 * MilliScale
	FullCircle    = 360 * MilliScale
)

// Offset is a position delta produced by one integration step.
type Offset struct {
	DeltaXMillis int64
	DeltaYMillis int64
}
