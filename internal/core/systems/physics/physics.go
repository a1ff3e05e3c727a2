package physics

import (
	"math"
	"math/bits"
)

const (
	trigShift = 30
	trigOne   = 1 << trigShift
	trigHalf  = 1 << (trigShift - 1)

	// sinStep is the table resolution in millidegrees; values in between are
	// linearly interpolated.
	sinStep    = 100
	sinEntries = QuarterCircle/sinStep + 1

	atanEntries = 4096
)

var (
	// sinLUT holds sin over one quadrant in Q2.30.
	sinLUT [sinEntries]int64
	// atanLUT maps ratio i/atanEntries in [0,1] to atan(ratio) in millidegrees.
	atanLUT [atanEntries + 1]int64
)

func init() {
	for i := range sinLUT {
		rad := float64(i*sinStep) / FullCircle * 2 * math.Pi
		sinLUT[i] = int64(math.Round(math.Sin(rad) * trigOne))
	}
	for i := range atanLUT {
		deg := math.Atan(float64(i)/atanEntries) * 180 / math.Pi
		atanLUT[i] = int64(math.Round(deg * MilliScale))
	}
}

// NormalizeDirection maps any millidegree value into [0, FullCircle).
func NormalizeDirection(d int64) int64 {
	d %= FullCircle
	if d < 0 {
		d += FullCircle
	}
	return d
}

// Sin returns sin(direction) in Q2.30.
func Sin(direction int64) int64 {
	d := NormalizeDirection(direction)
	switch {
	case d <= QuarterCircle:
		return quarterSin(d)
	case d <= HalfCircle:
		return quarterSin(HalfCircle - d)
	case d <= 3*QuarterCircle:
		return -quarterSin(d - HalfCircle)
	default:
		return -quarterSin(FullCircle - d)
	}
}

// Cos returns cos(direction) in Q2.30.
func Cos(direction int64) int64 {
	return Sin(direction + QuarterCircle)
}

func quarterSin(d int64) int64 {
	idx := d / sinStep
	rem := d % sinStep
	if rem == 0 {
		return sinLUT[idx]
	}
	lo, hi := sinLUT[idx], sinLUT[idx+1]
	return lo + (hi-lo)*rem/sinStep
}

// ScaleByRatio multiplies v by a Q2.30 ratio, rounding half away from zero so
// that mirrored directions produce mirrored offsets.
func ScaleByRatio(v, ratio int64) int64 {
	if v == 0 || ratio == 0 {
		return 0
	}
	negative := (v < 0) != (ratio < 0)
	hi, lo := bits.Mul64(abs64(v), abs64(ratio))
	lo, carry := bits.Add64(lo, trigHalf, 0)
	hi += carry
	result := int64(hi<<(64-trigShift) | lo>>trigShift)
	if negative {
		return -result
	}
	return result
}

// GetOffset converts speed, movement direction and elapsed time into a
// position delta. The magnitude is speed*elapsed millipixels.
func GetOffset(speedInMillipixelsPerMillisecond, movementDirectionInMillidegrees, elapsedMilliseconds int64) Offset {
	magnitude := speedInMillipixelsPerMillisecond * elapsedMilliseconds
	return Offset{
		DeltaXMillis: ScaleByRatio(magnitude, Sin(movementDirectionInMillidegrees)),
		DeltaYMillis: ScaleByRatio(magnitude, Cos(movementDirectionInMillidegrees)),
	}
}

// GetMovementDirection returns the heading from the current position towards
// the desired one. ok is false when both positions coincide and no heading
// can be determined.
func GetMovementDirection(currentX, currentY, desiredX, desiredY int64) (direction int64, ok bool) {
	dx := desiredX - currentX
	dy := desiredY - currentY
	if dx == 0 && dy == 0 {
		return 0, false
	}

	ax, ay := int64(abs64(dx)), int64(abs64(dy))

	// a is the angle off the Y axis inside the first quadrant
	var a int64
	if ax <= ay {
		a = atanRatio(ax, ay)
	} else {
		a = QuarterCircle - atanRatio(ay, ax)
	}

	switch {
	case dx >= 0 && dy >= 0:
		return a, true
	case dx >= 0:
		return HalfCircle - a, true
	case dy < 0:
		return HalfCircle + a, true
	default:
		return FullCircle - a, true
	}
}

// atanRatio returns atan(num/den) in millidegrees for 0 <= num <= den, den > 0.
func atanRatio(num, den int64) int64 {
	hi, lo := bits.Mul64(uint64(num), atanEntries)
	q, r := bits.Div64(hi, lo, uint64(den))
	idx := int64(q)
	if idx >= atanEntries {
		return atanLUT[atanEntries]
	}
	lower, upper := atanLUT[idx], atanLUT[idx+1]
	return lower + (upper-lower)*int64(r)/den
}

func abs64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
