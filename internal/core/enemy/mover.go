package enemy

import "github.com/zeusync/danmaku/internal/core/systems/physics"

// UpdatePositions advances every live object along its movement direction
// without resolving any action. It moves objects exactly as Update does after
// their action has run.
func UpdatePositions(objects []*Object, elapsedMillis int64) {
	for _, o := range objects {
		if o.IsDestroyed {
			continue
		}
		o.move(elapsedMillis)
	}
}

func (o *Object) move(elapsedMillis int64) {
	offset := physics.GetOffset(
		o.SpeedInMillipixelsPerMillisecond,
		o.MovementDirectionInMillidegrees,
		elapsedMillis)
	o.XMillis += offset.DeltaXMillis
	o.YMillis += offset.DeltaYMillis
}
