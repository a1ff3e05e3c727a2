package stage

import (
	"encoding/binary"
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/danmaku/internal/core/enemy"
	"github.com/zeusync/danmaku/pkg/generic"
)

var digests = generic.NewPool(xxhash.New, (*xxhash.Digest).Reset)

// fingerprinter writes tick state into an xxhash digest in a fixed order.
type fingerprinter struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (f *fingerprinter) putInt(v int64) {
	binary.LittleEndian.PutUint64(f.buf[:], uint64(v))
	_, _ = f.d.Write(f.buf[:])
}

func (f *fingerprinter) putBool(v bool) {
	if v {
		f.putInt(1)
	} else {
		f.putInt(0)
	}
}

func (f *fingerprinter) putString(s string) {
	f.putInt(int64(len(s)))
	_, _ = f.d.WriteString(s)
}

func (f *fingerprinter) object(o *enemy.Object) {
	f.putString(o.ID)
	f.putInt(int64(o.Kind))
	f.putInt(o.XMillis)
	f.putInt(o.YMillis)
	f.putInt(o.SpeedInMillipixelsPerMillisecond)
	f.putInt(o.MovementDirectionInMillidegrees)
	f.putInt(o.FacingDirectionInMillidegrees)
	f.putString(o.SpriteName)
	f.putBool(o.IsDestroyed)

	numeric := slices.Sorted(maps.Keys(o.NumericVariables))
	f.putInt(int64(len(numeric)))
	for _, k := range numeric {
		f.putString(k)
		f.putInt(o.NumericVariables[k])
	}
	boolean := slices.Sorted(maps.Keys(o.BooleanVariables))
	f.putInt(int64(len(boolean)))
	for _, k := range boolean {
		f.putString(k)
		f.putBool(o.BooleanVariables[k])
	}
}

func (f *fingerprinter) optional(v *int64) {
	f.putBool(v != nil)
	if v != nil {
		f.putInt(*v)
	}
}

// Fingerprint hashes the observable outcome of one tick: every surviving
// object's state followed by the signals the tick raised.
func Fingerprint(res *enemy.UpdateResult) uint64 {
	return fold(0, res)
}

// fold chains a tick's fingerprint onto the previous running value.
func fold(prev uint64, res *enemy.UpdateResult) uint64 {
	f := fingerprinter{d: digests.Get()}
	defer digests.Put(f.d)
	f.putInt(int64(prev))

	f.putInt(int64(len(res.Objects)))
	for _, o := range res.Objects {
		f.object(o)
	}
	f.putInt(int64(len(res.Spawned)))
	f.putInt(int64(len(res.PowerUps)))
	for _, p := range res.PowerUps {
		f.putInt(p.XMillis)
		f.putInt(p.YMillis)
	}
	f.putInt(int64(len(res.SoundEffects)))
	for _, s := range res.SoundEffects {
		f.putString(s)
	}
	f.putBool(res.ShouldEndLevel)
	f.optional(res.BossHealthMeterNumber)
	f.optional(res.BossHealthMeterMilliPercentage)
	return f.d.Sum64()
}
