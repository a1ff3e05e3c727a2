package stage

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/danmaku/internal/core/events/bus"
	"github.com/zeusync/danmaku/internal/core/observability/log"
	"github.com/zeusync/danmaku/pkg/concurrent"
	"github.com/zeusync/danmaku/pkg/sequence"
)

var ErrReplayDiverged = errors.New("replay diverged")

// Recording is everything needed to reproduce a run bit for bit.
type Recording struct {
	Settings Settings
	Inputs   []Input
}

// Record appends the input of a frame about to be stepped.
func (r *Recording) Record(in Input) {
	r.Inputs = append(r.Inputs, in)
}

// HoldStill returns n frames of a player parked at (x, y).
func HoldStill(xMillis, yMillis int64, n int) []Input {
	inputs := make([]Input, n)
	for i := range inputs {
		inputs[i] = Input{PlayerXMillis: xMillis, PlayerYMillis: yMillis}
	}
	return inputs
}

// Run steps the stage through inputs and stops early if the level ends.
func (s *Stage) Run(ctx context.Context, inputs []Input) error {
	for _, in := range inputs {
		if s.ended {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Step(in); err != nil {
			return err
		}
	}
	return nil
}

// Replay rebuilds the scenario on a silent stage and returns the final
// fingerprint of the recorded run.
func Replay(ctx context.Context, scenario Scenario, rec Recording) (uint64, error) {
	st := New(scenario, rec.Settings, log.Nop(), bus.New())
	if err := st.Run(ctx, rec.Inputs); err != nil {
		return 0, err
	}
	return st.Fingerprint(), nil
}

// VerifyReplay replays rec runs times on up to workers goroutines and checks
// that every run ends with the same fingerprint.
func VerifyReplay(ctx context.Context, scenario Scenario, rec Recording, runs, workers int) (uint64, error) {
	if runs < 1 {
		return 0, fmt.Errorf("verify replay: runs must be positive, got %d", runs)
	}

	attempts := make([]int, runs)
	for i := range attempts {
		attempts[i] = i
	}

	prints, err := concurrent.ParallelMap(ctx, sequence.From(attempts), workers, func(ctx context.Context, _ int) (uint64, error) {
		return Replay(ctx, scenario, rec)
	})
	if err != nil {
		return 0, fmt.Errorf("verify replay: %w", err)
	}

	for i, p := range prints {
		if p != prints[0] {
			return 0, fmt.Errorf("%w: run %d ended at %016x, run 0 at %016x", ErrReplayDiverged, i, p, prints[0])
		}
	}
	return prints[0], nil
}
