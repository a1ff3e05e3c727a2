package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/danmaku/internal/config"
	"github.com/zeusync/danmaku/internal/core/enemy"
	"github.com/zeusync/danmaku/internal/core/observability/log"
	"github.com/zeusync/danmaku/internal/injector"
	"github.com/zeusync/danmaku/internal/stage"
	"github.com/zeusync/danmaku/pkg/sequence"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	ticks := flag.Int("ticks", -1, "frames to simulate, overrides stage.ticks")
	verify := flag.Bool("verify", false, "replay the run in parallel and compare fingerprints")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *ticks, *verify); err != nil {
		fmt.Fprintln(os.Stderr, "danmaku:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, ticks int, verify bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			return err
		}
	}
	if ticks >= 0 {
		cfg.Stage.Ticks = ticks
	}

	st := injector.InitializeStage(cfg)
	logger := log.Provide()
	defer func() { _ = logger.Sync() }()

	rec := stage.Recording{Settings: injector.ProvideSettings(cfg)}
	in := stage.Input{PlayerXMillis: cfg.Stage.PlayerXMillis, PlayerYMillis: cfg.Stage.PlayerYMillis}
	for i := 0; i < cfg.Stage.Ticks && !st.Ended(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec.Record(in)
		res, err := st.Step(in)
		if err != nil {
			return err
		}
		if st.Tick()%60 == 0 {
			bullets := sequence.From(res.Objects).
				Filter(func(o *enemy.Object) bool { return o.Kind == enemy.KindBullet }).
				Count()
			fmt.Printf("tick %5d  objects %4d  bullets %4d  spawned %3d  fingerprint %016x\n",
				st.Tick(), len(res.Objects), bullets, len(res.Spawned), st.Fingerprint())
		}
	}
	fmt.Printf("finished after %d ticks, level ended: %t, fingerprint %016x\n", st.Tick(), st.Ended(), st.Fingerprint())

	if !verify {
		return nil
	}
	fp, err := stage.VerifyReplay(ctx, stage.Demo, rec, cfg.Replay.Runs, cfg.Replay.Workers)
	if err != nil {
		return err
	}
	if fp != st.Fingerprint() {
		return errors.New("replay does not match the live run")
	}
	logger.Info("replay verified",
		log.Int("runs", cfg.Replay.Runs),
		log.Int("workers", cfg.Replay.Workers),
		log.String("fingerprint", fmt.Sprintf("%016x", fp)))
	return nil
}
