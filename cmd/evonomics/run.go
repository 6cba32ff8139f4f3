package main

import (
	"database/sql"
	"os"
	"runtime/pprof"
	"time"

	_ "github.com/ClickHouse/clickhouse-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evomata/evonomics/config"
	"github.com/evomata/evonomics/render"
	"github.com/evomata/evonomics/sim"
	"github.com/evomata/evonomics/stats"
	"github.com/evomata/evonomics/stats/sender"
	"github.com/evomata/evonomics/worldgen"
)

func newRunCmd(root *rootFlags) *cobra.Command {
	var (
		ticks      int
		seed       int64
		cpuprofile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate headless and write snapshots and charts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := buildLogger(root.verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ticks") {
				cfg.Run.Ticks = ticks
			}
			if cmd.Flags().Changed("seed") {
				cfg.Sim.Seed = seed
				cfg.Walls.Seed = seed
			}

			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return errors.Wrap(err, "create profile")
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return errors.Wrap(err, "start profile")
				}
				defer pprof.StopCPUProfile()
			}

			return runHeadless(cfg, logger)
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 0, "ticks to simulate (overrides config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "world and wall seed (overrides config)")
	cmd.Flags().StringVar(&cpuprofile, "cpuprofile", "", "write a CPU profile to this file")
	return cmd
}

func runHeadless(cfg config.Config, logger *zap.SugaredLogger) error {
	walls, err := worldgen.Generate(cfg.Walls, cfg.Sim.Width, cfg.Sim.Height)
	if err != nil {
		return err
	}
	s := sim.New(walls, logger, cfg.Sim)

	sender, err := buildSender(cfg.Stats, logger)
	if err != nil {
		return err
	}
	if sender != nil {
		defer sender.Stop(true)
	}

	if err := os.MkdirAll(cfg.Run.OutDir, 0o755); err != nil {
		return errors.Wrap(err, "out dir")
	}

	run := time.Now().Format("run-20060102-150405")
	logger.Infow("starting run",
		"run", run,
		"ticks", cfg.Run.Ticks,
		"size", cfg.Sim.Width*cfg.Sim.Height,
		"walls", cfg.Walls.Generator,
	)

	history := make([]sim.TickStats, 0, cfg.Run.Ticks)
	snapshots := 0
	for i := 0; i < cfg.Run.Ticks; i++ {
		ts := s.Tick(1)
		history = append(history, ts)

		if sender != nil {
			if err := sender.Push(stats.NewTickSample(run, ts)); err != nil {
				logger.Warnw("stats push failed", "error", err)
			}
		}
		if cfg.Run.SnapshotEvery > 0 && (i+1)%cfg.Run.SnapshotEvery == 0 {
			if _, err := render.WriteSnapshot(cfg.Run.OutDir, snapshots, s.View()); err != nil {
				return err
			}
			snapshots++
		}
	}

	if err := render.WriteCharts(cfg.Run.OutDir, history); err != nil {
		return err
	}

	last := s.Stats()
	logger.Infow("run finished",
		"run", run,
		"tick", last.Tick,
		"cells", last.Cells,
		"total_food", last.TotalFood,
	)
	return nil
}

func buildSender(cfg config.Stats, logger *zap.SugaredLogger) (*sender.Sender, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	connect, err := sql.Open("clickhouse", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "open clickhouse")
	}
	if err := connect.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping clickhouse")
	}

	senderCfg := cfg.Sender
	if senderCfg.Logger == nil {
		senderCfg.Logger = logger
	}
	if senderCfg.SendInterval <= 0 {
		senderCfg.SendInterval = sender.ConfigDefault.SendInterval
	}
	if senderCfg.SendLimit <= 0 {
		senderCfg.SendLimit = sender.ConfigDefault.SendLimit
	}
	sender := sender.NewSender(connect, senderCfg)
	sender.RunPusher(senderCfg.SendInterval, senderCfg.SendLimit)
	return sender, nil
}
