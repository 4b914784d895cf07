package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zimgeofence/containersim-go/internal/adapters/persistence"
	"github.com/zimgeofence/containersim-go/internal/application/simulation"
	"github.com/zimgeofence/containersim-go/internal/infrastructure/config"
	"github.com/zimgeofence/containersim-go/internal/infrastructure/database"
	"github.com/zimgeofence/containersim-go/internal/infrastructure/logging"
	"github.com/zimgeofence/containersim-go/internal/infrastructure/pidfile"
)

const setupTimeout = 30 * time.Second

type options struct {
	configPath    string
	numContainers int
	speed         float64
	slots         int
	startDate     string
	saveState     bool
	resume        bool
	stateFile     string
	pidFile       string
	seed          int64
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "simulator",
		Short: "Container-logistics IoT event simulator",
		Long: `Drives a fleet of simulated shipping containers through depot-to-depot
journeys and emits their tracker telemetry into MongoDB.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd, opts); err != nil {
				fmt.Fprintf(os.Stderr, "simulator: %v\n", err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to config file (default: search ./config.yaml)")
	f.IntVar(&opts.numContainers, "num-containers", 0, "population size (overrides NUM_CONTAINERS)")
	f.Float64Var(&opts.speed, "speed", 0, "simulated seconds per real second (overrides SIMULATION_SPEED)")
	f.IntVar(&opts.slots, "slots", 0, "stagger slots (overrides STAGGER_SLOTS)")
	f.StringVar(&opts.startDate, "start-date", "", "simulated start time, RFC 3339 (default: now)")
	f.BoolVar(&opts.saveState, "save-state", false, "checkpoint simulation state on shutdown")
	f.BoolVar(&opts.resume, "resume", false, "resume from a previous checkpoint")
	f.StringVar(&opts.stateFile, "state-file", "simulator_state.json", "checkpoint file path")
	f.StringVar(&opts.pidFile, "pid-file", "/tmp/containersim.pid", "PID file path")
	f.Int64Var(&opts.seed, "seed", 0, "random seed (0 = time-based)")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Explicit flags win over environment and file, including explicit zeros.
	if cmd.Flags().Changed("num-containers") {
		cfg.Simulation.NumContainers = opts.numContainers
	}
	if cmd.Flags().Changed("speed") {
		cfg.Simulation.Speed = opts.speed
	}
	if cmd.Flags().Changed("slots") {
		cfg.Simulation.StaggerSlots = opts.slots
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	startTime := time.Now().UTC()
	if opts.startDate != "" {
		startTime, err = time.Parse(time.RFC3339, opts.startDate)
		if err != nil {
			return fmt.Errorf("invalid --start-date: %w", err)
		}
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	pf := pidfile.New(opts.pidFile)
	if err := pf.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := pf.Release(); err != nil {
			logger.Warn("failed to release PID file", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	client, err := database.NewConnection(setupCtx, &cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Close(disconnectCtx, client); err != nil {
			logger.Warn("failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	db := client.Database(cfg.Database.Name)
	if err := database.SetupCollections(setupCtx, db, cfg.Simulation.RetentionDays); err != nil {
		return err
	}

	store := persistence.NewMongoGeofenceStore(db)
	repo := persistence.NewMongoContainerRepository(db)
	sink := persistence.NewMongoEventWriter(db, logger)

	geofenceCount, err := store.Count(setupCtx)
	if err != nil {
		return fmt.Errorf("failed to count geofences: %w", err)
	}
	logger.Info("simulator starting",
		zap.Int64("seed", seed),
		zap.Int64("geofences", geofenceCount),
		zap.Int("num_containers", cfg.Simulation.NumContainers),
		zap.Time("start_time", startTime))

	sim := simulation.New(cfg.Simulation, store, repo, sink, rng, logger, startTime)
	if err := sim.Bootstrap(ctx); err != nil {
		return err
	}

	if opts.resume {
		state, err := simulation.LoadCheckpoint(opts.stateFile)
		if err != nil {
			return err
		}
		sim.Restore(state)
	}

	if err := sim.Run(ctx); err != nil {
		return err
	}

	if opts.saveState {
		if err := simulation.SaveCheckpoint(sim.Checkpoint(), opts.stateFile); err != nil {
			logger.Error("checkpoint failed", zap.Error(err))
			return err
		}
		logger.Info("checkpoint saved", zap.String("path", opts.stateFile))
	}

	statsCtx, statsCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer statsCancel()
	if counts, err := database.CollectionCounts(statsCtx, db); err != nil {
		logger.Warn("failed to collect shutdown stats", zap.Error(err))
	} else {
		logger.Info("collection stats", zap.Any("documents", counts))
	}

	logger.Info("simulator stopped",
		zap.Int64("events_generated", sim.EventsGenerated()),
		zap.Time("sim_time", sim.SimTime()))
	return nil
}
