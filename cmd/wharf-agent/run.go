package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wharf-ops/wharf/internal/config"
	"github.com/wharf-ops/wharf/internal/domain/catalog"
	"github.com/wharf-ops/wharf/internal/domain/coordinator"
	"github.com/wharf-ops/wharf/internal/domain/executor"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Plan and execute every due backup blueprint",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		return err
	}

	store, err := connectStore(ctx, cfg)
	if err != nil {
		printError(err)
		return err
	}
	defer func() { _ = store.Close(ctx) }()

	log.Info().Str("agent", cfg.AgentID.String()).Msg("loading catalog snapshot")
	snapshot, err := store.LoadSnapshot(ctx)
	if err != nil {
		printError(err)
		return err
	}

	newExecutor := coordinator.DefaultExecutorFactory
	if localFlag {
		log.Warn().Msg("--local: every session will run against the local filesystem, not real SSH hosts")
		newExecutor = func(catalog.SSHConfig) executor.Executor { return executor.NewLocalExecutor() }
	}

	reporter := newCLIReporter(yesFlag)
	if err := coordinator.Run(ctx, snapshot, store, reporter, time.Now(), newExecutor); err != nil {
		printError(err)
		return err
	}

	log.Info().Msg("run complete")
	return nil
}
