package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wharf-ops/wharf/internal/config"
	"github.com/wharf-ops/wharf/internal/domain/catalog"
	"github.com/wharf-ops/wharf/internal/domain/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what would run, without executing anything",
	RunE:  runPlan,
}

func runPlan(cmd *cobra.Command, _ []string) error {
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

	snapshot, err := store.LoadSnapshot(ctx)
	if err != nil {
		printError(err)
		return err
	}

	now := time.Now()
	for _, b := range snapshot.Blueprints {
		p := planner.Plan(snapshot, b, now, nil)
		fmt.Printf("%s: %s\n", b.ID, planSummary(p))
		if verbose {
			for _, line := range planner.Explain(p) {
				fmt.Printf("  %s\n", line)
			}
		}
	}
	return nil
}

func planSummary(p catalog.Plan) string {
	switch p.Status {
	case catalog.Skipped:
		return "skipped"
	case catalog.Failed:
		return fmt.Sprintf("failed: %s", p.FailureReason)
	case catalog.SSHAgentPlan:
		return fmt.Sprintf("will run on %s", p.Host.ID)
	default:
		return string(p.Status)
	}
}
