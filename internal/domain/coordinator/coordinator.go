// Package coordinator runs the agent's end-to-end invocation: plan every
// blueprint, confirm with the operator, execute each ssh-agent plan in turn,
// and persist a run record for each one (spec §4.4, the "run coordinator",
// C4).
package coordinator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
	"github.com/wharf-ops/wharf/internal/domain/executor"
	"github.com/wharf-ops/wharf/internal/domain/planner"
)

// Store is the subset of the catalog adapter the coordinator needs to
// persist run outcomes. Narrowed to one method so tests can fake it without
// dragging in MongoDB (spec §7: the coordinator never talks to the store
// directly otherwise).
type Store interface {
	SaveRun(ctx context.Context, plan catalog.Plan, logLines []string, runErr error) error
}

// ExecutorFactory builds the Executor bound to one SSH configuration. The
// CLI's --local flag swaps this for one that ignores cfg and always returns
// an executor.LocalExecutor (spec §9's polymorphic executor abstraction).
type ExecutorFactory func(cfg catalog.SSHConfig) executor.Executor

// DefaultExecutorFactory builds a real executor.SSHExecutor per session.
func DefaultExecutorFactory(cfg catalog.SSHConfig) executor.Executor {
	return executor.NewSSHExecutor(cfg)
}

// Run executes one full agent invocation against an already-loaded
// snapshot. now is injected so planning stays deterministic under test.
// newExecutor is the session constructor for every host the plan touches;
// a nil value defaults to DefaultExecutorFactory.
func Run(ctx context.Context, snapshot catalog.Snapshot, store Store, reporter Reporter, now time.Time, newExecutor ExecutorFactory) error {
	if newExecutor == nil {
		newExecutor = DefaultExecutorFactory
	}

	agent, ok := snapshot.Agent()
	if !ok {
		return fmt.Errorf("configured agent host %s not found in catalog", snapshot.AgentID)
	}

	var runnable []catalog.Plan
	for _, bp := range snapshot.Blueprints {
		p := planner.Plan(snapshot, bp, now, nil)
		if p.Status == catalog.SSHAgentPlan {
			runnable = append(runnable, p)
		}
	}

	if len(runnable) == 0 {
		return nil
	}

	if !reporter.Plans(runnable) {
		return nil
	}

	for _, plan := range runnable {
		if err := ctx.Err(); err != nil {
			return err
		}
		logLines, runErr := executePlan(ctx, snapshot, agent, plan, reporter, newExecutor)
		if saveErr := store.SaveRun(ctx, plan, logLines, runErr); saveErr != nil {
			if runErr != nil {
				return fmt.Errorf("plan %s failed (%w) and saving its run record also failed: %v", plan.ID, runErr, saveErr)
			}
			return fmt.Errorf("save run record for plan %s: %w", plan.ID, saveErr)
		}
	}

	return nil
}

// backupName builds the canonical archive file name for one run: the plan
// id with any path separators flattened, followed by a millisecond-precision
// UTC timestamp with dashes substituted for colons, since some destination
// filesystems reject colons in file names (spec §6).
func backupName(planID string, at time.Time) string {
	safeID := strings.ReplaceAll(planID, "/", "-")
	stamp := strings.ReplaceAll(at.UTC().Format("2006-01-02T15:04:05.000Z"), ":", "-")
	return fmt.Sprintf("%s_%s.tar.gz", safeID, stamp)
}
