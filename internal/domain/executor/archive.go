package executor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

// Execute builds the backup archive on the session host per spec §4.3:
// optional pre-hook, strategy dispatch, optional post-hook.
func (e *SSHExecutor) Execute(ctx context.Context, plan catalog.Plan) (string, error) {
	if plan.Status != catalog.SSHAgentPlan {
		return "", fmt.Errorf("executor only accepts ssh-agent plans, got %q", plan.Status)
	}

	if plan.Hooks.Pre != nil {
		if err := e.runHook(ctx, *plan.Hooks.Pre); err != nil {
			return "", fmt.Errorf("pre-hook failed: %w", err)
		}
	}

	archive := archivePath()
	if err := e.buildArchive(ctx, archive, plan.Strategy); err != nil {
		return "", err
	}

	if plan.Hooks.Post != nil {
		if err := e.runHook(ctx, *plan.Hooks.Post); err != nil {
			return "", fmt.Errorf("post-hook failed: %w", err)
		}
	}

	return archive, nil
}

func (e *SSHExecutor) runHook(ctx context.Context, h catalog.Hook) error {
	cmd := h.Cmd
	if h.Cwd != "" {
		cmd = fmt.Sprintf("cd %s && %s", shellQuote(h.Cwd), h.Cmd)
	}
	_, err := e.runChecked(ctx, cmd)
	return err
}

func (e *SSHExecutor) buildArchive(ctx context.Context, archive string, strategy catalog.BackupStrategy) error {
	switch strategy.Kind {
	case catalog.FilesStrategy:
		return e.buildFilesArchive(ctx, archive, strategy.Paths)
	case catalog.MongodbStrategy:
		return e.buildMongoArchive(ctx, archive, strategy.ConnectionURL)
	default:
		return fmt.Errorf("unknown backup strategy kind %q", strategy.Kind)
	}
}

func (e *SSHExecutor) buildFilesArchive(ctx context.Context, archive string, paths []string) error {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = shellQuote(p)
	}
	cmd := fmt.Sprintf("tar czvfP %s %s", shellQuote(archive), strings.Join(quoted, " "))
	_, err := e.runChecked(ctx, cmd)
	return err
}

// mongodumpFailureMarker is the literal substring that distinguishes a
// genuine mongodump failure from its routine, noisy informational stderr
// (spec §4.3).
const mongodumpFailureMarker = "Failed"

func (e *SSHExecutor) buildMongoArchive(ctx context.Context, archive, connectionURL string) error {
	dumpDir := fmt.Sprintf("/tmp/mongodump_%d", time.Now().UnixNano())

	dumpCmd := fmt.Sprintf("mongodump -o %s %s", shellQuote(dumpDir), shellQuote(connectionURL))
	result, err := e.run(ctx, dumpCmd)
	if err != nil {
		return fmt.Errorf("mongodump: %w", err)
	}
	if !result.ok() && strings.Contains(string(result.stderr), mongodumpFailureMarker) {
		return fmt.Errorf("mongodump failed: %s", strings.TrimSpace(string(result.stderr)))
	}

	if _, err := e.runChecked(ctx, fmt.Sprintf("tar cvfP %s %s", shellQuote(archive), shellQuote(dumpDir))); err != nil {
		return fmt.Errorf("tar mongodump output: %w", err)
	}

	if _, err := e.runChecked(ctx, fmt.Sprintf("rm -r %s", shellQuote(dumpDir))); err != nil {
		return fmt.Errorf("clean up dump directory: %w", err)
	}

	return nil
}

// archivePath generates a unique path under /tmp for one backup run.
func archivePath() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "/tmp/backup" + strconv.FormatInt(time.Now().UnixNano(), 36) + suffix[:8] + ".tar.gz"
}
