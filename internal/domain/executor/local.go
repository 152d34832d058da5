package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

// LocalExecutor is the §9 "placeholder: local" variant of Executor — it runs
// everything through os/exec against the local filesystem instead of over
// SSH. It exists for tests and for single-machine dry-runs; it is never
// used against a real multi-host topology.
type LocalExecutor struct {
	ready bool
}

// NewLocalExecutor constructs a local executor.
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{}
}

func (e *LocalExecutor) Ready(context.Context) error {
	e.ready = true
	return nil
}

func (e *LocalExecutor) Finish() error {
	e.ready = false
	return nil
}

func (e *LocalExecutor) shell(ctx context.Context, cmd string) (runResult, error) {
	if !e.ready {
		return runResult{}, errors.New("executor is not ready")
	}
	c := exec.CommandContext(ctx, "sh", "-c", cmd)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	err := c.Run()
	result := runResult{stdout: stdout.Bytes(), stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.exitCode = exitErr.ExitCode()
		return result, nil
	}
	return runResult{}, err
}

func (e *LocalExecutor) shellChecked(ctx context.Context, cmd string) (runResult, error) {
	result, err := e.shell(ctx, cmd)
	if err != nil {
		return result, err
	}
	if !result.ok() {
		return result, fmt.Errorf("command %q exited %d: %s", cmd, result.exitCode, strings.TrimSpace(string(result.stderr)))
	}
	return result, nil
}

// Execute mirrors SSHExecutor.Execute's hook/strategy sequencing, against
// the local shell instead of a remote session.
func (e *LocalExecutor) Execute(ctx context.Context, plan catalog.Plan) (string, error) {
	if plan.Status != catalog.SSHAgentPlan {
		return "", fmt.Errorf("executor only accepts ssh-agent plans, got %q", plan.Status)
	}

	if plan.Hooks.Pre != nil {
		if err := e.runHook(ctx, *plan.Hooks.Pre); err != nil {
			return "", fmt.Errorf("pre-hook failed: %w", err)
		}
	}

	archive := archivePath()
	switch plan.Strategy.Kind {
	case catalog.FilesStrategy:
		quoted := make([]string, len(plan.Strategy.Paths))
		for i, p := range plan.Strategy.Paths {
			quoted[i] = shellQuote(p)
		}
		if _, err := e.shellChecked(ctx, fmt.Sprintf("tar czvfP %s %s", shellQuote(archive), strings.Join(quoted, " "))); err != nil {
			return "", err
		}
	case catalog.MongodbStrategy:
		dumpDir := fmt.Sprintf("/tmp/mongodump_%d", time.Now().UnixNano())
		result, err := e.shell(ctx, fmt.Sprintf("mongodump -o %s %s", shellQuote(dumpDir), shellQuote(plan.Strategy.ConnectionURL)))
		if err != nil {
			return "", fmt.Errorf("mongodump: %w", err)
		}
		if !result.ok() && strings.Contains(string(result.stderr), mongodumpFailureMarker) {
			return "", fmt.Errorf("mongodump failed: %s", strings.TrimSpace(string(result.stderr)))
		}
		if _, err := e.shellChecked(ctx, fmt.Sprintf("tar cvfP %s %s", shellQuote(archive), shellQuote(dumpDir))); err != nil {
			return "", err
		}
		if _, err := e.shellChecked(ctx, fmt.Sprintf("rm -r %s", shellQuote(dumpDir))); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown backup strategy kind %q", plan.Strategy.Kind)
	}

	if plan.Hooks.Post != nil {
		if err := e.runHook(ctx, *plan.Hooks.Post); err != nil {
			return "", fmt.Errorf("post-hook failed: %w", err)
		}
	}

	return archive, nil
}

func (e *LocalExecutor) runHook(ctx context.Context, h catalog.Hook) error {
	cmd := h.Cmd
	if h.Cwd != "" {
		cmd = fmt.Sprintf("cd %s && %s", shellQuote(h.Cwd), h.Cmd)
	}
	_, err := e.shellChecked(ctx, cmd)
	return err
}

// Download and Upload are plain filesystem copies locally.
func (e *LocalExecutor) Download(_ context.Context, remote, local string) error {
	return copyFile(remote, local)
}

func (e *LocalExecutor) Upload(_ context.Context, local, remote string) error {
	return copyFile(local, remote)
}

// ScpDownload and ScpUpload degrade to plain copies: there is no real peer
// to dial locally, so the PeerConfig is accepted for interface parity but
// ignored.
func (e *LocalExecutor) ScpDownload(_ context.Context, remote string, _ PeerConfig, localOnPeer string) error {
	return copyFile(remote, localOnPeer)
}

func (e *LocalExecutor) ScpUpload(_ context.Context, localOnSession string, _ PeerConfig, remoteOnPeer string) error {
	return copyFile(localOnSession, remoteOnPeer)
}

func (e *LocalExecutor) Move(ctx context.Context, src, dest string) error {
	_, err := e.shellChecked(ctx, fmt.Sprintf("mv %s %s", shellQuote(src), shellQuote(dest)))
	return err
}

func (e *LocalExecutor) Delete(ctx context.Context, path string) error {
	_, err := e.shellChecked(ctx, fmt.Sprintf("rm -f %s", shellQuote(path)))
	return err
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
