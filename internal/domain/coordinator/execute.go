package coordinator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

// localStagingDir is where an archive lands when a plan's clone strategy
// downloads it onto the agent's own filesystem, either because an operator
// asked to retain it locally or because it must be relayed to a redirected
// destination (spec §4.4 step 4, §6).
const localStagingDir = "./backups"

// executePlan runs the eight-step sequence of spec §4.4 for one already
// validated ssh-agent plan: open the session, build the archive, fan it out
// to every destination bucket the planner assigned, then retain or delete
// the source copy. Every opened session is closed via defer regardless of
// which step fails (spec §5's release-discipline rule).
func executePlan(ctx context.Context, snapshot catalog.Snapshot, agent *catalog.Host, plan catalog.Plan, reporter Reporter, newExecutor ExecutorFactory) ([]string, error) {
	var logLines []string
	logf := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		logLines = append(logLines, line)
		reporter.Line(plan.ID, line)
	}

	sourceCfg, ok := agent.SSH[plan.Host.ID]
	if !ok {
		err := fmt.Errorf("agent has no ssh credentials for source host %s", plan.Host.ID)
		logf(err.Error())
		return logLines, err
	}

	session := newExecutor(sourceCfg)
	if err := session.Ready(ctx); err != nil {
		err = fmt.Errorf("connect to source host %s: %w", plan.Host.ID, err)
		logf(err.Error())
		return logLines, err
	}
	defer func() { _ = session.Finish() }()

	archivePath, err := session.Execute(ctx, plan)
	if err != nil {
		err = fmt.Errorf("build archive on %s: %w", plan.Host.ID, err)
		logf(err.Error())
		return logLines, err
	}
	logf("produced archive %s on %s", archivePath, plan.Host.ID)

	name := backupName(plan.ID, time.Now())

	// directlyCloneTo passes hosts[d.host].ssh[source] to ScpUpload, which
	// names how the destination reaches the source, not the reverse — see
	// executor.SSHExecutor.ScpUpload's doc comment for the unresolved
	// precondition this carries (spec §9).
	for _, d := range plan.Clone.DirectlyCloneTo {
		destHost, ok := snapshot.Host(d.Host)
		if !ok {
			err := fmt.Errorf("destination host %s vanished from catalog mid-run", d.Host)
			logf(err.Error())
			return logLines, err
		}
		peerCfg, ok := destHost.SSH[plan.Host.ID]
		if !ok {
			err := fmt.Errorf("destination %s has no credentials back to source host %s", d.Host, plan.Host.ID)
			logf(err.Error())
			return logLines, err
		}
		if err := session.ScpUpload(ctx, archivePath, peerCfg, d.Path+name); err != nil {
			err = fmt.Errorf("clone directly to %s: %w", d.Host, err)
			logf(err.Error())
			return logLines, err
		}
		logf("cloned directly to %s", d.Host)
	}

	for _, d := range plan.Clone.ReceiveCloneFrom {
		if err := receiveClone(ctx, snapshot, agent, plan, d, archivePath, name, logf, newExecutor); err != nil {
			return logLines, err
		}
	}

	var localPath string
	if plan.Clone.DownloadLocally.Enabled {
		if err := os.MkdirAll(localStagingDir, 0o755); err != nil {
			err = fmt.Errorf("prepare local staging directory: %w", err)
			logf(err.Error())
			return logLines, err
		}
		localPath = filepath.Join(localStagingDir, name)
		if err := session.Download(ctx, archivePath, localPath); err != nil {
			err = fmt.Errorf("download archive locally: %w", err)
			logf(err.Error())
			return logLines, err
		}
		logf("downloaded archive locally to %s", localPath)

		for _, d := range plan.Clone.RedirectCloneTo {
			if err := redirectClone(ctx, agent, d, localPath, name, logf, newExecutor); err != nil {
				return logLines, err
			}
		}

		if !plan.Clone.DownloadLocally.Keep {
			if err := os.Remove(localPath); err != nil {
				logf("warning: failed to remove staged copy %s: %v", localPath, err)
			}
		}
	}

	if plan.Clone.RetainOnHost.Enabled {
		dest := plan.Clone.RetainOnHost.Path + name
		if err := session.Move(ctx, archivePath, dest); err != nil {
			err = fmt.Errorf("retain archive on source host: %w", err)
			logf(err.Error())
			return logLines, err
		}
		logf("retained archive on %s at %s", plan.Host.ID, dest)
	} else {
		if err := session.Delete(ctx, archivePath); err != nil {
			logf("warning: failed to delete source archive %s: %v", archivePath, err)
		}
	}

	return logLines, nil
}

// receiveClone opens a session on the destination host and has it pull the
// archive from the source, using the same credential the destination would
// use to reach the source directly (spec §4.3).
func receiveClone(ctx context.Context, snapshot catalog.Snapshot, agent *catalog.Host, plan catalog.Plan, d catalog.Destination, archivePath, name string, logf func(string, ...any), newExecutor ExecutorFactory) error {
	destCfg, ok := agent.SSH[d.Host]
	if !ok {
		err := fmt.Errorf("agent has no ssh credentials for destination %s", d.Host)
		logf(err.Error())
		return err
	}
	destHost, ok := snapshot.Host(d.Host)
	if !ok {
		err := fmt.Errorf("destination host %s vanished from catalog mid-run", d.Host)
		logf(err.Error())
		return err
	}
	peerCfg, ok := destHost.SSH[plan.Host.ID]
	if !ok {
		err := fmt.Errorf("destination %s has no credentials to reach source host %s", d.Host, plan.Host.ID)
		logf(err.Error())
		return err
	}

	destSession := newExecutor(destCfg)
	if err := destSession.Ready(ctx); err != nil {
		err = fmt.Errorf("connect to destination %s: %w", d.Host, err)
		logf(err.Error())
		return err
	}
	defer func() { _ = destSession.Finish() }()

	if err := destSession.ScpDownload(ctx, archivePath, peerCfg, d.Path+name); err != nil {
		err = fmt.Errorf("receive clone from %s on %s: %w", plan.Host.ID, d.Host, err)
		logf(err.Error())
		return err
	}
	logf("%s pulled archive from %s", d.Host, plan.Host.ID)
	return nil
}

// redirectClone relays the agent's staged local copy to a destination the
// source host can neither reach nor be reached by (spec §4.2's redirect
// bucket). The agent acts purely as a courier here.
func redirectClone(ctx context.Context, agent *catalog.Host, d catalog.Destination, localPath, name string, logf func(string, ...any), newExecutor ExecutorFactory) error {
	relayCfg, ok := agent.SSH[d.Host]
	if !ok {
		err := fmt.Errorf("agent has no ssh credentials for redirect destination %s", d.Host)
		logf(err.Error())
		return err
	}
	relay := newExecutor(relayCfg)
	if err := relay.Ready(ctx); err != nil {
		err = fmt.Errorf("connect to redirect destination %s: %w", d.Host, err)
		logf(err.Error())
		return err
	}
	defer func() { _ = relay.Finish() }()

	if err := relay.Upload(ctx, localPath, d.Path+name); err != nil {
		err = fmt.Errorf("redirect clone to %s: %w", d.Host, err)
		logf(err.Error())
		return err
	}
	logf("relayed archive to %s", d.Host)
	return nil
}
