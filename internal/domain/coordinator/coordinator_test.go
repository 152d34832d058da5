package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
	"github.com/wharf-ops/wharf/internal/domain/executor"
)

type fakeStore struct {
	saved []catalog.Plan
}

func (f *fakeStore) SaveRun(_ context.Context, plan catalog.Plan, _ []string, _ error) error {
	f.saved = append(f.saved, plan)
	return nil
}

type fakeReporter struct {
	accept bool
	asked  int
	lines  []string
}

func (f *fakeReporter) Plans(plans []catalog.Plan) bool {
	f.asked = len(plans)
	return f.accept
}

func (f *fakeReporter) Line(_ string, line string) {
	f.lines = append(f.lines, line)
}

func TestRunFailsWhenAgentMissing(t *testing.T) {
	t.Parallel()

	snap := catalog.NewSnapshot(nil, nil, nil, catalog.HostID("agent"))
	store := &fakeStore{}
	reporter := &fakeReporter{}

	err := Run(context.Background(), snap, store, reporter, time.Now(), nil)
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

func TestRunExitsSuccessWhenNoBlueprintsAreDue(t *testing.T) {
	t.Parallel()

	agent := catalog.NewHost(catalog.HostID("agent"))
	hosts := map[catalog.HostID]*catalog.Host{agent.ID: agent}
	snap := catalog.NewSnapshot(hosts, nil, nil, agent.ID)

	store := &fakeStore{}
	reporter := &fakeReporter{}

	err := Run(context.Background(), snap, store, reporter, time.Now(), nil)
	require.NoError(t, err)
	assert.Empty(t, store.saved)
	assert.Equal(t, 0, reporter.asked)
}

func TestRunAbortsOnNegativeConfirmation(t *testing.T) {
	t.Parallel()

	agentID := catalog.HostID("agent")
	hostB := catalog.HostID("b")
	agent := catalog.NewHost(agentID)
	agent.SSH[hostB] = catalog.SSHConfig{Username: "root", Host: "10.0.0.2", PrivateKeyPath: "/key"}
	b := catalog.NewHost(hostB)
	b.Available = catalog.Reachable
	b.SSH[hostB] = catalog.SSHConfig{} // irrelevant, just to keep map non-nil

	hosts := map[catalog.HostID]*catalog.Host{agentID: agent, hostB: b}
	bp := catalog.Blueprint{
		ID:       "bp-1",
		Interval: catalog.Daily,
		Mode:     catalog.SSHAgentMode,
		Host:     hostB,
		Strategy: catalog.BackupStrategy{Kind: catalog.FilesStrategy, Paths: []string{"/etc"}},
		Destinations: []catalog.Destination{
			{Kind: catalog.DestinationHost, Host: hostB, Path: "/keep/"},
		},
	}
	snap := catalog.NewSnapshot(hosts, []catalog.Blueprint{bp}, nil, agentID)

	store := &fakeStore{}
	reporter := &fakeReporter{accept: false}

	err := Run(context.Background(), snap, store, reporter, time.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reporter.asked)
	assert.Empty(t, store.saved)
}

// TestRunHonorsExecutorFactory exercises Run end to end against
// executor.LocalExecutor, as the CLI's --local flag does, to confirm the
// factory is actually threaded through to every session the plan opens
// rather than a hardcoded SSHExecutor.
func TestRunHonorsExecutorFactory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcFile := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("hello"), 0o644))
	retainDir := filepath.Join(dir, "retained")
	require.NoError(t, os.Mkdir(retainDir, 0o755))

	agentID := catalog.HostID("agent")
	agent := catalog.NewHost(agentID)
	agent.SSH[agentID] = catalog.SSHConfig{Username: "local", Host: "127.0.0.1"}

	hosts := map[catalog.HostID]*catalog.Host{agentID: agent}
	bp := catalog.Blueprint{
		ID:       "bp-local",
		Interval: catalog.Daily,
		Mode:     catalog.SSHAgentMode,
		Host:     agentID,
		Strategy: catalog.BackupStrategy{Kind: catalog.FilesStrategy, Paths: []string{srcFile}},
		Destinations: []catalog.Destination{
			{Kind: catalog.DestinationHost, Host: agentID, Path: retainDir + string(filepath.Separator)},
		},
	}
	snap := catalog.NewSnapshot(hosts, []catalog.Blueprint{bp}, nil, agentID)

	store := &fakeStore{}
	reporter := &fakeReporter{accept: true}
	calls := 0
	factory := func(cfg catalog.SSHConfig) executor.Executor {
		calls++
		return executor.NewLocalExecutor()
	}

	err := Run(context.Background(), snap, store, reporter, time.Now(), factory)
	require.NoError(t, err)
	assert.Positive(t, calls)
	require.Len(t, store.saved, 1)
}

func TestBackupName(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 4, 5, 6, 7, 890000000, time.UTC)
	name := backupName("team/daily-etc", at)

	assert.Equal(t, "team-daily-etc_2026-03-04T05-06-07.890Z.tar.gz", name)
}
