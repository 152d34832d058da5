package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

func TestToHost(t *testing.T) {
	t.Parallel()

	doc := hostDoc{
		ID: "b",
		SSH: map[string]sshConfigDoc{
			"c": {Username: "root", Host: "10.0.0.3", PrivateKeyPath: "/key"},
		},
	}

	host, err := toHost(doc)
	require.NoError(t, err)
	assert.Equal(t, catalog.HostID("b"), host.ID)
	assert.Equal(t, catalog.NoData, host.Available)
	require.Contains(t, host.SSH, catalog.HostID("c"))
	assert.Equal(t, "10.0.0.3", host.SSH[catalog.HostID("c")].Host)
}

func TestToHostRejectsInvalidID(t *testing.T) {
	t.Parallel()
	_, err := toHost(hostDoc{ID: ""})
	require.Error(t, err)
}

func TestToBlueprintDummy(t *testing.T) {
	t.Parallel()

	doc := blueprintDoc{ID: "dummy-1", Interval: "daily", Mode: "dummy"}
	b, err := toBlueprint(doc)
	require.NoError(t, err)
	assert.Equal(t, catalog.DummyMode, b.Mode)
	assert.Empty(t, b.Host)
}

func TestToBlueprintSSHAgent(t *testing.T) {
	t.Parallel()

	doc := blueprintDoc{
		ID:       "bp-1",
		Interval: "weekly",
		Mode:     "ssh-agent",
		Host:     "b",
		Hooks: &hooksDoc{
			Pre: &hookDoc{Cwd: "/srv", Cmd: "touch /tmp/pre"},
		},
		Strategy: &strategyDoc{Kind: "files", Paths: []string{"/etc"}},
		Destinations: []destinationDoc{
			{Kind: "host", Host: "c", Path: "/bk/"},
		},
	}

	b, err := toBlueprint(doc)
	require.NoError(t, err)
	assert.Equal(t, catalog.Weekly, b.Interval)
	assert.Equal(t, catalog.HostID("b"), b.Host)
	require.NotNil(t, b.Hooks.Pre)
	assert.Equal(t, "touch /tmp/pre", b.Hooks.Pre.Cmd)
	assert.Equal(t, catalog.FilesStrategy, b.Strategy.Kind)
	require.Len(t, b.Destinations, 1)
	assert.Equal(t, catalog.HostID("c"), b.Destinations[0].Host)
}

func TestPlanDocFailed(t *testing.T) {
	t.Parallel()

	doc := planDoc(catalog.Plan{ID: "bp-1", Status: catalog.Failed, FailureReason: "no viable destinations"})
	m, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "failed", m["status"])
	assert.Equal(t, "no viable destinations", m["failureReason"])
}

func TestCloneDoc(t *testing.T) {
	t.Parallel()

	c := catalog.CloneStrategy{
		RetainOnHost:    catalog.RetainOnHost{Enabled: true, Path: "/keep/"},
		DirectlyCloneTo: []catalog.Destination{{Host: "c"}},
	}
	m := cloneDoc(c)
	assert.Equal(t, true, m["retainOnHost"])
	assert.Equal(t, []string{"c"}, m["directlyCloneTo"])
}
