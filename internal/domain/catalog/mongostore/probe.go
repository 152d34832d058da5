package mongostore

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
	"github.com/wharf-ops/wharf/internal/domain/executor"
)

// probeReachability opens and immediately closes an SSH session to every
// peer the agent holds credentials for and that appears in the host set,
// setting that peer's Available verdict from the real outcome. Hosts never
// probed keep the no-data verdict catalog.NewHost gave them (spec §4.1). The probe must
// not crash the load if the agent's SSH map is empty — an empty map simply
// produces no work.
//
// Probes run concurrently (there is no ordering requirement, spec §5), but
// every opened session is closed on every path via the executor's Finish.
func probeReachability(ctx context.Context, agent *catalog.Host, hosts map[catalog.HostID]*catalog.Host) {
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(16)

	for peerID, cfg := range agent.SSH {
		peer, ok := hosts[peerID]
		if !ok {
			continue
		}
		cfg, peer := cfg, peer
		g.Go(func() error {
			verdict := probeOne(ctx, cfg)
			mu.Lock()
			peer.Available = verdict
			mu.Unlock()
			return nil
		})
	}

	// Errors are absorbed into per-peer verdicts; probeOne never returns an
	// error to the group, so this can only return nil, but Wait still
	// blocks until every probe has completed and every session it opened
	// has been closed.
	_ = g.Wait()
}

func probeOne(ctx context.Context, cfg catalog.SSHConfig) catalog.Reachability {
	exec := executor.NewSSHExecutor(cfg)
	if err := exec.Ready(ctx); err != nil {
		return catalog.Unreachable
	}
	_ = exec.Finish()
	return catalog.Reachable
}
