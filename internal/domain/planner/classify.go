package planner

import "github.com/wharf-ops/wharf/internal/domain/catalog"

// classification is the per-destination decision table of spec §4.2.
type classification struct {
	retainOnHost     *catalog.Destination
	downloadLocally  *catalog.Destination
	directlyCloneTo  []catalog.Destination
	redirectCloneTo  []catalog.Destination
	receiveCloneFrom []catalog.Destination
	someSkipped      bool
}

// classify buckets a blueprint's destinations against the source host's and
// peers' SSH reachability. sourceHost is the resolved Host named by the
// blueprint; agentID is the configured agent's own id.
func classify(snapshot catalog.Snapshot, sourceHost *catalog.Host, agentID catalog.HostID, destinations []catalog.Destination) classification {
	var c classification

	var remaining []catalog.Destination
	for i := range destinations {
		d := destinations[i]
		if d.Kind != catalog.DestinationHost {
			continue
		}
		// A destination naming the source host or the agent itself never
		// falls through to remaining, even past the first such match —
		// otherwise a second one would get reclassified into one of the
		// peer-to-peer buckets below, which may never contain the source
		// or agent id (spec §8).
		if d.Host == sourceHost.ID {
			if c.retainOnHost == nil {
				dd := d
				c.retainOnHost = &dd
			}
			continue
		}
		if d.Host == agentID {
			if c.downloadLocally == nil {
				dd := d
				c.downloadLocally = &dd
			}
			continue
		}
		remaining = append(remaining, d)
	}

	for _, d := range remaining {
		peer, ok := snapshot.Host(d.Host)
		if !ok || peer.Available == catalog.Unreachable {
			c.someSkipped = true
			continue
		}

		switch {
		case sourceHost.CanReach(d.Host):
			c.directlyCloneTo = append(c.directlyCloneTo, d)
		case peer.CanReach(sourceHost.ID):
			c.receiveCloneFrom = append(c.receiveCloneFrom, d)
		default:
			c.redirectCloneTo = append(c.redirectCloneTo, d)
		}
	}

	return c
}
