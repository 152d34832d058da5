package mongostore

import (
	"fmt"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

func toHost(doc hostDoc) (*catalog.Host, error) {
	id, err := catalog.NewHostID(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("host %q: %w", doc.ID, err)
	}
	host := catalog.NewHost(id)
	for peer, cfg := range doc.SSH {
		peerID, err := catalog.NewHostID(peer)
		if err != nil {
			return nil, fmt.Errorf("host %q ssh map: %w", doc.ID, err)
		}
		host.SSH[peerID] = catalog.SSHConfig{
			Username:       cfg.Username,
			Host:           cfg.Host,
			PrivateKeyPath: cfg.PrivateKeyPath,
			Passphrase:     cfg.Passphrase,
		}
	}
	return host, nil
}

func toBlueprint(doc blueprintDoc) (catalog.Blueprint, error) {
	b := catalog.Blueprint{
		ID:       doc.ID,
		Interval: catalog.Interval(doc.Interval),
		Mode:     catalog.BlueprintMode(doc.Mode),
	}
	if b.Mode == catalog.DummyMode {
		return b, nil
	}

	hostID, err := catalog.NewHostID(doc.Host)
	if err != nil {
		return catalog.Blueprint{}, fmt.Errorf("blueprint %q: %w", doc.ID, err)
	}
	b.Host = hostID

	if doc.Hooks != nil {
		if doc.Hooks.Pre != nil {
			b.Hooks.Pre = &catalog.Hook{Cwd: doc.Hooks.Pre.Cwd, Cmd: doc.Hooks.Pre.Cmd}
		}
		if doc.Hooks.Post != nil {
			b.Hooks.Post = &catalog.Hook{Cwd: doc.Hooks.Post.Cwd, Cmd: doc.Hooks.Post.Cmd}
		}
	}

	if doc.Strategy != nil {
		b.Strategy = catalog.BackupStrategy{
			Kind:          catalog.StrategyKind(doc.Strategy.Kind),
			Paths:         doc.Strategy.Paths,
			ConnectionURL: doc.Strategy.ConnectionURL,
		}
	}

	for _, d := range doc.Destinations {
		dest := catalog.Destination{Kind: catalog.DestinationKind(d.Kind), Path: d.Path}
		if d.Host != "" {
			destHostID, err := catalog.NewHostID(d.Host)
			if err != nil {
				return catalog.Blueprint{}, fmt.Errorf("blueprint %q destination: %w", doc.ID, err)
			}
			dest.Host = destHostID
		}
		b.Destinations = append(b.Destinations, dest)
	}

	return b, nil
}

// planDoc builds the plain map persisted alongside a run record. It captures
// enough of the Plan's shape to audit later without round-tripping back into
// a catalog.Plan (run records are append-only and read by operators, not
// replayed).
func planDoc(plan catalog.Plan) any {
	doc := map[string]any{
		"id":     plan.ID,
		"status": string(plan.Status),
	}
	switch plan.Status {
	case catalog.Failed:
		doc["failureReason"] = plan.FailureReason
	case catalog.SSHAgentPlan:
		doc["host"] = plan.Host.ID.String()
		doc["strategy"] = string(plan.Strategy.Kind)
		doc["clone"] = cloneDoc(plan.Clone)
	}
	return doc
}

func cloneDoc(c catalog.CloneStrategy) map[string]any {
	return map[string]any{
		"retainOnHost":            c.RetainOnHost.Enabled,
		"retainOnHostPath":        c.RetainOnHost.Path,
		"downloadLocally":         c.DownloadLocally.Enabled,
		"downloadLocallyKept":     c.DownloadLocally.Keep,
		"directlyCloneTo":         destinationIDs(c.DirectlyCloneTo),
		"redirectCloneTo":         destinationIDs(c.RedirectCloneTo),
		"receiveCloneFrom":        destinationIDs(c.ReceiveCloneFrom),
		"someDestinationsSkipped": c.SomeDestinationsSkipped,
	}
}

func destinationIDs(dests []catalog.Destination) []string {
	ids := make([]string, len(dests))
	for i, d := range dests {
		ids[i] = d.Host.String()
	}
	return ids
}
