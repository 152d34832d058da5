// Package planner decides, from a catalog snapshot and a single blueprint,
// whether a backup is due and, if so, exactly how the resulting artifact
// must be shipped to each destination.
package planner

import (
	"time"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

// LogFunc is the caller-supplied log sink. Plan never writes to a logger of
// its own; it is a pure function modulo this callback (spec §4.2).
type LogFunc func(format string, args ...any)

func noopLog(string, ...any) {}

// Plan decides the outcome for one blueprint against a snapshot. now is
// injected so the due-check is deterministic and testable.
func Plan(snapshot catalog.Snapshot, blueprint catalog.Blueprint, now time.Time, logf LogFunc) catalog.Plan {
	if logf == nil {
		logf = noopLog
	}

	if blueprint.Mode == catalog.DummyMode {
		logf("blueprint %s is a dummy blueprint, skipping", blueprint.ID)
		return catalog.Plan{ID: blueprint.ID, Status: catalog.Skipped}
	}

	var lastRun *time.Time
	if t, ok := snapshot.LastSuccessfulRun(blueprint.ID); ok {
		lastRun = &t
	}
	if !due(lastRun, blueprint.Interval, now) {
		logf("blueprint %s is not due yet", blueprint.ID)
		return catalog.Plan{ID: blueprint.ID, Status: catalog.Skipped}
	}

	return planSSHAgent(snapshot, blueprint, logf)
}

func fail(id, reason string, logf LogFunc) catalog.Plan {
	logf("blueprint %s: %s", id, reason)
	return catalog.Plan{ID: id, Status: catalog.Failed, FailureReason: reason}
}

func planSSHAgent(snapshot catalog.Snapshot, b catalog.Blueprint, logf LogFunc) catalog.Plan {
	// Validation, in order; first failure wins (spec §4.2).
	sourceHost, ok := snapshot.Host(b.Host)
	if !ok {
		return fail(b.ID, "source host "+b.Host.String()+" not found in catalog", logf)
	}
	if !sourceHost.Reachable() {
		return fail(b.ID, "source host "+b.Host.String()+" is unreachable", logf)
	}
	agent, ok := snapshot.Agent()
	if !ok {
		return fail(b.ID, "agent host "+snapshot.AgentID.String()+" not found in catalog", logf)
	}
	if !agent.CanReach(b.Host) {
		return fail(b.ID, "agent cannot SSH into source host "+b.Host.String(), logf)
	}

	c := classify(snapshot, sourceHost, snapshot.AgentID, b.Destinations)

	clone := catalog.CloneStrategy{
		DirectlyCloneTo:         c.directlyCloneTo,
		RedirectCloneTo:         c.redirectCloneTo,
		ReceiveCloneFrom:        c.receiveCloneFrom,
		SomeDestinationsSkipped: c.someSkipped,
	}
	if c.retainOnHost != nil {
		clone.RetainOnHost = catalog.RetainOnHost{Enabled: true, Path: c.retainOnHost.Path}
	}
	if c.downloadLocally != nil {
		clone.DownloadLocally = catalog.DownloadLocally{Enabled: true, Keep: true, Path: c.downloadLocally.Path}
	}

	// redirectCloneTo non-empty forces a staged local copy, even if nothing
	// asked for local retention (spec §4.2 finalisation, invariant 4).
	if len(clone.RedirectCloneTo) > 0 && !clone.DownloadLocally.Enabled {
		clone.DownloadLocally = catalog.DownloadLocally{Enabled: true, Keep: false}
	}

	if clone.Empty() {
		return fail(b.ID, "no viable destinations", logf)
	}

	if c.someSkipped {
		logf("blueprint %s: one or more destinations were skipped (unknown or unreachable host)", b.ID)
	}

	return catalog.Plan{
		ID:       b.ID,
		Status:   catalog.SSHAgentPlan,
		Host:     sourceHost,
		Hooks:    b.Hooks,
		Strategy: b.Strategy,
		Clone:    clone,
	}
}
