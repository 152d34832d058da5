package planner

import (
	"fmt"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

// Explain renders a human-readable trace of a plan's clone strategy, for the
// confirmation prompt and the `wharf plan` dry-run subcommand. It only reads
// already-computed Plan state; it never re-derives or changes semantics.
func Explain(p catalog.Plan) []string {
	switch p.Status {
	case catalog.Skipped:
		return []string{fmt.Sprintf("%s: skipped (not due, or dummy)", p.ID)}
	case catalog.Failed:
		return []string{fmt.Sprintf("%s: failed — %s", p.ID, p.FailureReason)}
	}

	lines := []string{fmt.Sprintf("%s: backup on %s", p.ID, p.Host.ID)}

	switch {
	case p.Clone.RetainOnHost.Enabled:
		lines = append(lines, fmt.Sprintf("  retain on source host at %s", p.Clone.RetainOnHost.Path))
	default:
		lines = append(lines, "  delete archive from source host after fan-out")
	}

	for _, d := range p.Clone.DirectlyCloneTo {
		lines = append(lines, fmt.Sprintf("  directly clone to %s (%s)", d.Host, d.Path))
	}
	for _, d := range p.Clone.ReceiveCloneFrom {
		lines = append(lines, fmt.Sprintf("  %s pulls directly from source", d.Host))
	}
	for _, d := range p.Clone.RedirectCloneTo {
		lines = append(lines, fmt.Sprintf("  agent relays to %s (%s)", d.Host, d.Path))
	}

	switch {
	case p.Clone.DownloadLocally.Enabled && p.Clone.DownloadLocally.Keep:
		lines = append(lines, "  download and keep a local copy on the agent")
	case p.Clone.DownloadLocally.Enabled:
		lines = append(lines, "  stage local copy temporarily for relay, then delete")
	}

	if p.Clone.SomeDestinationsSkipped {
		lines = append(lines, "  note: one or more destinations were skipped (unknown/unreachable)")
	}

	return lines
}
