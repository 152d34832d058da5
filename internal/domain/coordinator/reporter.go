package coordinator

import "github.com/wharf-ops/wharf/internal/domain/catalog"

// Reporter is the coordinator's only way of talking to an operator. Both the
// confirmation prompt and whatever renders progress to a terminal are
// external collaborators (spec §1) — Reporter is their typed seam.
type Reporter interface {
	// Plans is called once, with every ssh-agent plan about to run, before
	// any execution starts. Implementations that prompt for confirmation
	// are expected to render each plan via planner.Explain. A false return
	// aborts the invocation with no further work (spec §4.4 step 3).
	Plans(plans []catalog.Plan) bool
	// Line receives one log line for planID. The coordinator passes the bare
	// line; any time prefix is added by the implementation.
	Line(planID, line string)
}

// NopReporter answers every confirmation with Accept and discards every
// line. Useful for tests
// and for non-interactive invocations that should never prompt.
type NopReporter struct {
	Accept bool
}

func (r NopReporter) Plans([]catalog.Plan) bool { return r.Accept }
func (r NopReporter) Line(string, string)        {}
