package catalog

// PlanStatus discriminates a Plan.
type PlanStatus string

const (
	// Skipped means the blueprint was not due, or is a dummy blueprint.
	Skipped PlanStatus = "skipped"
	// Failed means planning rejected the blueprint; FailureReason names why.
	Failed PlanStatus = "failed"
	// SSHAgentPlan means the blueprint produced a runnable clone strategy.
	SSHAgentPlan PlanStatus = "ssh-agent"
)

// RetainOnHost, if Enabled, moves the produced archive into Path on the
// source host instead of deleting it after fan-out.
type RetainOnHost struct {
	Enabled bool
	Path    string
}

// DownloadLocally controls whether (and how) the archive is staged on the
// agent's own filesystem.
//
//   - zero value (Enabled=false): never downloaded.
//   - Enabled=true, Keep=false: downloaded only because a redirect needs a
//     courier copy, and must be deleted once every redirect has consumed it.
//   - Enabled=true, Keep=true, Path set: downloaded and retained on the
//     agent. The coordinator stages the copy in its ./backups directory and
//     keeps it there; Path records the blueprint's destination path and is
//     not used as the download location.
type DownloadLocally struct {
	Enabled bool
	Keep    bool
	Path    string
}

// CloneStrategy is the instruction sheet telling the executor exactly which
// transfers to perform for one plan (spec §3).
type CloneStrategy struct {
	RetainOnHost    RetainOnHost
	DownloadLocally DownloadLocally

	// DirectlyCloneTo are destinations reachable directly from the source
	// host (host.SSH[dest] is defined).
	DirectlyCloneTo []Destination
	// RedirectCloneTo are destinations neither reachable from, nor able to
	// reach, the source host; the agent must act as courier.
	RedirectCloneTo []Destination
	// ReceiveCloneFrom are destinations the agent can SSH into and which can
	// themselves SSH into the source host, so they pull directly.
	ReceiveCloneFrom []Destination

	// SomeDestinationsSkipped is advisory only: set when a destination was
	// dropped because its host id was unknown or marked unreachable.
	SomeDestinationsSkipped bool
}

// Empty reports whether the strategy has no work at all — the condition
// that forces a plan to Failed (spec §3 invariant 5).
func (c CloneStrategy) Empty() bool {
	return !c.RetainOnHost.Enabled &&
		!c.DownloadLocally.Enabled &&
		len(c.DirectlyCloneTo) == 0 &&
		len(c.RedirectCloneTo) == 0 &&
		len(c.ReceiveCloneFrom) == 0
}

// Plan is the planner's decision for one blueprint.
type Plan struct {
	ID     string
	Status PlanStatus

	// Populated only when Status == SSHAgentPlan.
	Host     *Host
	Hooks    Hooks
	Strategy BackupStrategy
	Clone    CloneStrategy

	// FailureReason is populated only when Status == Failed.
	FailureReason string
}
