// Package executor realises a plan against a live session on one host: it
// builds the backup archive there, and moves/copies/deletes files to ship
// it to its destinations. Implementations are tagged variants behind the
// Executor interface — SSH in production, local for tests and single-host
// dry-runs (spec §9's "polymorphic executor abstraction").
package executor

import (
	"context"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

// PeerConfig is the SSH credential used for a peer-to-peer scp hop: either
// the session host pushing to a destination, or a destination pulling from
// the session host. See spec §9's open question on which side's key the
// credential describes.
type PeerConfig = catalog.SSHConfig

// Executor is bound to exactly one SSH configuration for its entire
// lifecycle, from Ready to Finish (spec §5: "each executor owns its session
// exclusively"). Both Ready and Finish must tolerate being called more than
// once.
type Executor interface {
	// Ready opens the session.
	Ready(ctx context.Context) error
	// Finish closes the session. Safe to call after a failed Ready or more
	// than once.
	Finish() error

	// Execute runs the plan's backup strategy on the session host and
	// returns the absolute path of the produced archive.
	Execute(ctx context.Context, plan catalog.Plan) (string, error)

	// Download copies remote (on the session host) to local (on the
	// agent's filesystem).
	Download(ctx context.Context, remote, local string) error
	// Upload copies local (on the agent's filesystem) to remote (on the
	// session host).
	Upload(ctx context.Context, local, remote string) error

	// ScpDownload asks the session host to push remote to localOnPeer on
	// the peer described by peer, OR — when the session is bound to the
	// peer's own SSH config — pulls from the source; concretely, it
	// invokes scp on whichever side holds the session (spec §4.3).
	ScpDownload(ctx context.Context, remote string, peer PeerConfig, localOnPeer string) error
	// ScpUpload is the symmetric direction: pushes localOnSession to
	// remoteOnPeer via scp run on the session host.
	ScpUpload(ctx context.Context, localOnSession string, peer PeerConfig, remoteOnPeer string) error

	// Move relocates a file on the session host.
	Move(ctx context.Context, src, dest string) error
	// Delete removes a file on the session host.
	Delete(ctx context.Context, path string) error
}

var (
	_ Executor = (*SSHExecutor)(nil)
	_ Executor = (*LocalExecutor)(nil)
)
