// Package mongostore is the catalog adapter (spec §4.1): it loads hosts and
// blueprints from MongoDB, probes peer reachability, and appends run
// records. The catalog store itself is out of scope (spec §1) — this
// package is the boundary code that talks to it.
package mongostore

import "time"

// hostDoc is the on-wire shape of a hosts collection document.
type hostDoc struct {
	ID  string                  `bson:"_id"`
	SSH map[string]sshConfigDoc `bson:"ssh"`
}

type sshConfigDoc struct {
	Username       string `bson:"username"`
	Host           string `bson:"host"`
	PrivateKeyPath string `bson:"privateKeyPath"`
	Passphrase     string `bson:"passphrase,omitempty"`
}

// blueprintDoc is the on-wire shape of a blueprints collection document.
type blueprintDoc struct {
	ID           string           `bson:"_id"`
	Interval     string           `bson:"interval"`
	Mode         string           `bson:"mode"`
	Host         string           `bson:"host,omitempty"`
	Hooks        *hooksDoc        `bson:"hooks,omitempty"`
	Strategy     *strategyDoc     `bson:"strategy,omitempty"`
	Destinations []destinationDoc `bson:"destinations,omitempty"`
}

type hookDoc struct {
	Cwd string `bson:"cwd"`
	Cmd string `bson:"cmd"`
}

type hooksDoc struct {
	Pre  *hookDoc `bson:"pre,omitempty"`
	Post *hookDoc `bson:"post,omitempty"`
}

type strategyDoc struct {
	Kind          string   `bson:"kind"`
	Paths         []string `bson:"paths,omitempty"`
	ConnectionURL string   `bson:"connectionUrl,omitempty"`
}

type destinationDoc struct {
	Kind string `bson:"kind"`
	Host string `bson:"host,omitempty"`
	Path string `bson:"path,omitempty"`
}

// runDoc is the on-wire shape of a run_log collection document.
type runDoc struct {
	Timestamp time.Time `bson:"timestamp"`
	Plan      any       `bson:"plan"`
	Log       []string  `bson:"log"`
	Error     *string   `bson:"error,omitempty"`
}
