package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHostID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    HostID
		wantErr bool
	}{
		{name: "simple id", input: "host01", want: HostID("host01")},
		{name: "hyphen", input: "db-primary", want: HostID("db-primary")},
		{name: "dot", input: "host.prod", want: HostID("host.prod")},
		{name: "underscore", input: "host_01", want: HostID("host_01")},
		{name: "whitespace trimmed", input: "  host01  ", want: HostID("host01")},
		{name: "empty string", input: "", wantErr: true},
		{name: "starts with digit", input: "1host", wantErr: true},
		{name: "too long", input: "h" + stringsRepeat("a", 70), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewHostID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func stringsRepeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestHostCanReach(t *testing.T) {
	t.Parallel()

	h := NewHost(HostID("agent"))
	peer := HostID("db01")
	assert.False(t, h.CanReach(peer))

	h.SSH[peer] = SSHConfig{Username: "root", Host: "10.0.0.1", PrivateKeyPath: "/key"}
	assert.True(t, h.CanReach(peer))
	assert.False(t, h.CanReach(HostID("other")))
}

func TestHostCanReachNilReceiver(t *testing.T) {
	t.Parallel()
	var h *Host
	assert.False(t, h.CanReach(HostID("x")))
}

func TestHostReachable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		av   Reachability
		want bool
	}{
		{name: "no data is usable", av: NoData, want: true},
		{name: "reachable is usable", av: Reachable, want: true},
		{name: "unreachable is not usable", av: Unreachable, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHost(HostID("x"))
			h.Available = tt.av
			assert.Equal(t, tt.want, h.Reachable())
		})
	}
}

func TestSSHConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     SSHConfig
		wantErr bool
	}{
		{name: "complete", cfg: SSHConfig{Username: "root", Host: "h", PrivateKeyPath: "/k"}},
		{name: "missing host", cfg: SSHConfig{Username: "root", PrivateKeyPath: "/k"}, wantErr: true},
		{name: "missing username", cfg: SSHConfig{Host: "h", PrivateKeyPath: "/k"}, wantErr: true},
		{name: "missing key path", cfg: SSHConfig{Username: "root", Host: "h"}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
