package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalNextDue(t *testing.T) {
	t.Parallel()

	last := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		iv   Interval
		want time.Time
	}{
		{name: "daily", iv: Daily, want: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
		{name: "weekly", iv: Weekly, want: time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)},
		{name: "monthly rolls past short february", iv: Monthly, want: time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.iv.NextDue(last))
		})
	}
}

func TestBackupStrategyValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		s       BackupStrategy
		wantErr bool
	}{
		{name: "files with paths", s: BackupStrategy{Kind: FilesStrategy, Paths: []string{"/etc"}}},
		{name: "files without paths", s: BackupStrategy{Kind: FilesStrategy}, wantErr: true},
		{name: "mongodb with url", s: BackupStrategy{Kind: MongodbStrategy, ConnectionURL: "mongodb://x"}},
		{name: "mongodb without url", s: BackupStrategy{Kind: MongodbStrategy}, wantErr: true},
		{name: "unknown kind", s: BackupStrategy{Kind: "bogus"}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.s.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
