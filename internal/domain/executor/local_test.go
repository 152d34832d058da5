package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

func TestLocalExecutorNotReady(t *testing.T) {
	t.Parallel()
	e := NewLocalExecutor()
	_, err := e.shell(context.Background(), "true")
	require.Error(t, err)
}

func TestLocalExecutorExecuteFilesStrategy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcFile := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("hello"), 0o600))

	e := NewLocalExecutor()
	require.NoError(t, e.Ready(context.Background()))
	defer func() { _ = e.Finish() }()

	plan := catalog.Plan{
		ID:     "bp-1",
		Status: catalog.SSHAgentPlan,
		Strategy: catalog.BackupStrategy{
			Kind:  catalog.FilesStrategy,
			Paths: []string{dir},
		},
	}

	archive, err := e.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.FileExists(t, archive)

	require.NoError(t, e.Delete(context.Background(), archive))
	assert.NoFileExists(t, archive)
}

func TestLocalExecutorExecuteRejectsNonSSHAgentPlan(t *testing.T) {
	t.Parallel()
	e := NewLocalExecutor()
	require.NoError(t, e.Ready(context.Background()))
	_, err := e.Execute(context.Background(), catalog.Plan{Status: catalog.Skipped})
	require.Error(t, err)
}

func TestLocalExecutorDownloadUploadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	remote := filepath.Join(dir, "remote.bin")
	local := filepath.Join(dir, "local.bin")
	require.NoError(t, os.WriteFile(remote, []byte("payload"), 0o600))

	e := NewLocalExecutor()
	require.NoError(t, e.Download(context.Background(), remote, local))

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	back := filepath.Join(dir, "remote-back.bin")
	require.NoError(t, e.Upload(context.Background(), local, back))

	data, err = os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestLocalExecutorMove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.tar.gz")
	dest := filepath.Join(dir, "dest.tar.gz")
	require.NoError(t, os.WriteFile(src, []byte("archive"), 0o600))

	e := NewLocalExecutor()
	require.NoError(t, e.Ready(context.Background()))
	require.NoError(t, e.Move(context.Background(), src, dest))

	assert.NoFileExists(t, src)
	assert.FileExists(t, dest)
}

func TestShellQuote(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `'simple'`, shellQuote("simple"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
}
