package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecCapturesOutput(t *testing.T) {
	skipWithoutShell(t)
	r := New(&Config{Logger: zaptest.NewLogger(t)})

	res, err := r.Run(context.Background(), Command{
		Argv:  []string{"sh", "-c", "echo out; echo err >&2"},
		Check: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Output, "out")
	assert.Contains(t, res.Output, "err")
}

func TestExecCheckedFailure(t *testing.T) {
	skipWithoutShell(t)
	r := New(nil)

	res, err := r.Run(context.Background(), Command{
		Argv:  []string{"sh", "-c", "echo boom; exit 3"},
		Check: true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSubprocessFailed))

	var subErr *SubprocessError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, 3, subErr.ExitCode)
	assert.Contains(t, subErr.Output, "boom")
	assert.Contains(t, err.Error(), "exited with status 3")
	assert.Equal(t, 3, res.ExitCode)
}

func TestExecUncheckedFailure(t *testing.T) {
	skipWithoutShell(t)
	r := New(nil)

	res, err := r.Run(context.Background(), Command{Argv: []string{"sh", "-c", "exit 2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ExitCode)
}

func TestExecWorkingDirAndStdin(t *testing.T) {
	skipWithoutShell(t)
	dir := t.TempDir()
	r := New(nil)

	_, err := r.Run(context.Background(), Command{
		Argv:  []string{"sh", "-c", "cat > written.txt"},
		Dir:   dir,
		Stdin: "hello",
		Check: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "written.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestExecStreamsOutput(t *testing.T) {
	skipWithoutShell(t)
	var stream bytes.Buffer
	r := New(&Config{Stream: &stream})

	_, err := r.Run(context.Background(), Command{Argv: []string{"sh", "-c", "echo streamed"}, Check: true})
	require.NoError(t, err)
	assert.Contains(t, stream.String(), "streamed")
}

func TestExecResolvesAgainstOverlayPath(t *testing.T) {
	skipWithoutShell(t)
	shPath, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}

	toolDir := t.TempDir()
	script := "#!" + shPath + "\necho pinned-tool\n"
	require.NoError(t, os.WriteFile(filepath.Join(toolDir, "cmake"), []byte(script), 0o755))

	env := Env{"PATH": os.Getenv("PATH")}.PrependPath(toolDir)
	r := New(nil)
	res, err := r.Run(context.Background(), Command{Argv: []string{"cmake"}, Env: env, Check: true})
	require.NoError(t, err)
	assert.Equal(t, "pinned-tool", strings.TrimSpace(res.Output))
}

func TestExecMissingBinary(t *testing.T) {
	r := New(nil)
	_, err := r.Run(context.Background(), Command{
		Argv:  []string{"definitely-not-a-real-binary"},
		Env:   Env{"PATH": t.TempDir()},
		Check: true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSubprocessFailed))
}

func TestExecEmptyCommand(t *testing.T) {
	_, err := New(nil).Run(context.Background(), Command{})
	require.Error(t, err)
}

func TestDryRunNeverExecutes(t *testing.T) {
	r := NewDryRun(zaptest.NewLogger(t))
	res, err := r.Run(context.Background(), Command{Argv: []string{"false"}, Check: true})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
}
