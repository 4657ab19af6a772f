package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/runner"
	"github.com/irods/mungefs/ci/pkg/runner/runnertest"
)

func cpus(n int) func() (int, error) {
	return func() (int, error) { return n, nil }
}

func TestConfigureFailureStopsBeforePackage(t *testing.T) {
	rec := runnertest.New()
	rec.Fail["cmake"] = 1
	d := NewDriver(Config{Runner: rec, SourceDir: "/src", Suffix: "deb", CPUCount: cpus(4), Logger: zaptest.NewLogger(t)})

	inv, err := d.Run(context.Background(), nil, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSubprocessFailed))

	var subErr *runner.SubprocessError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, []string{"cmake", "/src"}, subErr.Argv)
	assert.Equal(t, []string{"cmake /src"}, rec.Lines(), "make must never be invoked")
	os.RemoveAll(inv.BuildDir)
}

func TestJobs(t *testing.T) {
	cases := []struct {
		name  string
		count func() (int, error)
		want  int
	}{
		{"zero", cpus(0), 1},
		{"one", cpus(1), 1},
		{"eight", cpus(8), 8},
		{"negative", cpus(-2), 1},
		{"error", func() (int, error) { return 0, errors.New("no sysfs") }, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDriver(Config{CPUCount: tc.count})
			assert.Equal(t, tc.want, d.Jobs())
		})
	}
}

func TestAvailableCPUs(t *testing.T) {
	n, err := availableCPUs()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}

func TestRunCollectsMatchingSuffix(t *testing.T) {
	rec := runnertest.New()
	rec.OnRun = func(cmd runner.Command) {
		if cmd.Argv[0] != "make" {
			return
		}
		for _, name := range []string{"foo.deb", "bar.rpm", "baz.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(cmd.Dir, name), []byte(name), 0o644))
		}
	}
	d := NewDriver(Config{
		Runner:      rec,
		SourceDir:   "/src",
		Suffix:      "deb",
		OSDirectory: "Ubuntu_16",
		CPUCount:    cpus(8),
	})

	out := t.TempDir()
	env := runner.Env{"PATH": "/opt/irods-externals/cmake3.5.2-0/bin:/usr/bin"}
	inv, err := d.Run(context.Background(), env, out)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(inv.BuildDir) })

	assert.Equal(t, []string{"cmake /src", "make -j 8 package"}, rec.Lines())
	for _, cmd := range rec.Commands {
		assert.Equal(t, inv.BuildDir, cmd.Dir)
		assert.Equal(t, env, cmd.Env)
		assert.True(t, cmd.Check)
	}
	assert.Contains(t, filepath.Base(inv.BuildDir), core.DefaultBuildDirPrefix)
	assert.Equal(t, []string{filepath.Join(out, "Ubuntu_16", "foo.deb")}, inv.Collected)
	assert.NoFileExists(t, filepath.Join(out, "Ubuntu_16", "bar.rpm"))
	assert.NoFileExists(t, filepath.Join(out, "Ubuntu_16", "baz.txt"))
	assert.DirExists(t, inv.BuildDir, "build directory is kept by default")
}

func TestDriverDryRunSkipsCollection(t *testing.T) {
	rec := runnertest.New()
	rec.OnRun = func(cmd runner.Command) {
		if cmd.Argv[0] == "make" {
			require.NoError(t, os.WriteFile(filepath.Join(cmd.Dir, "foo.deb"), []byte("foo"), 0o644))
		}
	}
	d := NewDriver(Config{
		Runner:      rec,
		SourceDir:   "/src",
		Suffix:      "deb",
		OSDirectory: "Ubuntu_16",
		CPUCount:    cpus(2),
		DryRun:      true,
	})

	out := t.TempDir()
	inv, err := d.Run(context.Background(), nil, out)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(inv.BuildDir) })

	assert.Equal(t, []string{"cmake /src", "make -j 2 package"}, rec.Lines())
	assert.Empty(t, inv.Collected)
	assert.NoDirExists(t, filepath.Join(out, "Ubuntu_16"))
}

func TestRunWithoutOutputRootCollectsNothing(t *testing.T) {
	rec := runnertest.New()
	d := NewDriver(Config{Runner: rec, SourceDir: "/src", Suffix: "rpm", CPUCount: cpus(2)})

	inv, err := d.Run(context.Background(), nil, "")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(inv.BuildDir) })
	assert.Empty(t, inv.Collected)
	assert.Len(t, rec.Commands, 2)
}

func TestRunPackageFailure(t *testing.T) {
	rec := runnertest.New()
	rec.Fail["make"] = 2
	d := NewDriver(Config{Runner: rec, SourceDir: "/src", Suffix: "deb", OSDirectory: "Ubuntu_16", CPUCount: cpus(1)})

	out := t.TempDir()
	inv, err := d.Run(context.Background(), nil, out)
	require.Error(t, err)
	t.Cleanup(func() { os.RemoveAll(inv.BuildDir) })

	var subErr *runner.SubprocessError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, 2, subErr.ExitCode)
	assert.NoDirExists(t, filepath.Join(out, "Ubuntu_16"))
}

func TestRunRemovesBuildDirWhenConfigured(t *testing.T) {
	keep := false
	d := NewDriver(Config{
		Runner:    runnertest.New(),
		SourceDir: "/src",
		Suffix:    "deb",
		CPUCount:  cpus(1),
		Build:     core.BuildConfig{KeepBuildDir: &keep},
	})

	inv, err := d.Run(context.Background(), nil, "")
	require.NoError(t, err)
	assert.NoDirExists(t, inv.BuildDir)
}

func TestRunCustomCommands(t *testing.T) {
	rec := runnertest.New()
	d := NewDriver(Config{
		Runner:    rec,
		SourceDir: "/src",
		CPUCount:  cpus(3),
		Build: core.BuildConfig{
			ConfigureCommand: "cmake -GNinja",
			BuildCommand:     "ninja",
			PackageTarget:    "package",
		},
	})

	inv, err := d.Run(context.Background(), nil, "")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(inv.BuildDir) })
	assert.Equal(t, []string{"cmake -GNinja /src", "ninja -j 3 package"}, rec.Lines())
}
