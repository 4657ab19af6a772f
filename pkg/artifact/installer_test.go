package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/runner"
)

type fakeManager struct {
	files [][]string
	err   error
}

func (f *fakeManager) Name() string { return "fake" }

func (f *fakeManager) InstallPackages(context.Context, runner.Env, core.PackageList) error {
	return nil
}

func (f *fakeManager) InstallFromFiles(_ context.Context, _ runner.Env, files []string) error {
	f.files = append(f.files, files)
	return f.err
}

func (f *fakeManager) InstallCoreDevRepository(context.Context, runner.Env) error { return nil }

func populate(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
	return dir
}

func TestInstallDevThenRuntime(t *testing.T) {
	dir := populate(t,
		"irods-runtime-4.2.0-centos7-x86_64.rpm",
		"irods-dev-4.2.0-centos7-x86_64.rpm",
		"irods-server-4.2.0-centos7-x86_64.rpm",
		"irods-dev-4.2.0.deb",
	)
	pm := &fakeManager{}
	inst := NewInstaller(pm, Config{Logger: zaptest.NewLogger(t)})

	files, err := inst.Install(context.Background(), nil, dir, "rpm")
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "irods-dev-4.2.0-centos7-x86_64.rpm"),
		filepath.Join(dir, "irods-runtime-4.2.0-centos7-x86_64.rpm"),
	}
	assert.Equal(t, want, files)
	assert.Equal(t, [][]string{want}, pm.files)
}

func TestPatterns(t *testing.T) {
	inst := NewInstaller(&fakeManager{}, Config{})
	assert.Equal(t, []string{
		"/pkgs/Ubuntu_16/irods-dev*.deb",
		"/pkgs/Ubuntu_16/irods-runtime*.deb",
	}, inst.Patterns("/pkgs/Ubuntu_16", "deb"))
}

func TestZeroMatchesIsFatal(t *testing.T) {
	dir := populate(t, "irods-dev-4.2.0.deb")
	pm := &fakeManager{}
	inst := NewInstaller(pm, Config{})

	_, err := inst.Install(context.Background(), nil, dir, "deb")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoArtifacts))
	assert.Contains(t, err.Error(), filepath.Join(dir, "irods-runtime*.deb"))
	assert.Empty(t, pm.files, "nothing is installed when a kind is missing")
}

func TestZeroMatchesAllowed(t *testing.T) {
	dir := populate(t, "irods-runtime-4.2.0.deb")
	observed, logs := observer.New(zap.WarnLevel)
	pm := &fakeManager{}
	inst := NewInstaller(pm, Config{AllowMissing: true, Logger: zap.New(observed)})

	files, err := inst.Install(context.Background(), nil, dir, "deb")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "irods-runtime-4.2.0.deb")}, files)

	// one for the missing dev glob, one for the unreadable archive
	assert.Equal(t, 1, logs.FilterMessage("no artifacts matched").Len())
	assert.Equal(t, 1, logs.FilterMessage("cannot read package control").Len())
}

func TestInstallFailurePropagates(t *testing.T) {
	dir := populate(t, "irods-dev-1.rpm", "irods-runtime-1.rpm")
	pm := &fakeManager{err: &runner.SubprocessError{Argv: []string{"yum"}, ExitCode: 1}}
	inst := NewInstaller(pm, Config{})

	_, err := inst.Install(context.Background(), nil, dir, "rpm")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSubprocessFailed))
}

func TestCustomPrefixes(t *testing.T) {
	dir := populate(t, "irods-externals-dev-1.deb", "irods-externals-rt-1.deb")
	inst := NewInstaller(&fakeManager{}, Config{DevPrefix: "irods-externals-dev", RuntimePrefix: "irods-externals-rt"})

	files, err := inst.Find(dir, "deb")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
