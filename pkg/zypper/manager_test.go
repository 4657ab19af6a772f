package zypper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/runner/runnertest"
)

type stubFetcher struct {
	body string
	err  error
	urls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s.urls = append(s.urls, url)
	return []byte(s.body), s.err
}

func TestInstallPackages(t *testing.T) {
	rec := runnertest.New()
	pm := NewPackageManager(&Config{Runner: rec, Logger: zaptest.NewLogger(t)})

	require.NoError(t, pm.InstallPackages(context.Background(), nil, core.PackageList{"fuse", "fuse-devel"}))
	assert.Equal(t, []string{"zypper --non-interactive install fuse fuse-devel"}, rec.Lines())
}

func TestInstallFromFiles(t *testing.T) {
	rec := runnertest.New()
	pm := NewPackageManager(&Config{Runner: rec, Sudo: true})

	require.NoError(t, pm.InstallFromFiles(context.Background(), nil, []string{"/p/irods-dev.rpm", "/p/irods-runtime.rpm"}))
	assert.Equal(t, []string{
		"sudo zypper --non-interactive --no-gpg-checks install /p/irods-dev.rpm /p/irods-runtime.rpm",
	}, rec.Lines())
}

func TestInstallCoreDevRepository(t *testing.T) {
	rec := runnertest.New()
	fetcher := &stubFetcher{body: "[renci-irods-core-dev]\n"}
	pm := NewPackageManager(&Config{Runner: rec, Fetcher: fetcher})

	require.NoError(t, pm.InstallCoreDevRepository(context.Background(), nil))
	assert.Equal(t, []string{"https://core-dev.irods.org/renci-irods-core-dev.zypp.repo"}, fetcher.urls)
	assert.Equal(t, []string{
		"rpm --import https://core-dev.irods.org/irods-core-dev-signing-key.asc",
		"tee /etc/zypp/repos.d/renci-irods-core-dev.zypp.repo",
	}, rec.Lines())
}

func TestInstallCoreDevRepositoryFetchFails(t *testing.T) {
	rec := runnertest.New()
	pm := NewPackageManager(&Config{Runner: rec, Fetcher: &stubFetcher{err: errors.New("offline")}})

	err := pm.InstallCoreDevRepository(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
	assert.Equal(t, -1, rec.Index("tee"))
}
