// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultCoreDevURL serves the core-dev signing key and repository files
	DefaultCoreDevURL = "https://core-dev.irods.org"

	// DefaultToolchainPackage is the pinned CMake used for configuring
	DefaultToolchainPackage = "irods-externals-cmake3.5.2-0"

	// DefaultToolchainBinDir is where DefaultToolchainPackage installs cmake
	DefaultToolchainBinDir = "/opt/irods-externals/cmake3.5.2-0/bin"

	// DefaultDevPrefix and DefaultRuntimePrefix select the upstream artifacts
	DefaultDevPrefix     = "irods-dev"
	DefaultRuntimePrefix = "irods-runtime"

	// DefaultBuildDirPrefix names the temporary build directory
	DefaultBuildDirPrefix = "irods_mungefs_build_directory"
)

// Config holds mungefs-ci configuration
type Config struct {
	Debug           bool            `yaml:"debug"`
	UseSudo         bool            `yaml:"use_sudo"`
	SourceDirectory string          `yaml:"source_directory"`
	CoreDevURL      string          `yaml:"core_dev_url"`
	Toolchain       ToolchainConfig `yaml:"toolchain"`
	Externals       []string        `yaml:"externals"`
	Artifacts       ArtifactsConfig `yaml:"artifacts"`
	Build           BuildConfig     `yaml:"build"`
}

// ToolchainConfig selects the pinned build tool
type ToolchainConfig struct {
	Package string `yaml:"package"`
	BinDir  string `yaml:"bin_dir"`
}

// ArtifactsConfig selects the upstream dev/runtime packages
type ArtifactsConfig struct {
	DevPrefix     string `yaml:"dev_prefix"`
	RuntimePrefix string `yaml:"runtime_prefix"`
	AllowMissing  bool   `yaml:"allow_missing"`
}

// BuildConfig configures the two build steps
type BuildConfig struct {
	ConfigureCommand string `yaml:"configure_command"`
	BuildCommand     string `yaml:"build_command"`
	PackageTarget    string `yaml:"package_target"`
	DirPrefix        string `yaml:"dir_prefix"`
	KeepBuildDir     *bool  `yaml:"keep_build_dir"`
}

// KeepDir reports whether the build directory survives a successful run.
func (b BuildConfig) KeepDir() bool {
	return b.KeepBuildDir == nil || *b.KeepBuildDir
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:      false,
		UseSudo:    true,
		CoreDevURL: DefaultCoreDevURL,
		Toolchain: ToolchainConfig{
			Package: DefaultToolchainPackage,
			BinDir:  DefaultToolchainBinDir,
		},
		Artifacts: ArtifactsConfig{
			DevPrefix:     DefaultDevPrefix,
			RuntimePrefix: DefaultRuntimePrefix,
		},
		Build: BuildConfig{
			ConfigureCommand: "cmake",
			BuildCommand:     "make",
			PackageTarget:    "package",
			DirPrefix:        DefaultBuildDirPrefix,
		},
	}
}

// DefaultConfigPath returns $HOME/.config/mungefs-ci/config.yaml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mungefs-ci", "config.yaml")
}

// LoadConfig loads configuration from file. Fields absent from the file
// keep their defaults; a missing file at the default path is not an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return fmt.Errorf("no config path")
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
