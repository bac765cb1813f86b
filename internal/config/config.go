package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"branchsync.dev/branchsync/internal/git"
)

// DefaultRemote is the remote branches are fetched from and pushed to
const DefaultRemote = "origin"

// fileName is the config file kept inside the repository's git directory
const fileName = ".branchsync_config"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	Remote         *string `yaml:"remote,omitempty"`
	SetUpstream    *bool   `yaml:"setUpstream,omitempty"`
	CommandTimeout *string `yaml:"commandTimeout,omitempty"`
}

// Path returns the config file location for a repository root. Linked
// worktrees share the file of their main repository.
func Path(repoRoot string) (string, error) {
	gitDir, err := git.CommonDir(repoRoot)
	if err != nil {
		return "", err
	}
	return filepath.Join(gitDir, fileName), nil
}

// GetRepoConfig reads the repository configuration. A missing file yields
// an empty config.
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	path, err := Path(repoRoot)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &RepoConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read repo config: %w", err)
	}

	var config RepoConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// SaveRepoConfig writes the repository configuration
func SaveRepoConfig(repoRoot string, config *RepoConfig) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path, err := Path(repoRoot)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// GetRemote returns the configured remote, or "origin" as default
func (c *RepoConfig) GetRemote() string {
	if c.Remote != nil && *c.Remote != "" {
		return *c.Remote
	}
	return DefaultRemote
}

// GetSetUpstream reports whether pushes should set the upstream branch
func (c *RepoConfig) GetSetUpstream() bool {
	return c.SetUpstream != nil && *c.SetUpstream
}

// GetCommandTimeout returns the per-command git timeout. Zero means none.
func (c *RepoConfig) GetCommandTimeout() (time.Duration, error) {
	if c.CommandTimeout == nil || *c.CommandTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(*c.CommandTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid commandTimeout %q: %w", *c.CommandTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid commandTimeout %q: must not be negative", *c.CommandTimeout)
	}
	return d, nil
}
