// Package config manages branchsync configuration.
//
// Repository settings are read from .branchsync_config (YAML) in the
// repository's common git directory, so linked worktrees share one file.
// Every field is optional; command-line flags override what the file sets.
package config
