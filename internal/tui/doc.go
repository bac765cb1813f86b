// Package tui provides terminal output for branchsync.
//
// It handles:
//   - Structured logging and status reporting (Splog), with optional rotating file logs
//   - Terminal styling and colors (using lipgloss)
//   - Terminal detection, so piped output stays plain
package tui
