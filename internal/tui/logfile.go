package tui

import "os"

// GetLogFilePath returns the log file path from BRANCHSYNC_LOG_FILE, or an
// empty string when file logging is not requested.
func GetLogFilePath() string {
	return os.Getenv("BRANCHSYNC_LOG_FILE")
}
