package utils

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxBranchNameByteLength is the maximum length for a branch name.
	// Git refs have a max length of 256 bytes, minus 11 for "refs/heads/"
	MaxBranchNameByteLength = 245
)

var (
	// BranchNameInvalidCharRegex matches characters git never allows in a ref name
	BranchNameInvalidCharRegex = regexp.MustCompile(`[\x00-\x20\x7f~^:?*\[\\]`)
)

// ValidateBranchName reports why name cannot be used as a local branch name,
// following the rules of git check-ref-format --branch.
func ValidateBranchName(name string) error {
	reason := branchNameProblem(name)
	if reason == "" {
		return nil
	}
	return fmt.Errorf("invalid branch name %q: %s", name, reason)
}

func branchNameProblem(name string) string {
	switch {
	case name == "":
		return "must not be empty"
	case len(name) > MaxBranchNameByteLength:
		return fmt.Sprintf("longer than %d bytes", MaxBranchNameByteLength)
	case name == "@":
		return "must not be '@'"
	case strings.HasPrefix(name, "-"):
		return "must not start with '-'"
	case BranchNameInvalidCharRegex.MatchString(name):
		return "contains a space, control character or one of ~^:?*[\\"
	case strings.Contains(name, ".."):
		return "must not contain '..'"
	case strings.Contains(name, "@{"):
		return "must not contain '@{'"
	case strings.HasSuffix(name, "."):
		return "must not end with '.'"
	}

	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.Contains(name, "//") {
		return "must not have empty path components"
	}
	for _, component := range strings.Split(name, "/") {
		if strings.HasPrefix(component, ".") {
			return "path components must not start with '.'"
		}
		if strings.HasSuffix(component, ".lock") {
			return "path components must not end with '.lock'"
		}
	}
	return ""
}
