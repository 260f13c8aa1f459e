package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID generates a 16-character hex identifier for a dispatch run.
// It appears in structured logs so overlapping CI invocations can be told
// apart.
func GenerateRunID() string {
	u := uuid.New()
	hexStr := strings.ReplaceAll(u.String(), "-", "")
	return hexStr[:16]
}

// SplitRepoPath splits an "owner/repo" path into its parts.
func SplitRepoPath(path string) (owner, repo string, err error) {
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository path %q: expected owner/repo", path)
	}
	return parts[0], parts[1], nil
}
