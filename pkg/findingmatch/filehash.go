package findingmatch

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
)

// ComputeFileHash reads the file at a local filesystem path and returns its
// SHA256 hex string. Returns empty string on any error or if the path is
// blank, so a missing hash degrades matching instead of failing it.
func ComputeFileHash(localPath string) string {
	if strings.TrimSpace(localPath) == "" {
		return ""
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:])
}
