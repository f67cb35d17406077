// Package git locates the repository a build runs in.
package git

import (
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// GetRoot returns the root of the git repository containing dir.
// An empty dir means the current directory.
func GetRoot(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(err, "not inside a git repository")
	}
	return strings.TrimSpace(string(out)), nil
}
