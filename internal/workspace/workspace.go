// Package workspace implements the workspace-marker discovery boundary of
// spec §6: a directory is a workspace iff it contains a (possibly empty)
// file named .chigraphworkspace, discovered by walking upward from the
// current directory until the marker appears.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
)

// Marker is the sentinel file name that marks a workspace root.
const Marker = ".chigraphworkspace"

// ErrNotFound is returned when no workspace marker is found walking up from
// start to the filesystem root.
var ErrNotFound = errors.New("workspace: no " + Marker + " found in any parent directory")

// Discover walks upward from start (a directory) until it finds a directory
// containing Marker, returning that directory's absolute path.
func Discover(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		markerPath := filepath.Join(dir, Marker)
		if _, err := os.Stat(markerPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// SourcePath returns the on-disk path for a module's .chimod source file,
// per spec §6: "<workspace>/src/<fullName>.chimod".
func SourcePath(workspaceRoot, fullName string) string {
	return filepath.Join(workspaceRoot, "src", fullName+".chimod")
}

// CacheDir returns the workspace's bitcode cache directory, per spec §6.
func CacheDir(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, ".chigraphcache")
}

// Init creates a new, empty workspace at dir by writing the marker file.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, Marker), nil, 0o644)
}
