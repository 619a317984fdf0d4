// Package subprocess is the thin external-collaborator boundary for the two
// child processes chigraph shells out to (spec §6): git, for the remote-fetch
// subsystem, and chi-ctollvm, for compiling C source snippets to bitcode for
// the "c" built-in module. Both are out of scope per spec §1 beyond this
// boundary, so this package is intentionally a bare os/exec wrapper — no
// ecosystem library in the corpus wraps "run a child process and capture
// stdout/stderr", it's a standard-library concern by nature.
package subprocess

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Run executes name with args, feeding stdin (if non-nil) and returning
// stdout. Both standard streams are drained on the calling goroutine, per
// spec §5 ("its standard streams are drained on the calling thread").
func Run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("subprocess: %s: %w: %s", name, err, stderr.String())
	}

	return stdout.Bytes(), nil
}

// CompileC invokes the chi-ctollvm helper (spec §6): stdin is the C source,
// args are extra clang flags, stdout is the resulting bitcode.
func CompileC(ctx context.Context, source string, clangArgs []string) ([]byte, error) {
	return Run(ctx, "chi-ctollvm", clangArgs, []byte(source))
}

// GitClone invokes git to fetch a remote module (spec §6's recognized URL
// forms are resolved by the caller; this just runs the clone).
func GitClone(ctx context.Context, url, dest string) error {
	_, err := Run(ctx, "git", []string{"clone", url, dest}, nil)
	return err
}
