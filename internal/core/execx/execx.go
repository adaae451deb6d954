// Package execx wraps subprocess execution behind an injectable Runner so
// install chains can be exercised in tests without a shell.
package execx

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands. Env entries are appended to the
// current process environment for that command only; claudew never
// mutates its own environment.
type Runner interface {
	// Output runs the command and returns trimmed stdout. On failure the
	// combined trimmed stderr is folded into the returned error.
	Output(env []string, name string, args ...string) (string, error)
	// Run runs the command, streaming stdout/stderr to the user.
	Run(env []string, name string, args ...string) error
	// LookPath reports the absolute path of an executable on PATH.
	LookPath(name string) (string, error)
}

// System is the Runner used outside of tests.
type System struct{}

func (System) Output(env []string, name string, args ...string) (string, error) {
	c := exec.Command(name, args...)
	c.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return strings.TrimSpace(stdout.String()), fmt.Errorf("%s: %s", name, msg)
		}
		return strings.TrimSpace(stdout.String()), fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (System) Run(env []string, name string, args ...string) error {
	c := exec.Command(name, args...)
	c.Env = append(os.Environ(), env...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Stdin = os.Stdin

	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (System) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
