// Package shim writes and inspects the intercepting script installed
// ahead of the vendor CLI on PATH.
package shim

import (
	"fmt"
	"os"
	"strings"

	"github.com/claudew/claudew/internal/core/fsx"
	"github.com/claudew/claudew/internal/core/hasher"
)

// Marker identifies a shim claudew wrote. Update and uninstall refuse to
// overwrite or delete a claude binary at the shim path that lacks it.
const Marker = "# claudew shim"

// Render produces the shim script for the given claudew binary path.
func Render(binaryPath string) []byte {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString(Marker + "\n")
	b.WriteString("# Injects provider credentials, then launches the real Claude Code CLI.\n")
	fmt.Fprintf(&b, "exec %q run \"$@\"\n", binaryPath)
	return []byte(b.String())
}

// Write installs the shim for binaryPath at path using the
// temp-then-rename pattern, and returns the content hash recorded in the
// state file. It fails if a foreign file occupies the path.
func Write(path, binaryPath string) (hash string, err error) {
	if present, foreign := Inspect(path); present && foreign {
		return "", fmt.Errorf("refusing to overwrite %s: existing file was not written by claudew", path)
	}

	content := Render(binaryPath)
	if err := fsx.AtomicWrite(path, content, 0o755); err != nil {
		return "", err
	}
	return hasher.Sum(content), nil
}

// Inspect reports whether a file exists at path and, if so, whether it
// is foreign (lacks the claudew marker).
func Inspect(path string) (present, foreign bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, false
	}
	return true, !strings.Contains(string(data), Marker)
}

// Hash returns the content hash of the file at path, or "" when it
// cannot be read.
func Hash(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return hasher.Sum(data)
}

// Remove deletes the shim at path. It fails on a foreign file and treats
// an absent file as success.
func Remove(path string) error {
	present, foreign := Inspect(path)
	if !present {
		return nil
	}
	if foreign {
		return fmt.Errorf("refusing to delete %s: existing file was not written by claudew", path)
	}
	return os.Remove(path)
}
