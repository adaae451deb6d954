// Package npm installs and upgrades the vendor CLI package through the
// runtime's package manager, with the documented fallback chain.
package npm

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/claudew/claudew/internal/core/execx"
)

// Package is the vendor CLI's npm package name.
const Package = "@anthropic-ai/claude-code"

// Installer runs the global-install chain: plain install, cache-clean
// retry, then a user-owned prefix install.
type Installer struct {
	Runner     execx.Runner
	UserPrefix string
	Verbose    bool
	Out        func(format string, a ...any)
}

func (i *Installer) logf(format string, a ...any) {
	if i.Verbose && i.Out != nil {
		i.Out(format, a...)
	}
}

// Install installs spec (a package name, optionally @version) globally.
// It returns the prefix-local bin dir when the user-prefix fallback was
// taken, so callers can remind the user to put it on PATH.
func (i *Installer) Install(spec string) (fallbackBin string, err error) {
	if _, err := i.Runner.LookPath("npm"); err != nil {
		return "", fmt.Errorf("npm not found on PATH; the Node.js install appears broken: %w", err)
	}

	i.logf("npm install -g %s", spec)
	firstErr := i.Runner.Run(nil, "npm", "install", "-g", spec)
	if firstErr == nil {
		return "", nil
	}

	// Stale cache state is the most common global-install failure; clean
	// and retry once before falling back.
	i.logf("install failed (%v); cleaning npm cache and retrying", firstErr)
	_ = i.Runner.Run(nil, "npm", "cache", "clean", "--force")
	retryErr := i.Runner.Run(nil, "npm", "install", "-g", spec)
	if retryErr == nil {
		return "", nil
	}

	i.logf("retry failed (%v); falling back to user prefix %s", retryErr, i.UserPrefix)
	env := []string{"npm_config_prefix=" + i.UserPrefix}
	if prefixErr := i.Runner.Run(env, "npm", "install", "-g", spec); prefixErr != nil {
		return "", fmt.Errorf("npm install failed after cache clean and user-prefix fallback: %w", prefixErr)
	}
	return filepath.Join(i.UserPrefix, "bin"), nil
}

// Update upgrades the vendor CLI package to its latest release through
// the same fallback chain.
func (i *Installer) Update() (fallbackBin string, err error) {
	return i.Install(Package + "@latest")
}

// InstalledVersion reports the globally installed version of the vendor
// CLI package, or "" when it is not installed.
func (i *Installer) InstalledVersion() string {
	out, err := i.Runner.Output(nil, "npm", "ls", "-g", "--depth=0", Package)
	if err != nil {
		return ""
	}
	// npm ls prints "<tree glyph> @anthropic-ai/claude-code@1.2.3".
	idx := strings.LastIndex(out, Package+"@")
	if idx < 0 {
		return ""
	}
	version := out[idx+len(Package)+1:]
	if cut := strings.IndexAny(version, " \n\t"); cut >= 0 {
		version = version[:cut]
	}
	return strings.TrimSpace(version)
}
