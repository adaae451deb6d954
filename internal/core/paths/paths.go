// Package paths resolves the well-known file locations claudew works with.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
)

// Environment variables honored across all commands.
const (
	EnvProvidersFile = "CLAUDE_PROVIDERS_FILE"
	EnvDebug         = "CLAUDEW_DEBUG"
)

// Home returns the home directory all claudew paths are anchored to.
// When running as root under sudo, paths resolve against the invoking
// user's home so that install/uninstall touch that user's files, not
// /root.
func Home() string {
	if os.Geteuid() == 0 {
		if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
			if u, err := user.Lookup(sudoUser); err == nil && u.HomeDir != "" {
				return u.HomeDir
			}
		}
	}
	h, _ := os.UserHomeDir()
	if h == "" && runtime.GOOS == "windows" {
		h = os.Getenv("USERPROFILE")
	}
	return h
}

func joinHome(parts ...string) string {
	elems := append([]string{Home()}, parts...)
	return filepath.Join(elems...)
}

// ProvidersFile returns the provider INI path, honoring the
// CLAUDE_PROVIDERS_FILE override.
func ProvidersFile() string {
	if p := os.Getenv(EnvProvidersFile); p != "" {
		return p
	}
	return joinHome(".claude_providers.ini")
}

// SettingsFile is the vendor CLI's JSON settings store.
func SettingsFile() string {
	return joinHome(".claude", "settings.json")
}

// ShimFile is where the intercepting shim is installed. ~/.local/bin is
// expected ahead of npm's global bin dir on PATH.
func ShimFile() string {
	return joinHome(".local", "bin", "claude")
}

// StateDir holds claudew's own bookkeeping.
func StateDir() string {
	return joinHome(".claudew")
}

// StateFile is the install-state TOML inside StateDir.
func StateFile() string {
	return filepath.Join(StateDir(), "state.toml")
}

// NpmUserPrefix is the fallback global-install prefix used when the
// default npm global install is not writable.
func NpmUserPrefix() string {
	return joinHome(".npm-global")
}

// Debug reports whether verbose diagnostics were requested via the
// environment.
func Debug() bool {
	return os.Getenv(EnvDebug) == "1"
}
