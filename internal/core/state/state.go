// Package state persists claudew's install bookkeeping as a TOML file.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const APIVersion = "1"

// State is the content of ~/.claudew/state.toml. It records what install
// and update actually did, for status and uninstall.
type State struct {
	APIVersion     string  `toml:"api_version"`
	Runtime        Runtime `toml:"runtime"`
	PackageName    string  `toml:"package_name"`
	PackageVersion string  `toml:"package_version,omitempty"`
	ShimPath       string  `toml:"shim_path"`
	ShimHash       string  `toml:"shim_hash"`
	InstalledAt    string  `toml:"installed_at"`
}

// Runtime records how the Node.js runtime was provisioned.
type Runtime struct {
	Source  string `toml:"source"`
	Version string `toml:"version"`
}

// New returns a fresh zero state with the current API version.
func New() *State {
	return &State{APIVersion: APIVersion}
}

// Load reads the state file at path. An absent file loads as a fresh
// zero state, matching a never-installed system.
func Load(path string) (*State, error) {
	st := New()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return st, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat state file %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, st); err != nil {
		return nil, fmt.Errorf("failed to decode state file %s: %w", path, err)
	}
	if st.APIVersion == "" {
		st.APIVersion = APIVersion
	}
	return st, nil
}

// Save writes the state file at path, creating its directory as needed.
func Save(path string, st *State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create state file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := toml.NewEncoder(file).Encode(st); err != nil {
		return fmt.Errorf("failed to encode state file %s: %w", path, err)
	}
	return nil
}

// Installed reports whether the state describes a completed install.
func (s *State) Installed() bool {
	return s.ShimPath != ""
}
