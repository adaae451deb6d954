// Package settings performs the read-merge-write on the vendor CLI's
// settings.json. Only the env block and two absent-only defaults are
// touched; every other top-level key passes through byte-for-byte.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/claudew/claudew/internal/core/fsx"
)

const (
	permissionsKey   = "permissions"
	coAuthoredByKey  = "includeCoAuthoredBy"
	envKey           = "env"
	defaultPerms     = `{"allow":[],"deny":[]}`
	defaultCoAuthors = `true`
)

// Merge injects env into the settings file's env block and writes the
// result atomically. Existing env keys not named in env are preserved,
// unknown top-level keys are carried over unmodified, and the
// permissions/includeCoAuthoredBy defaults are set only when absent.
func Merge(path string, env map[string]string) error {
	doc := map[string]json.RawMessage{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("settings file %s is not a JSON object: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// First run: start from an empty document.
	default:
		return err
	}

	current := map[string]string{}
	if raw, ok := doc[envKey]; ok {
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("settings env block in %s is malformed: %w", path, err)
		}
	}
	for k, v := range env {
		current[k] = v
	}
	envRaw, err := json.Marshal(current)
	if err != nil {
		return err
	}
	doc[envKey] = envRaw

	if _, ok := doc[permissionsKey]; !ok {
		doc[permissionsKey] = json.RawMessage(defaultPerms)
	}
	if _, ok := doc[coAuthoredByKey]; !ok {
		doc[coAuthoredByKey] = json.RawMessage(defaultCoAuthors)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	return fsx.AtomicWrite(path, out, 0o600)
}

// Env reads the env block from the settings file. A missing file yields
// an empty map.
func Env(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	var doc struct {
		Env map[string]string `json:"env"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("settings file %s is not a JSON object: %w", path, err)
	}
	if doc.Env == nil {
		doc.Env = map[string]string{}
	}
	return doc.Env, nil
}
