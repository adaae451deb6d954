// Package provider parses the provider INI file and resolves the active
// provider's credential fields.
package provider

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Field names recognized in provider sections. The API_KEY/API_URL forms
// are legacy aliases kept for files written by earlier revisions; the
// canonical name wins when both are present.
const (
	KeyAuthToken      = "ANTHROPIC_AUTH_TOKEN"
	KeyAuthTokenAlias = "ANTHROPIC_API_KEY"
	KeyBaseURL        = "ANTHROPIC_BASE_URL"
	KeyBaseURLAlias   = "ANTHROPIC_API_URL"
	KeyModel          = "ANTHROPIC_MODEL"
	KeyFastModel      = "ANTHROPIC_SMALL_FAST_MODEL"
)

// NameRegex is the allowed shape of a provider section name. The run
// command uses it to decide whether a leading argument could name a
// provider at all.
var NameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config is the parsed provider file: section name -> key -> value, plus
// the top-level default= selection.
type Config struct {
	Default  string
	Sections map[string]map[string]string
}

// Provider is one resolved credential profile. Model and FastModel are
// empty when the section does not set them.
type Provider struct {
	Name      string
	AuthToken string
	BaseURL   string
	Model     string
	FastModel string
}

// IncompleteError reports a section that exists but is missing required
// fields. Missing holds the canonical field names.
type IncompleteError struct {
	Name    string
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("provider %q is incomplete: missing %s", e.Name, strings.Join(e.Missing, ", "))
}

// NotFoundError reports a provider name with no matching section.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("provider %q not found in provider file", e.Name)
}

// Load reads and parses the provider file at path. A missing file is an
// error; install creates a sample file so the path normally exists.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Parse builds a Config from INI text via a single linear scan holding
// current-section state. '#' and ';' open comments, surrounding
// whitespace is trimmed, malformed lines are skipped.
func Parse(text string) *Config {
	cfg := &Config{Sections: make(map[string]map[string]string)}

	section := ""
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			if NameRegex.MatchString(name) {
				section = name
				if _, ok := cfg.Sections[section]; !ok {
					cfg.Sections[section] = make(map[string]string)
				}
			} else {
				section = "" // keys under a malformed header are dropped
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}

		if section == "" {
			if key == "default" {
				cfg.Default = value
			}
			continue
		}
		cfg.Sections[section][key] = value
	}
	return cfg
}

// Names returns the configured section names, sorted.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Sections))
	for name := range c.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a section with the given name exists.
func (c *Config) Has(name string) bool {
	_, ok := c.Sections[name]
	return ok
}

// Select picks the active provider name: an explicit argument wins over
// the file's default= line. Empty result means no provider is selected
// and the caller passes through without injection.
func (c *Config) Select(arg string) string {
	if arg != "" {
		return arg
	}
	return c.Default
}

// Resolve returns the named provider's fields, or an IncompleteError
// naming the missing required fields, or a NotFoundError when no such
// section exists.
func (c *Config) Resolve(name string) (*Provider, error) {
	section, ok := c.Sections[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	p := &Provider{
		Name:      name,
		AuthToken: firstNonEmpty(section[KeyAuthToken], section[KeyAuthTokenAlias]),
		BaseURL:   firstNonEmpty(section[KeyBaseURL], section[KeyBaseURLAlias]),
		Model:     section[KeyModel],
		FastModel: section[KeyFastModel],
	}

	var missing []string
	if p.AuthToken == "" {
		missing = append(missing, KeyAuthToken)
	}
	if p.BaseURL == "" {
		missing = append(missing, KeyBaseURL)
	}
	if len(missing) > 0 {
		return nil, &IncompleteError{Name: name, Missing: missing}
	}
	return p, nil
}

// Env returns the settings entries this provider injects. Optional
// fields appear only when non-empty.
func (p *Provider) Env() map[string]string {
	env := map[string]string{
		KeyAuthToken: p.AuthToken,
		KeyBaseURL:   p.BaseURL,
	}
	if p.Model != "" {
		env[KeyModel] = p.Model
	}
	if p.FastModel != "" {
		env[KeyFastModel] = p.FastModel
	}
	return env
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Sample is the commented provider file written by install when none
// exists yet.
const Sample = `# claudew provider file.
# Each [section] is a provider profile; "claude <section>" selects it for
# one invocation, "default=" selects it when no argument is given.
#
# default=work

# [work]
# ANTHROPIC_AUTH_TOKEN=sk-...
# ANTHROPIC_BASE_URL=https://api.anthropic.com
# ANTHROPIC_MODEL=claude-sonnet-4-5
# ANTHROPIC_SMALL_FAST_MODEL=claude-haiku-4-5

# [kimi]
# ANTHROPIC_AUTH_TOKEN=sk-...
# ANTHROPIC_BASE_URL=https://api.moonshot.cn/anthropic
`

// WriteSample creates the sample provider file at path unless a file is
// already there. The file is never auto-modified after creation.
func WriteSample(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(Sample), 0o600); err != nil {
		return false, err
	}
	return true, nil
}
