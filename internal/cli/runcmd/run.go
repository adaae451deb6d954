// Package runcmd implements the command the shim execs: resolve a
// provider, inject its credentials, and launch the real Claude Code CLI.
package runcmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/claudew/claudew/internal/core/paths"
	"github.com/claudew/claudew/internal/core/provider"
	"github.com/claudew/claudew/internal/core/settings"
)

// NewRunCommand creates the cli.Command for "run". Flag parsing is
// skipped so everything after the optional provider name reaches the
// vendor CLI untouched.
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:            "run",
		Usage:           "Resolves a provider and launches Claude Code (what the shim calls)",
		ArgsUsage:       "[provider] [claude args...]",
		SkipFlagParsing: true,
		Description: "With a leading argument naming a configured provider, that provider's\n" +
			"credentials are injected before launch; otherwise the provider file's\n" +
			"default= entry is used. With neither, Claude Code runs unmodified.\n" +
			"'run --list' lists configured providers.",
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()

			if len(args) > 0 && (args[0] == "--list" || args[0] == "-l") {
				return listProviders()
			}

			debug := paths.Debug()
			logf := func(format string, a ...any) {
				if debug {
					_, _ = fmt.Fprintf(os.Stderr, "claudew: "+format+"\n", a...)
				}
			}

			providerArg := ""
			passArgs := args
			cfg, cfgErr := provider.Load(paths.ProvidersFile())

			// A leading argument only selects a provider when it names a
			// configured section; anything else belongs to the vendor CLI.
			if cfg != nil && len(args) > 0 && provider.NameRegex.MatchString(args[0]) && cfg.Has(args[0]) {
				providerArg = args[0]
				passArgs = args[1:]
			}

			switch {
			case cfgErr != nil:
				// No provider file: plain pass-through.
				logf("provider file not readable (%v); passing through", cfgErr)
			default:
				name := cfg.Select(providerArg)
				if name == "" {
					logf("no provider selected; passing through")
					break
				}

				p, err := cfg.Resolve(name)
				if err != nil {
					var incomplete *provider.IncompleteError
					if errors.As(err, &incomplete) {
						return cli.Exit(fmt.Sprintf("Error: %v. Edit %s and fill in the missing fields.", err, paths.ProvidersFile()), 1)
					}
					return cli.Exit(fmt.Sprintf("Error: %v (selected via default=)", err), 1)
				}

				if err := settings.Merge(paths.SettingsFile(), p.Env()); err != nil {
					return cli.Exit(fmt.Sprintf("Error: failed to update %s: %v", paths.SettingsFile(), err), 1)
				}
				logf("provider %q injected into %s", name, paths.SettingsFile())
			}

			return execClaude(passArgs, logf)
		},
	}
}

// execClaude finds the real vendor CLI (skipping the shim itself) and
// runs it with inherited stdio, propagating its exit code.
func execClaude(args []string, logf func(string, ...any)) error {
	target, err := findRealClaude()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	logf("launching %s", target)

	cmd := exec.Command(target, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return cli.Exit("", exitErr.ExitCode())
		}
		return cli.Exit(fmt.Sprintf("Error: failed to launch %s: %v", target, err), 1)
	}
	return nil
}

// findRealClaude walks PATH for a claude executable that is not the
// shim, then falls back to the npm user-prefix bin dir.
func findRealClaude() (string, error) {
	shimPath := resolve(paths.ShimFile())

	var candidates []string
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, "claude"))
	}
	candidates = append(candidates, filepath.Join(paths.NpmUserPrefix(), "bin", "claude"))

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() || info.Mode()&0o111 == 0 {
			continue
		}
		if resolve(candidate) == shimPath {
			continue
		}
		return candidate, nil
	}
	return "", fmt.Errorf("Claude Code CLI not found on PATH (only the shim); run 'claudew install' first")
}

func resolve(path string) string {
	if r, err := filepath.EvalSymlinks(path); err == nil {
		return r
	}
	if a, err := filepath.Abs(path); err == nil {
		return a
	}
	return path
}

// listProviders prints the configured sections, marking the default.
func listProviders() error {
	cfg, err := provider.Load(paths.ProvidersFile())
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: could not read provider file %s: %v", paths.ProvidersFile(), err), 1)
	}

	names := cfg.Names()
	if len(names) == 0 {
		fmt.Printf("No providers configured in %s.\n", paths.ProvidersFile())
		return nil
	}

	nameColor := color.New(color.FgWhite).SprintFunc()
	defaultColor := color.New(color.FgYellow, color.Bold).SprintFunc()

	fmt.Println("configured providers:")
	for _, name := range names {
		if name == cfg.Default {
			fmt.Printf("  %s %s\n", nameColor(name), defaultColor("(default)"))
		} else {
			fmt.Printf("  %s\n", nameColor(name))
		}
	}
	return nil
}
