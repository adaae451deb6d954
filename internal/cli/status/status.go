package status

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/claudew/claudew/internal/core/execx"
	"github.com/claudew/claudew/internal/core/noderuntime"
	"github.com/claudew/claudew/internal/core/npm"
	"github.com/claudew/claudew/internal/core/paths"
	"github.com/claudew/claudew/internal/core/provider"
	"github.com/claudew/claudew/internal/core/shim"
	"github.com/claudew/claudew/internal/core/state"
)

// NewStatusCommand creates the cli.Command for "status": a read-only
// report of the runtime, the vendor CLI, the shim, and the provider
// file.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Shows the state of the runtime, Claude Code, the shim, and providers",
		Action: func(c *cli.Context) error {
			runner := execx.System{}

			okMark := color.New(color.FgGreen, color.Bold).SprintFunc()
			badMark := color.New(color.FgRed, color.Bold).SprintFunc()
			dim := color.New(color.FgHiBlack).SprintFunc()
			header := color.New(color.FgCyan, color.Bold).SprintFunc()

			line := func(ok bool, label, detail string) {
				mark := okMark("ok")
				if !ok {
					mark = badMark("missing")
				}
				fmt.Printf("  %-14s %s  %s\n", label, mark, dim(detail))
			}

			fmt.Println(header("claudew status:"))

			// Runtime.
			prov := &noderuntime.Provisioner{Runner: runner}
			rtState, rtVersion := prov.Probe()
			switch rtState {
			case noderuntime.OK:
				line(true, "node", "v"+rtVersion)
			default:
				line(false, "node", rtState.String())
			}

			// Vendor CLI package.
			installer := &npm.Installer{Runner: runner, UserPrefix: paths.NpmUserPrefix()}
			if version := installer.InstalledVersion(); version != "" {
				line(true, "claude-code", npm.Package+"@"+version)
			} else {
				line(false, "claude-code", npm.Package+" not installed globally")
			}

			// Shim.
			shimPath := paths.ShimFile()
			present, foreign := shim.Inspect(shimPath)
			switch {
			case present && !foreign:
				line(true, "shim", shimPath)
			case present && foreign:
				line(false, "shim", shimPath+" exists but was not written by claudew")
			default:
				line(false, "shim", shimPath)
			}

			// Provider file.
			providersPath := paths.ProvidersFile()
			if cfg, err := provider.Load(providersPath); err == nil {
				detail := fmt.Sprintf("%s (%d providers", providersPath, len(cfg.Sections))
				if cfg.Default != "" {
					detail += ", default: " + cfg.Default
				}
				detail += ")"
				line(true, "providers", detail)
			} else {
				line(false, "providers", providersPath)
			}

			// Recorded install state, when present.
			st, err := state.Load(paths.StateFile())
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: could not read state file: %v\n", err)
				return nil
			}
			if st.Installed() {
				fmt.Println()
				fmt.Printf("  installed %s (runtime via %s, %s@%s)\n",
					dim(st.InstalledAt), st.Runtime.Source, st.PackageName, st.PackageVersion)
			}
			return nil
		},
	}
}
