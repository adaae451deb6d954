package update

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/claudew/claudew/internal/core/execx"
	"github.com/claudew/claudew/internal/core/hasher"
	"github.com/claudew/claudew/internal/core/npm"
	"github.com/claudew/claudew/internal/core/paths"
	"github.com/claudew/claudew/internal/core/shim"
	"github.com/claudew/claudew/internal/core/state"
)

// NewUpdateCommand creates the cli.Command for "update": upgrade the
// vendor CLI package and refresh the shim when its content changed.
func NewUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Updates Claude Code to the latest release and refreshes the shim",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: func(c *cli.Context) error {
			verbose := c.Bool("verbose") || paths.Debug()
			logf := func(format string, a ...any) {
				_, _ = fmt.Fprintf(os.Stdout, format+"\n", a...)
			}

			st, err := state.Load(paths.StateFile())
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			if !st.Installed() {
				return cli.Exit("Error: claudew is not installed. Run 'claudew install' first.", 1)
			}

			installer := &npm.Installer{
				Runner:     execx.System{},
				UserPrefix: paths.NpmUserPrefix(),
				Verbose:    verbose,
				Out:        logf,
			}
			fallbackBin, err := installer.Update()
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			if fallbackBin != "" {
				logf("Note: %s was updated under the user prefix; make sure %s is on your PATH.", npm.Package, fallbackBin)
			}
			st.PackageVersion = installer.InstalledVersion()
			logf("Updated %s to %s.", npm.Package, st.PackageVersion)

			binaryPath, err := os.Executable()
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: could not determine claudew binary path: %v", err), 1)
			}

			// Rewrite only when the rendered shim differs from what is on
			// disk, so a routine update never touches an up-to-date shim.
			shimPath := st.ShimPath
			renderedHash := hasher.Sum(shim.Render(binaryPath))
			if shim.Hash(shimPath) != renderedHash {
				hash, err := shim.Write(shimPath, binaryPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("Error: failed to refresh shim: %v", err), 1)
				}
				st.ShimHash = hash
				logf("Shim refreshed at %s.", shimPath)
			} else if verbose {
				logf("Shim at %s is up to date.", shimPath)
			}

			if err := state.Save(paths.StateFile(), st); err != nil {
				return cli.Exit(fmt.Sprintf("Error: failed to save install state: %v", err), 1)
			}
			return nil
		},
	}
}
