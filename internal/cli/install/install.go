package install

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/claudew/claudew/internal/core/execx"
	"github.com/claudew/claudew/internal/core/noderuntime"
	"github.com/claudew/claudew/internal/core/npm"
	"github.com/claudew/claudew/internal/core/paths"
	"github.com/claudew/claudew/internal/core/provider"
	"github.com/claudew/claudew/internal/core/shim"
	"github.com/claudew/claudew/internal/core/state"
)

// NewInstallCommand creates the cli.Command for "install", the default
// command: provision the runtime, install the vendor CLI, write the shim
// and a sample provider file, and record the install state.
func NewInstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Provisions Node.js, installs Claude Code, and sets up the provider shim",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip-runtime",
				Usage: "Skip the Node.js runtime check and provisioning",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: func(c *cli.Context) error {
			verbose := c.Bool("verbose") || paths.Debug()
			runner := execx.System{}
			logf := func(format string, a ...any) {
				_, _ = fmt.Fprintf(os.Stdout, format+"\n", a...)
			}

			st := state.New()

			if c.Bool("skip-runtime") {
				if verbose {
					logf("Skipping runtime provisioning (--skip-runtime).")
				}
			} else {
				prov := &noderuntime.Provisioner{
					Runner:  runner,
					NvmDir:  filepath.Join(paths.Home(), ".nvm"),
					Verbose: verbose,
					Out:     logf,
				}
				version, source, err := prov.Ensure()
				if err != nil {
					return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
				}
				st.Runtime = state.Runtime{Source: string(source), Version: version}
				if source == noderuntime.SourcePreexisting {
					logf("Node.js %s already present.", version)
				} else {
					logf("Node.js %s provisioned via %s.", version, source)
				}
			}

			installer := &npm.Installer{
				Runner:     runner,
				UserPrefix: paths.NpmUserPrefix(),
				Verbose:    verbose,
				Out:        logf,
			}
			fallbackBin, err := installer.Install(npm.Package)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			if fallbackBin != "" {
				logf("Note: %s was installed under %s; add %s to your PATH.", npm.Package, paths.NpmUserPrefix(), fallbackBin)
			}
			st.PackageName = npm.Package
			st.PackageVersion = installer.InstalledVersion()
			logf("Installed %s %s.", npm.Package, st.PackageVersion)

			binaryPath, err := os.Executable()
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: could not determine claudew binary path: %v", err), 1)
			}
			shimPath := paths.ShimFile()
			hash, err := shim.Write(shimPath, binaryPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: failed to write shim: %v", err), 1)
			}
			st.ShimPath = shimPath
			st.ShimHash = hash
			logf("Shim written to %s.", shimPath)

			providersPath := paths.ProvidersFile()
			created, err := provider.WriteSample(providersPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: failed to create sample provider file: %v", err), 1)
			}
			if created {
				logf("Sample provider file created at %s. Edit it to add your providers.", providersPath)
			} else if verbose {
				logf("Provider file %s already exists; leaving it untouched.", providersPath)
			}

			st.InstalledAt = time.Now().UTC().Format(time.RFC3339)
			if err := state.Save(paths.StateFile(), st); err != nil {
				return cli.Exit(fmt.Sprintf("Error: failed to save install state: %v", err), 1)
			}

			logf("Install complete. Make sure %s is on your PATH ahead of npm's global bin dir.", filepath.Dir(shimPath))
			return nil
		},
	}
}
