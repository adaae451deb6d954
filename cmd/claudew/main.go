package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/claudew/claudew/internal/cli/install"
	"github.com/claudew/claudew/internal/cli/runcmd"
	"github.com/claudew/claudew/internal/cli/self"
	"github.com/claudew/claudew/internal/cli/status"
	"github.com/claudew/claudew/internal/cli/uninstall"
	"github.com/claudew/claudew/internal/cli/update"
)

// version is injected at build time via -ldflags.
var version = "v0.1.0"

func main() {
	installCmd := install.NewInstallCommand()

	app := &cli.App{
		Name:    "claudew",
		Usage:   "Installs Claude Code and wraps it with per-provider credentials",
		Version: version,
		// Bare "claudew" behaves like "claudew install".
		Action: installCmd.Action,
		Flags:  installCmd.Flags,
		Commands: []*cli.Command{
			installCmd,
			update.NewUpdateCommand(),
			uninstall.NewUninstallCommand(),
			status.NewStatusCommand(),
			runcmd.NewRunCommand(),
			self.NewSelfCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
