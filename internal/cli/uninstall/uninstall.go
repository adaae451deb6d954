package uninstall

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/claudew/claudew/internal/core/paths"
	"github.com/claudew/claudew/internal/core/shim"
)

// NewUninstallCommand creates the cli.Command for "uninstall": remove
// the shim and claudew's state after confirmation. --purge additionally
// (and independently) confirms deletion of the provider file. The vendor
// CLI package itself is left installed.
func NewUninstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "uninstall",
		Usage: "Removes the provider shim and claudew state",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "purge",
				Usage: "Also delete the provider config file",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip confirmation prompts",
			},
		},
		Action: func(c *cli.Context) error {
			return run(c, os.Stdin, os.Stdout)
		},
	}
}

// run is the testable body; prompts read from in, output goes to out.
func run(c *cli.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	assumeYes := c.Bool("yes")

	shimPath := paths.ShimFile()
	if !assumeYes && !confirm(reader, out, fmt.Sprintf("Remove the claudew shim at %s and its state? (y/N): ", shimPath)) {
		_, _ = fmt.Fprintln(out, "Uninstall cancelled.")
		return nil
	}

	if err := shim.Remove(shimPath); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	_, _ = fmt.Fprintf(out, "Removed shim %s.\n", shimPath)

	if err := os.RemoveAll(paths.StateDir()); err != nil {
		return cli.Exit(fmt.Sprintf("Error: failed to remove state directory: %v", err), 1)
	}
	_, _ = fmt.Fprintf(out, "Removed state directory %s.\n", paths.StateDir())

	if c.Bool("purge") {
		providersPath := paths.ProvidersFile()
		if _, err := os.Stat(providersPath); err == nil {
			// Purge gets its own confirmation: the provider file holds
			// credentials the user may not be able to recover.
			if assumeYes || confirm(reader, out, fmt.Sprintf("Also delete the provider file %s? (y/N): ", providersPath)) {
				if err := os.Remove(providersPath); err != nil {
					return cli.Exit(fmt.Sprintf("Error: failed to delete provider file: %v", err), 1)
				}
				_, _ = fmt.Fprintf(out, "Deleted provider file %s.\n", providersPath)
			} else {
				_, _ = fmt.Fprintln(out, "Provider file kept.")
			}
		}
	}

	_, _ = fmt.Fprintln(out, "Uninstall complete. The Claude Code package itself was not removed.")
	return nil
}

func confirm(reader *bufio.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprint(out, prompt)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(input)) == "y"
}
