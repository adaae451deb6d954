package status

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/claudew/claudew/internal/core/paths"
)

// runStatusCommand executes status against an isolated HOME and PATH
// and captures its stdout.
func runStatusCommand(t *testing.T, providersContent string) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SUDO_USER", "")
	t.Setenv("PATH", t.TempDir())
	t.Setenv(paths.EnvProvidersFile, "")

	if providersContent != "" {
		require.NoError(t, os.WriteFile(paths.ProvidersFile(), []byte(providersContent), 0o600))
	}

	originalStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	app := &cli.App{
		Name:           "claudew",
		Commands:       []*cli.Command{NewStatusCommand()},
		ExitErrHandler: func(context *cli.Context, err error) {},
	}
	err := app.Run([]string{"claudew", "status"})

	_ = w.Close()
	os.Stdout = originalStdout
	out, _ := io.ReadAll(r)

	require.NoError(t, err, "status is read-only and must not fail")
	return string(out)
}

func TestStatus_ReportsAllFourChecks(t *testing.T) {
	out := runStatusCommand(t, "")

	assert.Contains(t, out, "claudew status:")
	assert.Contains(t, out, "node")
	assert.Contains(t, out, "claude-code")
	assert.Contains(t, out, "shim")
	assert.Contains(t, out, "providers")
}

func TestStatus_CountsProvidersAndDefault(t *testing.T) {
	out := runStatusCommand(t, "default=kimi\n[kimi]\n[work]\n")

	assert.Contains(t, out, "2 providers")
	assert.Contains(t, out, "default: kimi")
}
