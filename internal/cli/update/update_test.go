package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/claudew/claudew/internal/core/paths"
	"github.com/claudew/claudew/internal/core/state"
)

func runUpdate(t *testing.T) error {
	t.Helper()
	app := &cli.App{
		Name:           "claudew",
		Commands:       []*cli.Command{NewUpdateCommand()},
		ExitErrHandler: func(context *cli.Context, err error) {},
	}
	return app.Run([]string{"claudew", "update"})
}

func TestUpdate_RequiresInstall(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SUDO_USER", "")

	err := runUpdate(t)
	require.Error(t, err)
	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, err.Error(), "not installed")
}

func TestUpdate_FailsCleanlyWithoutNpm(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SUDO_USER", "")
	t.Setenv("PATH", t.TempDir())

	st := state.New()
	st.ShimPath = paths.ShimFile()
	require.NoError(t, state.Save(paths.StateFile(), st))

	err := runUpdate(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "npm not found on PATH")
}
