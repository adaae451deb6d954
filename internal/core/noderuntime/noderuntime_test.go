package noderuntime

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner scripts the subprocess surface so the provisioning chain
// can run without a shell.
type fakeRunner struct {
	bins    map[string]bool
	nodeVer string
	nodeErr error
	calls   []string
	onRun   func(name string, args []string) error
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.bins[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeRunner) Output(_ []string, name string, args ...string) (string, error) {
	if name == "node" && len(args) == 1 && args[0] == "--version" {
		return f.nodeVer, f.nodeErr
	}
	return "", nil
}

func (f *fakeRunner) Run(_ []string, name string, args ...string) error {
	f.calls = append(f.calls, strings.Join(append([]string{name}, args...), " "))
	if f.onRun != nil {
		return f.onRun(name, args)
	}
	return nil
}

func (f *fakeRunner) calledWith(substr string) bool {
	for _, call := range f.calls {
		if strings.Contains(call, substr) {
			return true
		}
	}
	return false
}

// seedNvm creates a fake nvm.sh so ensureNvm skips the network download.
func seedNvm(t *testing.T) string {
	t.Helper()
	nvmDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(nvmDir, "nvm.sh"), []byte("# nvm"), 0o644))
	return nvmDir
}

func TestProbe_Absent(t *testing.T) {
	p := &Provisioner{Runner: &fakeRunner{bins: map[string]bool{}}}

	st, ver := p.Probe()
	assert.Equal(t, Absent, st)
	assert.Empty(t, ver)
}

func TestProbe_OK(t *testing.T) {
	p := &Provisioner{Runner: &fakeRunner{bins: map[string]bool{"node": true}, nodeVer: "v20.10.0"}}

	st, ver := p.Probe()
	assert.Equal(t, OK, st)
	assert.Equal(t, "20.10.0", ver)
}

func TestProbe_TooOld(t *testing.T) {
	p := &Provisioner{Runner: &fakeRunner{bins: map[string]bool{"node": true}, nodeVer: "v16.20.2"}}

	st, ver := p.Probe()
	assert.Equal(t, TooOld, st)
	assert.Equal(t, "16.20.2", ver)
}

func TestProbe_GlibcMismatch(t *testing.T) {
	runner := &fakeRunner{
		bins:    map[string]bool{"node": true},
		nodeErr: errors.New("node: /lib64/libc.so.6: version `GLIBC_2.28' not found"),
	}
	p := &Provisioner{Runner: runner}

	st, _ := p.Probe()
	assert.Equal(t, Incompatible, st)
}

func TestProbe_UnparseableVersion(t *testing.T) {
	p := &Provisioner{Runner: &fakeRunner{bins: map[string]bool{"node": true}, nodeVer: "weird output"}}

	st, _ := p.Probe()
	assert.Equal(t, Absent, st)
}

func TestEnsure_Preexisting(t *testing.T) {
	p := &Provisioner{Runner: &fakeRunner{bins: map[string]bool{"node": true}, nodeVer: "v22.1.0"}}

	version, source, err := p.Ensure()
	require.NoError(t, err)
	assert.Equal(t, "22.1.0", version)
	assert.Equal(t, SourcePreexisting, source)
}

func TestEnsure_PackageManagerInstall(t *testing.T) {
	runner := &fakeRunner{bins: map[string]bool{"apt-get": true}}
	runner.onRun = func(name string, args []string) error {
		// Once the install command ran, node appears.
		if runner.calledWith("install -y nodejs npm") {
			runner.bins["node"] = true
			runner.nodeVer = "v22.1.0"
		}
		return nil
	}
	p := &Provisioner{Runner: runner, NvmDir: t.TempDir()}

	version, source, err := p.Ensure()
	require.NoError(t, err)
	assert.Equal(t, "22.1.0", version)
	assert.Equal(t, SourcePackageManager, source)
	assert.True(t, runner.calledWith("apt-get"), "apt-get should have been invoked")
}

func TestEnsure_FallsBackToNvm(t *testing.T) {
	runner := &fakeRunner{bins: map[string]bool{"bash": true}}
	runner.onRun = func(name string, args []string) error {
		if name == "bash" && runner.calledWith("nvm install --lts") {
			runner.bins["node"] = true
			runner.nodeVer = "v22.1.0"
		}
		return nil
	}
	p := &Provisioner{Runner: runner, NvmDir: seedNvm(t)}

	version, source, err := p.Ensure()
	require.NoError(t, err)
	assert.Equal(t, "22.1.0", version)
	assert.Equal(t, SourceNvm, source)
}

func TestEnsure_GlibcMismatchGoesStraightToSourceBuild(t *testing.T) {
	runner := &fakeRunner{
		bins:    map[string]bool{"node": true, "apt-get": true, "bash": true},
		nodeErr: errors.New("node: version `GLIBC_2.28' not found"),
	}
	runner.onRun = func(name string, args []string) error {
		if runner.calledWith("nvm install -s --lts") {
			runner.nodeErr = nil
			runner.nodeVer = "v22.1.0"
		}
		return nil
	}
	p := &Provisioner{Runner: runner, NvmDir: seedNvm(t)}

	version, source, err := p.Ensure()
	require.NoError(t, err)
	assert.Equal(t, "22.1.0", version)
	assert.Equal(t, SourceNvmBuild, source)
	assert.False(t, runner.calledWith("apt-get"), "binary installs should be skipped on glibc mismatch")
	assert.False(t, runner.calledWith("nvm install --lts"), "binary nvm install should be skipped on glibc mismatch")
}

func TestEnsure_ChainExhaustion(t *testing.T) {
	// No package manager, no bash: every step fails.
	p := &Provisioner{Runner: &fakeRunner{bins: map[string]bool{}}, NvmDir: t.TempDir()}

	_, _, err := p.Ensure()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not provision")
	assert.Contains(t, err.Error(), "Install Node.js manually")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "too old", TooOld.String())
	assert.Equal(t, "incompatible (glibc mismatch)", Incompatible.String())
	assert.Equal(t, "ok", OK.String())
}
