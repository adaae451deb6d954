// Package noderuntime probes the Node.js runtime and provisions one when
// it is absent, too old, or binary-incompatible with the host libc.
package noderuntime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/claudew/claudew/internal/core/download"
	"github.com/claudew/claudew/internal/core/execx"
)

// MinVersion is the oldest Node.js release the vendor CLI supports.
const MinVersion = "18.0.0"

const (
	nvmVersion      = "v0.40.1"
	nvmInstallURL   = "https://raw.githubusercontent.com/nvm-sh/nvm/" + nvmVersion + "/install.sh"
	nvmMirrorURL    = "https://gitee.com/mirrors/nvm/raw/" + nvmVersion + "/install.sh"
	nvmSubshellBase = "export NVM_DIR=%q && [ -s \"$NVM_DIR/nvm.sh\" ] && . \"$NVM_DIR/nvm.sh\" && %s"
)

// State classifies the probed runtime.
type State int

const (
	// Absent: no node binary on PATH.
	Absent State = iota
	// TooOld: node is present but below MinVersion.
	TooOld
	// Incompatible: node is present but fails to start with a GLIBC
	// loader error, so only a from-source build can help.
	Incompatible
	// OK: a usable runtime is present.
	OK
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case TooOld:
		return "too old"
	case Incompatible:
		return "incompatible (glibc mismatch)"
	case OK:
		return "ok"
	default:
		return "unknown"
	}
}

// Source records which provisioning step produced the usable runtime,
// for the state file and status display.
type Source string

const (
	SourcePreexisting    Source = "preexisting"
	SourcePackageManager Source = "packagemanager"
	SourceNvm            Source = "nvm"
	SourceNvmBuild       Source = "nvm-source"
)

// Provisioner drives the probe/install chain. NvmDir defaults to
// ~/.nvm under the resolved home; it is passed on child environments
// only, never exported process-wide.
type Provisioner struct {
	Runner  execx.Runner
	NvmDir  string
	Verbose bool
	Out     func(format string, a ...any)
}

func (p *Provisioner) logf(format string, a ...any) {
	if p.Verbose && p.Out != nil {
		p.Out(format, a...)
	}
}

// Probe runs `node --version` and classifies the result.
func (p *Provisioner) Probe() (State, string) {
	if _, err := p.Runner.LookPath("node"); err != nil {
		return Absent, ""
	}

	out, err := p.Runner.Output(nil, "node", "--version")
	if err != nil {
		if strings.Contains(err.Error(), "GLIBC") || strings.Contains(out, "GLIBC") {
			return Incompatible, ""
		}
		return Absent, ""
	}

	version := strings.TrimPrefix(strings.TrimSpace(out), "v")
	v, err := semver.NewVersion(version)
	if err != nil {
		return Absent, ""
	}
	min := semver.MustParse(MinVersion)
	if v.LessThan(min) {
		return TooOld, version
	}
	return OK, version
}

// Ensure makes a usable runtime available, walking the fallback chain
// (package manager, nvm binary install, nvm source build) and re-probing
// after each step. It returns the version and the step that produced it,
// or an error after chain exhaustion.
func (p *Provisioner) Ensure() (version string, source Source, err error) {
	state, ver := p.Probe()
	p.logf("node runtime probe: %s", state)
	if state == OK {
		return ver, SourcePreexisting, nil
	}

	type step struct {
		name   string
		source Source
		run    func() error
	}
	steps := []step{
		{"package manager install", SourcePackageManager, p.installViaPackageManager},
		{"nvm install", SourceNvm, p.installViaNvm},
		{"nvm source build", SourceNvmBuild, p.installViaNvmSourceBuild},
	}

	var errs []string
	for _, s := range steps {
		// A glibc-incompatible binary install will just reproduce the
		// loader error, so those states go straight to the source build.
		if state == Incompatible && s.source != SourceNvmBuild {
			p.logf("skipping %s: %s", s.name, state)
			continue
		}

		p.logf("attempting %s...", s.name)
		if err := s.run(); err != nil {
			p.logf("%s failed: %v", s.name, err)
			errs = append(errs, fmt.Sprintf("%s: %v", s.name, err))
			continue
		}
		st, ver := p.Probe()
		if st == OK {
			return ver, s.source, nil
		}
		state = st
		errs = append(errs, fmt.Sprintf("%s: completed but runtime still %s", s.name, state))
	}

	return "", "", fmt.Errorf(
		"could not provision a Node.js >= %s runtime; tried: %s. Install Node.js manually and re-run",
		MinVersion, strings.Join(errs, "; "))
}

// installViaPackageManager installs nodejs through the first OS package
// manager found on PATH.
func (p *Provisioner) installViaPackageManager() error {
	type manager struct {
		bin  string
		args [][]string
	}
	managers := []manager{
		{"apt-get", [][]string{{"apt-get", "update"}, {"apt-get", "install", "-y", "nodejs", "npm"}}},
		{"dnf", [][]string{{"dnf", "install", "-y", "nodejs", "npm"}}},
		{"yum", [][]string{{"yum", "install", "-y", "nodejs", "npm"}}},
		{"pacman", [][]string{{"pacman", "-S", "--noconfirm", "nodejs", "npm"}}},
		{"apk", [][]string{{"apk", "add", "nodejs", "npm"}}},
		{"brew", [][]string{{"brew", "install", "node"}}},
	}

	for _, m := range managers {
		if _, err := p.Runner.LookPath(m.bin); err != nil {
			continue
		}
		for _, args := range m.args {
			args = p.withSudo(m.bin, args)
			if err := p.Runner.Run(nil, args[0], args[1:]...); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("no supported package manager found (apt-get, dnf, yum, pacman, apk, brew)")
}

// withSudo prefixes system package manager invocations with sudo when
// not already root. brew refuses to run as root and is left alone.
func (p *Provisioner) withSudo(bin string, args []string) []string {
	if bin == "brew" || os.Geteuid() == 0 {
		return args
	}
	if _, err := p.Runner.LookPath("sudo"); err != nil {
		return args
	}
	return append([]string{"sudo"}, args...)
}

// installViaNvm bootstraps nvm if needed and installs the latest LTS
// from prebuilt binaries.
func (p *Provisioner) installViaNvm() error {
	if err := p.ensureNvm(); err != nil {
		return err
	}
	return p.nvmExec("nvm install --lts")
}

// installViaNvmSourceBuild compiles Node.js from source through nvm, the
// path of last resort and the only one that helps on glibc mismatches.
func (p *Provisioner) installViaNvmSourceBuild() error {
	if err := p.ensureNvm(); err != nil {
		return err
	}
	return p.nvmExec("nvm install -s --lts")
}

func (p *Provisioner) ensureNvm() error {
	if _, err := os.Stat(filepath.Join(p.NvmDir, "nvm.sh")); err == nil {
		return nil
	}

	if _, err := p.Runner.LookPath("bash"); err != nil {
		return fmt.Errorf("bash is required to install nvm: %w", err)
	}

	p.logf("downloading nvm %s install script...", nvmVersion)
	script, err := download.FetchWithFallback(nvmInstallURL, nvmMirrorURL)
	if err != nil {
		return fmt.Errorf("failed to download nvm install script: %w", err)
	}

	tmp, err := os.CreateTemp("", "nvm-install-*.sh")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(script); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	env := []string{"NVM_DIR=" + p.NvmDir, "PROFILE=/dev/null"}
	return p.Runner.Run(env, "bash", tmp.Name())
}

// nvmExec sources nvm.sh in a child bash and runs the given nvm command
// there, keeping NVM state off this process's environment.
func (p *Provisioner) nvmExec(command string) error {
	script := fmt.Sprintf(nvmSubshellBase, p.NvmDir, command)
	return p.Runner.Run([]string{"NVM_DIR=" + p.NvmDir}, "bash", "-c", script)
}
