package platform

import (
	"errors"
	"os/exec"
)

// InstallMethod is the way podman gets installed on the host.
type InstallMethod string

const (
	// MethodPkg is the official macOS .pkg installer.
	MethodPkg    InstallMethod = "pkg"
	MethodApt    InstallMethod = "apt"
	MethodDnf    InstallMethod = "dnf"
	MethodZypper InstallMethod = "zypper"
	MethodPacman InstallMethod = "pacman"
	MethodApk    InstallMethod = "apk"
)

// ErrNoPackageManager is returned when no supported package manager is found.
var ErrNoPackageManager = errors.New("no supported package manager found. Install Podman manually: https://podman.io/docs/installation")

// PkgVersion is the podman release installed on macOS.
const PkgVersion = "5.4.1"

// PkgURL is the universal macOS installer for PkgVersion.
const PkgURL = "https://github.com/containers/podman/releases/download/v" + PkgVersion + "/podman-installer-macos-universal.pkg"

// package managers probed on Linux and WSL, in priority order
var linuxManagers = []struct {
	binary string
	method InstallMethod
}{
	{"apt-get", MethodApt},
	{"dnf", MethodDnf},
	{"zypper", MethodZypper},
	{"pacman", MethodPacman},
	{"apk", MethodApk},
}

// HasCommand reports whether name resolves on PATH.
func HasCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// DetectInstallMethod picks how to install podman. On macOS it is always the
// official .pkg; elsewhere the first package manager found by has wins.
func DetectInstallMethod(p Platform, has func(string) bool) (InstallMethod, error) {
	if p.OS == MacOS {
		return MethodPkg, nil
	}
	for _, m := range linuxManagers {
		if has(m.binary) {
			return m.method, nil
		}
	}
	return "", ErrNoPackageManager
}

// InstallCommand returns the command line that installs podman with method.
// MethodPkg returns nil; it is installed from PkgURL instead.
func InstallCommand(method InstallMethod) []string {
	switch method {
	case MethodApt:
		return []string{"sudo", "apt-get", "install", "-y", "podman"}
	case MethodDnf:
		return []string{"sudo", "dnf", "install", "-y", "podman"}
	case MethodZypper:
		return []string{"sudo", "zypper", "install", "-y", "podman"}
	case MethodPacman:
		return []string{"sudo", "pacman", "-S", "--noconfirm", "podman"}
	case MethodApk:
		return []string{"sudo", "apk", "add", "podman"}
	default:
		return nil
	}
}
