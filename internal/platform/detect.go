package platform

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"runtime"
)

// OS represents a supported host operating system family.
type OS string

const (
	MacOS OS = "macos"
	Linux OS = "linux"
	WSL   OS = "wsl"
)

// Arch represents a supported CPU architecture.
type Arch string

const (
	AMD64 Arch = "amd64"
	ARM64 Arch = "arm64"
)

// ErrUnsupportedPlatform is returned for any OS/arch outside the supported matrix.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Platform identifies the host. It is computed once per invocation.
type Platform struct {
	OS   OS
	Arch Arch
}

func (p Platform) String() string {
	return string(p.OS) + "/" + string(p.Arch)
}

var wslPattern = regexp.MustCompile(`(?i)microsoft|wsl`)

// Detect returns the current host platform.
func Detect() (Platform, error) {
	procVersion := ""
	if runtime.GOOS == "linux" {
		if data, err := os.ReadFile("/proc/version"); err == nil {
			procVersion = string(data)
		}
	}
	return DetectFrom(runtime.GOOS, runtime.GOARCH, procVersion)
}

// DetectFrom maps Go's GOOS/GOARCH values and the contents of /proc/version
// to a Platform.
func DetectFrom(goos, goarch, procVersion string) (Platform, error) {
	var p Platform

	switch goos {
	case "darwin":
		p.OS = MacOS
	case "linux":
		if wslPattern.MatchString(procVersion) {
			p.OS = WSL
		} else {
			p.OS = Linux
		}
	default:
		return Platform{}, fmt.Errorf("%w: %s (macOS, Linux and WSL2 are supported)", ErrUnsupportedPlatform, goos)
	}

	switch goarch {
	case "amd64":
		p.Arch = AMD64
	case "arm64":
		p.Arch = ARM64
	default:
		return Platform{}, fmt.Errorf("%w: architecture %s (amd64 and arm64 are supported)", ErrUnsupportedPlatform, goarch)
	}

	return p, nil
}

// NeedsMachine reports whether containers on this platform run inside a
// podman machine VM.
func NeedsMachine(p Platform) bool {
	return p.OS == MacOS
}
