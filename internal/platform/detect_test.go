package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFrom(t *testing.T) {
	tests := []struct {
		name        string
		goos        string
		goarch      string
		procVersion string
		want        Platform
	}{
		{"macOS arm64", "darwin", "arm64", "", Platform{MacOS, ARM64}},
		{"macOS amd64", "darwin", "amd64", "", Platform{MacOS, AMD64}},
		{"linux amd64", "linux", "amd64", "Linux version 6.5.0-generic (gcc)", Platform{Linux, AMD64}},
		{"wsl2", "linux", "amd64", "Linux version 5.15.153.1-microsoft-standard-WSL2", Platform{WSL, AMD64}},
		{"wsl uppercase", "linux", "arm64", "Linux version 5.15 MICROSOFT", Platform{WSL, ARM64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFrom(tt.goos, tt.goarch, tt.procVersion)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFromUnsupported(t *testing.T) {
	_, err := DetectFrom("windows", "amd64", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedPlatform))
	assert.Contains(t, err.Error(), "windows")

	_, err = DetectFrom("linux", "386", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedPlatform))
	assert.Contains(t, err.Error(), "386")
}

func TestNeedsMachine(t *testing.T) {
	assert.True(t, NeedsMachine(Platform{MacOS, ARM64}))
	assert.False(t, NeedsMachine(Platform{Linux, AMD64}))
	assert.False(t, NeedsMachine(Platform{WSL, AMD64}))
}

func TestPlatformString(t *testing.T) {
	assert.Equal(t, "linux/arm64", Platform{Linux, ARM64}.String())
}
