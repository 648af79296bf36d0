package version

import (
	"runtime/debug"
	"strings"
)

const (
	unknownVersionFallbackConstant = "unknown"
	buildInfoDevelVersionValue     = "devel"
)

// BuildInfoProvider exposes runtime build metadata.
type BuildInfoProvider interface {
	Read() (*debug.BuildInfo, bool)
}

// Detector resolves application version strings from build metadata.
type Detector struct {
	buildInfoProvider BuildInfoProvider
}

// NewDetector constructs a Detector with the supplied provider or the runtime default.
func NewDetector(provider BuildInfoProvider) *Detector {
	if provider == nil {
		provider = runtimeBuildInfoProvider{}
	}
	return &Detector{buildInfoProvider: provider}
}

// Detect resolves the application version using the runtime build metadata.
func Detect() string {
	return NewDetector(nil).Version()
}

// Version returns the detected application version string.
func (detector *Detector) Version() string {
	if detector == nil || detector.buildInfoProvider == nil {
		return unknownVersionFallbackConstant
	}

	buildInfo, available := detector.buildInfoProvider.Read()
	if !available || buildInfo == nil {
		return unknownVersionFallbackConstant
	}

	trimmedVersion := strings.TrimSpace(buildInfo.Main.Version)
	if len(trimmedVersion) == 0 {
		return unknownVersionFallbackConstant
	}
	if strings.EqualFold(trimmedVersion, buildInfoDevelVersionValue) {
		return unknownVersionFallbackConstant
	}

	return trimmedVersion
}

type runtimeBuildInfoProvider struct{}

func (runtimeBuildInfoProvider) Read() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}
