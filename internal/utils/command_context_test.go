package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithConfigurationFilePathRoundTrip(t *testing.T) {
	accessor := NewCommandContextAccessor()
	enriched := accessor.WithConfigurationFilePath(context.Background(), "/tmp/config.yaml")

	configurationFilePath, exists := accessor.ConfigurationFilePath(enriched)
	require.True(t, exists)
	require.Equal(t, "/tmp/config.yaml", configurationFilePath)
}

func TestConfigurationFilePathAbsentByDefault(t *testing.T) {
	accessor := NewCommandContextAccessor()

	_, exists := accessor.ConfigurationFilePath(context.Background())
	require.False(t, exists)
}

func TestWithWorkingDirectoryTrimsValue(t *testing.T) {
	accessor := NewCommandContextAccessor()
	enriched := accessor.WithWorkingDirectory(context.Background(), "  /srv/bot  ")

	workingDirectory, exists := accessor.WorkingDirectory(enriched)
	require.True(t, exists)
	require.Equal(t, "/srv/bot", workingDirectory)
}

func TestWithWorkingDirectorySkipsEmptyValue(t *testing.T) {
	accessor := NewCommandContextAccessor()
	enriched := accessor.WithWorkingDirectory(context.Background(), "   ")

	_, exists := accessor.WorkingDirectory(enriched)
	require.False(t, exists)
}

func TestWithLogLevelRoundTrip(t *testing.T) {
	accessor := NewCommandContextAccessor()
	enriched := accessor.WithLogLevel(context.Background(), " debug ")

	logLevel, exists := accessor.LogLevel(enriched)
	require.True(t, exists)
	require.Equal(t, "debug", logLevel)
}

func TestWithLogLevelSkipsEmptyValue(t *testing.T) {
	accessor := NewCommandContextAccessor()
	enriched := accessor.WithLogLevel(context.Background(), "")

	_, exists := accessor.LogLevel(enriched)
	require.False(t, exists)
}
