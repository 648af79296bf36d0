package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tyemirov/botops/cmd/cli"
)

const (
	testEmbeddedConfigurationTypeConstant = "yaml"
	testEmbeddedApplicationNameConstant   = "discord_bot"
	testEmbeddedLogLevelConstant          = "info"
)

func TestEmbeddedDefaultConfigurationParsesAsYAML(testInstance *testing.T) {
	configurationContent, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, testEmbeddedConfigurationTypeConstant, configurationType)
	require.NotEmpty(testInstance, configurationContent)

	var parsedConfiguration struct {
		Common struct {
			LogLevel string `yaml:"log_level"`
		} `yaml:"common"`
		Container struct {
			ApplicationName string `yaml:"application_name"`
		} `yaml:"container"`
	}
	require.NoError(testInstance, yaml.Unmarshal(configurationContent, &parsedConfiguration))
	require.Equal(testInstance, testEmbeddedLogLevelConstant, parsedConfiguration.Common.LogLevel)
	require.Equal(testInstance, testEmbeddedApplicationNameConstant, parsedConfiguration.Container.ApplicationName)
}
