package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorConstant   = "_"
	configurationKeySeparatorConstant = "."
)

// LoadedConfiguration describes the provenance of a loaded configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// ConfigurationLoader resolves configuration values from embedded defaults,
// configuration files, and environment variables, in increasing precedence.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// NewConfigurationLoader constructs a ConfigurationLoader instance.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       searchPaths,
	}
}

// SetEmbeddedConfiguration registers embedded configuration content merged beneath file and environment values.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(content []byte, contentType string) {
	loader.embeddedConfiguration = content
	loader.embeddedConfigurationType = contentType
}

// LoadConfiguration populates the provided target from defaults, embedded content, configuration files, and environment variables.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, target any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(loader.embeddedConfiguration) > 0 {
		embeddedType := loader.embeddedConfigurationType
		if len(embeddedType) == 0 {
			embeddedType = loader.configurationType
		}
		viperInstance.SetConfigType(embeddedType)
		if readError := viperInstance.ReadConfig(bytes.NewReader(loader.embeddedConfiguration)); readError != nil {
			return LoadedConfiguration{}, readError
		}
		viperInstance.SetConfigType(loader.configurationType)
	}

	configurationFileUsed := ""
	explicitPath := strings.TrimSpace(configurationFilePath)
	if len(explicitPath) > 0 {
		fileViper := viper.New()
		fileViper.SetConfigFile(explicitPath)
		if readError := fileViper.ReadInConfig(); readError != nil {
			return LoadedConfiguration{}, readError
		}
		if mergeError := viperInstance.MergeConfigMap(fileViper.AllSettings()); mergeError != nil {
			return LoadedConfiguration{}, mergeError
		}
		configurationFileUsed = explicitPath
	} else if discoveredPath := loader.discoverConfigurationFile(); len(discoveredPath) > 0 {
		fileViper := viper.New()
		fileViper.SetConfigFile(discoveredPath)
		if readError := fileViper.ReadInConfig(); readError != nil {
			return LoadedConfiguration{}, readError
		}
		if mergeError := viperInstance.MergeConfigMap(fileViper.AllSettings()); mergeError != nil {
			return LoadedConfiguration{}, mergeError
		}
		configurationFileUsed = discoveredPath
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(configurationKeySeparatorConstant, environmentKeySeparatorConstant))
	viperInstance.AutomaticEnv()

	bindEnvironmentKeys(viperInstance, defaultValues)

	if target != nil {
		decodeHookOption := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		))
		if unmarshalError := viperInstance.Unmarshal(target, decodeHookOption); unmarshalError != nil {
			return LoadedConfiguration{}, unmarshalError
		}
	}

	return LoadedConfiguration{ConfigFileUsed: configurationFileUsed}, nil
}

func (loader *ConfigurationLoader) discoverConfigurationFile() string {
	fileName := loader.configurationName + configurationKeySeparatorConstant + loader.configurationType
	for _, searchPath := range loader.searchPaths {
		trimmedPath := strings.TrimSpace(searchPath)
		if len(trimmedPath) == 0 {
			continue
		}
		candidatePath := filepath.Join(trimmedPath, fileName)
		fileInformation, statError := os.Stat(candidatePath)
		if statError != nil || fileInformation.IsDir() {
			continue
		}
		return candidatePath
	}
	return ""
}

// AutomaticEnv only resolves keys viper already knows about, so keys that are
// absent from both defaults and file content must be bound explicitly.
func bindEnvironmentKeys(viperInstance *viper.Viper, defaultValues map[string]any) {
	boundKeys := make(map[string]struct{})
	for defaultKey := range defaultValues {
		boundKeys[defaultKey] = struct{}{}
	}
	for _, knownKey := range viperInstance.AllKeys() {
		boundKeys[knownKey] = struct{}{}
	}
	for key := range boundKeys {
		_ = viperInstance.BindEnv(key)
	}
}
