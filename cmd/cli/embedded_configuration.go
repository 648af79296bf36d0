package cli

import (
	_ "embed"
)

//go:embed config.yaml
var embeddedConfigurationContent []byte

// EmbeddedDefaultConfiguration returns the default configuration shipped with the binary.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return embeddedConfigurationContent, configurationTypeConstant
}
