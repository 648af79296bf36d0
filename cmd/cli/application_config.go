package cli

import (
	"fmt"
	"strings"

	"github.com/tyemirov/botops/internal/botrun"
	"github.com/tyemirov/botops/internal/container"
	"github.com/tyemirov/botops/internal/lint"
	"github.com/tyemirov/botops/internal/serve"
)

const (
	historyBackendPersistentConstant        = "persistent"
	historyBackendMemoryConstant            = "memory"
	defaultHistoryDatabasePathConstant      = "botops_runs.db"
	unsupportedHistoryBackendTemplateString = "unsupported history backend %q"
	customTargetNameMissingMessageConstant  = "custom target name must be provided"
	customTargetCommandMissingTemplateText  = "custom target %q must declare a command"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Bot       botrun.Plan                    `mapstructure:"bot"`
	Container container.Configuration        `mapstructure:"container"`
	Lint      lint.Configuration             `mapstructure:"lint"`
	History   HistoryConfiguration           `mapstructure:"history"`
	Serve     serve.Configuration            `mapstructure:"serve"`
	Targets   []CustomTargetConfiguration    `mapstructure:"targets"`
}

// ApplicationCommonConfiguration stores logging defaults shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// HistoryConfiguration selects how target runs are recorded.
type HistoryConfiguration struct {
	Backend      string `mapstructure:"backend"`
	DatabasePath string `mapstructure:"database_path"`
}

// Sanitize trims textual values and fills empty fields with defaults.
func (configuration HistoryConfiguration) Sanitize() HistoryConfiguration {
	sanitized := HistoryConfiguration{
		Backend:      strings.ToLower(strings.TrimSpace(configuration.Backend)),
		DatabasePath: strings.TrimSpace(configuration.DatabasePath),
	}
	if len(sanitized.Backend) == 0 {
		sanitized.Backend = historyBackendPersistentConstant
	}
	if len(sanitized.DatabasePath) == 0 {
		sanitized.DatabasePath = defaultHistoryDatabasePathConstant
	}
	return sanitized
}

// Validate rejects unsupported history backends.
func (configuration HistoryConfiguration) Validate() error {
	sanitized := configuration.Sanitize()
	switch sanitized.Backend {
	case historyBackendPersistentConstant, historyBackendMemoryConstant:
		return nil
	default:
		return fmt.Errorf(unsupportedHistoryBackendTemplateString, sanitized.Backend)
	}
}

// CustomTargetConfiguration declares an additional target from the configuration file.
type CustomTargetConfiguration struct {
	Name             string   `mapstructure:"name"`
	Description      string   `mapstructure:"description"`
	Command          []string `mapstructure:"command"`
	WorkingDirectory string   `mapstructure:"working_directory"`
}

// Sanitize trims textual values of the custom target declaration.
func (configuration CustomTargetConfiguration) Sanitize() CustomTargetConfiguration {
	sanitized := CustomTargetConfiguration{
		Name:             strings.TrimSpace(configuration.Name),
		Description:      strings.TrimSpace(configuration.Description),
		WorkingDirectory: strings.TrimSpace(configuration.WorkingDirectory),
	}
	for _, argument := range configuration.Command {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 {
			continue
		}
		sanitized.Command = append(sanitized.Command, trimmedArgument)
	}
	return sanitized
}

// Validate rejects custom target declarations missing a name or command.
func (configuration CustomTargetConfiguration) Validate() error {
	sanitized := configuration.Sanitize()
	if len(sanitized.Name) == 0 {
		return fmt.Errorf(customTargetNameMissingMessageConstant)
	}
	if len(sanitized.Command) == 0 {
		return fmt.Errorf(customTargetCommandMissingTemplateText, sanitized.Name)
	}
	return nil
}
