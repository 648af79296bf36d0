package lint

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/execshell"
)

const (
	executorMissingMessageConstant  = "shell executor not configured"
	lintPathArgumentConstant        = "."
	countFlagConstant               = "--count"
	showSourceFlagConstant          = "--show-source"
	statisticsFlagConstant          = "--statistics"
	defaultWorkingDirectoryConstant = "."
)

// ErrExecutorNotConfigured indicates the shell executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// Configuration captures lint command settings.
type Configuration struct {
	WorkingDirectory string `mapstructure:"working_directory"`
}

// Sanitize trims the working directory and falls back to the current directory.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := Configuration{WorkingDirectory: strings.TrimSpace(configuration.WorkingDirectory)}
	if len(sanitized.WorkingDirectory) == 0 {
		sanitized.WorkingDirectory = defaultWorkingDirectoryConstant
	}
	return sanitized
}

// Service runs the flake8 linter over the bot codebase.
type Service struct {
	executor      *execshell.ShellExecutor
	logger        *zap.Logger
	configuration Configuration
}

// NewService constructs a Service with the supplied collaborators.
func NewService(executor *execshell.ShellExecutor, logger *zap.Logger, configuration Configuration) (*Service, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{executor: executor, logger: logger, configuration: configuration.Sanitize()}, nil
}

// Run lints the working directory with violation counts, offending source, and statistics.
func (service *Service) Run(executionContext context.Context) (execshell.ExecutionResult, error) {
	return service.executor.ExecuteFlake8(executionContext, execshell.CommandDetails{
		Arguments: []string{
			lintPathArgumentConstant,
			countFlagConstant,
			showSourceFlagConstant,
			statisticsFlagConstant,
		},
		WorkingDirectory: service.configuration.WorkingDirectory,
		AttachTerminal:   true,
	})
}
