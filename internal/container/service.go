package container

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/botrun"
	"github.com/tyemirov/botops/internal/execshell"
)

const (
	executorMissingMessageConstant       = "shell executor not configured"
	buildSubcommandConstant              = "build"
	runSubcommandConstant                = "run"
	stopSubcommandConstant               = "stop"
	removeSubcommandConstant             = "rm"
	imageTagFlagConstant                 = "--tag"
	removeAfterExitFlagConstant          = "--rm"
	interactiveFlagConstant              = "--interactive"
	ttyFlagConstant                      = "--tty"
	detachFlagConstant                   = "--detach"
	restartFlagConstant                  = "--restart"
	volumeFlagConstant                   = "--volume"
	containerWorkdirFlagConstant         = "--workdir"
	containerNameFlagConstant            = "--name"
	entrypointFlagConstant               = "--entrypoint"
	shellCommandFlagConstant             = "-c"
	bindMountTemplateConstant            = "%s:%s"
	buildContextArgumentConstant         = "."
	stopFailureIgnoredMessageConstant    = "container stop failed; continuing"
	removeFailureIgnoredMessageConstant  = "container removal failed; continuing"
	workingDirectoryResolveErrorTemplate = "unable to resolve working directory %q: %w"
	containerNameLogFieldConstant        = "container"
)

// ErrExecutorNotConfigured indicates the shell executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// WorkflowService drives the docker CLI for the bot container lifecycle.
type WorkflowService struct {
	executor      *execshell.ShellExecutor
	logger        *zap.Logger
	configuration Configuration
}

// NewWorkflowService constructs a WorkflowService with the supplied collaborators.
func NewWorkflowService(executor *execshell.ShellExecutor, logger *zap.Logger, configuration Configuration) (*WorkflowService, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{
		executor:      executor,
		logger:        logger,
		configuration: configuration.Sanitize(),
	}, nil
}

// BuildImage builds the bot image from the working directory, tagged with the application name.
func (service *WorkflowService) BuildImage(executionContext context.Context) (execshell.ExecutionResult, error) {
	return service.executor.ExecuteDocker(executionContext, execshell.CommandDetails{
		Arguments: []string{
			buildSubcommandConstant,
			imageTagFlagConstant, service.configuration.ApplicationName,
			buildContextArgumentConstant,
		},
		WorkingDirectory: service.configuration.WorkingDirectory,
		AttachTerminal:   true,
	})
}

// StartInteractive opens a shell inside a fresh container with the working directory bind-mounted.
func (service *WorkflowService) StartInteractive(executionContext context.Context) (execshell.ExecutionResult, error) {
	bindMount, bindMountError := service.bindMountSpecification()
	if bindMountError != nil {
		return execshell.ExecutionResult{}, bindMountError
	}

	return service.executor.ExecuteDocker(executionContext, execshell.CommandDetails{
		Arguments: []string{
			runSubcommandConstant,
			removeAfterExitFlagConstant,
			interactiveFlagConstant,
			ttyFlagConstant,
			volumeFlagConstant, bindMount,
			containerWorkdirFlagConstant, service.configuration.MountPath,
			containerNameFlagConstant, service.configuration.ApplicationName,
			entrypointFlagConstant, service.configuration.Shell,
			service.configuration.ApplicationName,
		},
		WorkingDirectory: service.configuration.WorkingDirectory,
		AttachTerminal:   true,
	})
}

// StartDetached launches the bot container in the background with a restart policy,
// running the provided plan through the container shell.
func (service *WorkflowService) StartDetached(executionContext context.Context, plan botrun.Plan) (execshell.ExecutionResult, error) {
	bindMount, bindMountError := service.bindMountSpecification()
	if bindMountError != nil {
		return execshell.ExecutionResult{}, bindMountError
	}

	return service.executor.ExecuteDocker(executionContext, execshell.CommandDetails{
		Arguments: []string{
			runSubcommandConstant,
			detachFlagConstant,
			restartFlagConstant, service.configuration.RestartPolicy,
			volumeFlagConstant, bindMount,
			containerWorkdirFlagConstant, service.configuration.MountPath,
			containerNameFlagConstant, service.configuration.ApplicationName,
			service.configuration.ApplicationName,
			service.configuration.Shell, shellCommandFlagConstant, plan.ShellScript(),
		},
		WorkingDirectory: service.configuration.WorkingDirectory,
	})
}

// StopAndRemove stops and removes the named container. Both steps are
// best-effort: a missing container is treated as success.
func (service *WorkflowService) StopAndRemove(executionContext context.Context) (execshell.ExecutionResult, error) {
	stopResult, stopError := service.executor.ExecuteDocker(executionContext, execshell.CommandDetails{
		Arguments:        []string{stopSubcommandConstant, service.configuration.ApplicationName},
		WorkingDirectory: service.configuration.WorkingDirectory,
	})
	if stopError != nil {
		service.logger.Info(stopFailureIgnoredMessageConstant,
			zap.String(containerNameLogFieldConstant, service.configuration.ApplicationName),
		)
	}

	removeResult, removeError := service.executor.ExecuteDocker(executionContext, execshell.CommandDetails{
		Arguments:        []string{removeSubcommandConstant, service.configuration.ApplicationName},
		WorkingDirectory: service.configuration.WorkingDirectory,
	})
	if removeError != nil {
		service.logger.Info(removeFailureIgnoredMessageConstant,
			zap.String(containerNameLogFieldConstant, service.configuration.ApplicationName),
		)
		return removeResult, removeError
	}

	if stopError != nil {
		return stopResult, stopError
	}
	return removeResult, nil
}

// ApplicationName exposes the configured container and image name.
func (service *WorkflowService) ApplicationName() string {
	return service.configuration.ApplicationName
}

func (service *WorkflowService) bindMountSpecification() (string, error) {
	absoluteWorkingDirectory, absoluteError := filepath.Abs(service.configuration.WorkingDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf(workingDirectoryResolveErrorTemplate, service.configuration.WorkingDirectory, absoluteError)
	}
	return fmt.Sprintf(bindMountTemplateConstant, absoluteWorkingDirectory, service.configuration.MountPath), nil
}
