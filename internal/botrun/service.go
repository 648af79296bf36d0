package botrun

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/execshell"
)

const (
	executorMissingMessageConstant  = "shell executor not configured"
	stepFailureContinuedMessageLog  = "run plan step failed; continuing with next step"
	stepNameLogFieldConstant        = "step"
	stepExitCodeLogFieldConstant    = "exit_code"
	planStepCountLogFieldConstant   = "step_count"
	planExecutionStartedMessageLog  = "run plan execution starting"
	planExecutionFinishedMessageLog = "run plan execution finished"
)

// ErrExecutorNotConfigured indicates the shell executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// Service executes the bot run plan directly on the host.
type Service struct {
	executor *execshell.ShellExecutor
	logger   *zap.Logger
}

// NewService constructs a Service with the supplied collaborators.
func NewService(executor *execshell.ShellExecutor, logger *zap.Logger) (*Service, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{executor: executor, logger: logger}, nil
}

// Run executes every plan step in order and reports the final step's outcome.
//
// Matching `;` separators, a failing step does not stop the sequence; the
// returned result and error belong to the last step alone.
func (service *Service) Run(executionContext context.Context, plan Plan, workingDirectory string) (execshell.ExecutionResult, error) {
	steps := plan.Steps(workingDirectory, true)

	service.logger.Debug(planExecutionStartedMessageLog,
		zap.Int(planStepCountLogFieldConstant, len(steps)),
	)

	var lastResult execshell.ExecutionResult
	var lastError error
	for stepIndex, step := range steps {
		stepResult, stepError := service.executor.Execute(executionContext, step)
		if stepError != nil && stepIndex < len(steps)-1 {
			service.logger.Warn(stepFailureContinuedMessageLog,
				zap.String(stepNameLogFieldConstant, string(step.Name)),
				zap.Int(stepExitCodeLogFieldConstant, stepResult.ExitCode),
			)
		}
		lastResult = stepResult
		lastError = stepError
	}

	service.logger.Debug(planExecutionFinishedMessageLog,
		zap.Int(stepExitCodeLogFieldConstant, lastResult.ExitCode),
	)

	return lastResult, lastError
}
