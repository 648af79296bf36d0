package targets

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/execshell"
	"github.com/tyemirov/botops/internal/history"
)

const (
	registryMissingMessageConstant       = "target registry not configured"
	dispatchStartedMessageConstant       = "target dispatch starting"
	dispatchFinishedMessageConstant      = "target dispatch finished"
	failureSuppressedMessageConstant     = "target failure suppressed"
	historyRecordFailureMessageConstant  = "unable to record target run"
	targetNameLogFieldConstant           = "target"
	exitCodeLogFieldConstant             = "exit_code"
	durationMillisecondsLogFieldConstant = "duration_ms"
	dispatchSucceededLogFieldConstant    = "succeeded"
)

// ErrRegistryNotConfigured indicates the dispatcher was built without a registry.
var ErrRegistryNotConfigured = errors.New(registryMissingMessageConstant)

// Dispatcher resolves target names and runs their definitions one at a time.
//
// A single mutex serializes dispatches: the named container is the only
// shared resource and concurrent target runs against it are not supported.
type Dispatcher struct {
	registry *Registry
	recorder history.Store
	logger   *zap.Logger
	mutex    sync.Mutex
}

// NewDispatcher constructs a Dispatcher. The recorder may be nil when run
// history is disabled.
func NewDispatcher(registry *Registry, recorder history.Store, logger *zap.Logger) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrRegistryNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, recorder: recorder, logger: logger}, nil
}

// Registry exposes the dispatcher's target registry.
func (dispatcher *Dispatcher) Registry() *Registry {
	return dispatcher.registry
}

// Dispatch runs the named target to completion and applies its error policy.
func (dispatcher *Dispatcher) Dispatch(executionContext context.Context, targetName string) (execshell.ExecutionResult, error) {
	definition, exists := dispatcher.registry.Lookup(targetName)
	if !exists {
		return execshell.ExecutionResult{}, UnknownTargetError{TargetName: targetName}
	}

	dispatcher.mutex.Lock()
	defer dispatcher.mutex.Unlock()

	dispatcher.logger.Debug(dispatchStartedMessageConstant,
		zap.String(targetNameLogFieldConstant, definition.Name),
	)

	startedAt := time.Now()
	executionResult, runError := definition.Run(executionContext)
	elapsed := time.Since(startedAt)

	failureSuppressed := false
	if runError != nil && definition.Policy == SuppressFailures {
		dispatcher.logger.Info(failureSuppressedMessageConstant,
			zap.String(targetNameLogFieldConstant, definition.Name),
			zap.Int(exitCodeLogFieldConstant, executionResult.ExitCode),
		)
		runError = nil
		executionResult.ExitCode = 0
		failureSuppressed = true
	}

	dispatcher.recordRun(definition.Name, startedAt, elapsed, executionResult, runError, failureSuppressed)

	dispatcher.logger.Debug(dispatchFinishedMessageConstant,
		zap.String(targetNameLogFieldConstant, definition.Name),
		zap.Int(exitCodeLogFieldConstant, executionResult.ExitCode),
		zap.Bool(dispatchSucceededLogFieldConstant, runError == nil),
		zap.Int64(durationMillisecondsLogFieldConstant, elapsed.Milliseconds()),
	)

	return executionResult, runError
}

func (dispatcher *Dispatcher) recordRun(targetName string, startedAt time.Time, elapsed time.Duration, executionResult execshell.ExecutionResult, runError error, failureSuppressed bool) {
	if dispatcher.recorder == nil {
		return
	}

	record := history.RunRecord{
		Identifier:           uuid.New(),
		TargetName:           targetName,
		StartedAt:            startedAt,
		DurationMilliseconds: elapsed.Milliseconds(),
		ExitCode:             executionResult.ExitCode,
		Succeeded:            runError == nil,
		FailureSuppressed:    failureSuppressed,
	}
	if runError != nil {
		record.ErrorMessage = runError.Error()
	}

	if recordError := dispatcher.recorder.Append(record); recordError != nil {
		dispatcher.logger.Warn(historyRecordFailureMessageConstant,
			zap.String(targetNameLogFieldConstant, targetName),
			zap.Error(recordError),
		)
	}
}
