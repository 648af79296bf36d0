package container_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/botrun"
	"github.com/tyemirov/botops/internal/container"
	"github.com/tyemirov/botops/internal/execshell"
)

const (
	testApplicationNameConstant  = "discord_bot"
	testMountPathConstant        = "/bot"
	testWorkingDirectoryConstant = "."
	testStopFailureExitCode      = 1
	testExpectedStopCommandCount = 2
	testDetachedShellScriptValue = "python --version ; pip install -e . ; python run.py --config config.json"
)

type recordingCommandRunner struct {
	results          []execshell.ExecutionResult
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	commandIndex := len(runner.recordedCommands)
	runner.recordedCommands = append(runner.recordedCommands, command)
	if commandIndex < len(runner.results) {
		return runner.results[commandIndex], nil
	}
	return execshell.ExecutionResult{}, nil
}

func newWorkflowService(testInstance *testing.T, runner *recordingCommandRunner) *container.WorkflowService {
	testInstance.Helper()

	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), runner, false)
	require.NoError(testInstance, executorError)

	service, serviceError := container.NewWorkflowService(executor, zap.NewNop(), container.DefaultConfiguration())
	require.NoError(testInstance, serviceError)
	return service
}

func expectedBindMount(testInstance *testing.T) string {
	testInstance.Helper()

	absoluteWorkingDirectory, absoluteError := filepath.Abs(testWorkingDirectoryConstant)
	require.NoError(testInstance, absoluteError)
	return fmt.Sprintf("%s:%s", absoluteWorkingDirectory, testMountPathConstant)
}

func TestWorkflowServiceRequiresExecutor(testInstance *testing.T) {
	service, creationError := container.NewWorkflowService(nil, zap.NewNop(), container.DefaultConfiguration())
	require.ErrorIs(testInstance, creationError, container.ErrExecutorNotConfigured)
	require.Nil(testInstance, service)
}

func TestWorkflowServiceBuildImage(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	service := newWorkflowService(testInstance, runner)

	_, buildError := service.BuildImage(context.Background())
	require.NoError(testInstance, buildError)

	require.Len(testInstance, runner.recordedCommands, 1)
	recordedCommand := runner.recordedCommands[0]
	require.Equal(testInstance, execshell.CommandDocker, recordedCommand.Name)
	require.Equal(testInstance, []string{"build", "--tag", testApplicationNameConstant, "."}, recordedCommand.Details.Arguments)
	require.True(testInstance, recordedCommand.Details.AttachTerminal)
}

func TestWorkflowServiceStartInteractive(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	service := newWorkflowService(testInstance, runner)

	_, startError := service.StartInteractive(context.Background())
	require.NoError(testInstance, startError)

	require.Len(testInstance, runner.recordedCommands, 1)
	recordedCommand := runner.recordedCommands[0]
	require.Equal(testInstance, execshell.CommandDocker, recordedCommand.Name)
	require.Equal(testInstance, []string{
		"run", "--rm", "--interactive", "--tty",
		"--volume", expectedBindMount(testInstance),
		"--workdir", testMountPathConstant,
		"--name", testApplicationNameConstant,
		"--entrypoint", "sh",
		testApplicationNameConstant,
	}, recordedCommand.Details.Arguments)
	require.True(testInstance, recordedCommand.Details.AttachTerminal)
}

func TestWorkflowServiceStartDetached(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	service := newWorkflowService(testInstance, runner)

	_, startError := service.StartDetached(context.Background(), botrun.DefaultPlan())
	require.NoError(testInstance, startError)

	require.Len(testInstance, runner.recordedCommands, 1)
	recordedCommand := runner.recordedCommands[0]
	require.Equal(testInstance, []string{
		"run", "--detach",
		"--restart", "on-failure",
		"--volume", expectedBindMount(testInstance),
		"--workdir", testMountPathConstant,
		"--name", testApplicationNameConstant,
		testApplicationNameConstant,
		"sh", "-c", testDetachedShellScriptValue,
	}, recordedCommand.Details.Arguments)
	require.False(testInstance, recordedCommand.Details.AttachTerminal)
}

func TestWorkflowServiceStopAndRemoveContinuesPastStopFailure(testInstance *testing.T) {
	runner := &recordingCommandRunner{
		results: []execshell.ExecutionResult{
			{ExitCode: testStopFailureExitCode},
			{ExitCode: 0},
		},
	}
	service := newWorkflowService(testInstance, runner)

	_, stopError := service.StopAndRemove(context.Background())

	require.Len(testInstance, runner.recordedCommands, testExpectedStopCommandCount)
	require.Equal(testInstance, []string{"stop", testApplicationNameConstant}, runner.recordedCommands[0].Details.Arguments)
	require.Equal(testInstance, []string{"rm", testApplicationNameConstant}, runner.recordedCommands[1].Details.Arguments)

	var commandFailure execshell.CommandFailedError
	require.ErrorAs(testInstance, stopError, &commandFailure)
	require.Equal(testInstance, testStopFailureExitCode, commandFailure.Result.ExitCode)
}

func TestWorkflowServiceStopAndRemoveSucceedsWhenBothStepsSucceed(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	service := newWorkflowService(testInstance, runner)

	_, stopError := service.StopAndRemove(context.Background())
	require.NoError(testInstance, stopError)
	require.Len(testInstance, runner.recordedCommands, testExpectedStopCommandCount)
}
