package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tyemirov/botops/internal/execshell"
	"github.com/tyemirov/botops/internal/utils"
)

const (
	testSyncFailureMessageConstant      = "sync failed"
	testCommandFailureMessageConstant   = "command failed"
	testContextWorkingDirectoryConstant = "/srv/bot"
	testDeclaredWorkingDirectory        = "/srv/declared"
)

type recordingCommandRunner struct {
	commands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.commands = append(runner.commands, command)
	return execshell.ExecutionResult{}, nil
}

type failingSyncWriter struct{}

func (writer failingSyncWriter) Write(payload []byte) (int, error) {
	return len(payload), nil
}

func (writer failingSyncWriter) Sync() error {
	return errors.New(testSyncFailureMessageConstant)
}

func newFailingSyncLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		failingSyncWriter{},
		zapcore.InfoLevel,
	)
	return zap.New(core)
}

func TestHistoryConfigurationSanitizeAppliesDefaults(testInstance *testing.T) {
	sanitized := HistoryConfiguration{}.Sanitize()
	require.Equal(testInstance, historyBackendPersistentConstant, sanitized.Backend)
	require.Equal(testInstance, defaultHistoryDatabasePathConstant, sanitized.DatabasePath)
}

func TestHistoryConfigurationValidateRejectsUnknownBackend(testInstance *testing.T) {
	require.Error(testInstance, HistoryConfiguration{Backend: "redis"}.Validate())
	require.NoError(testInstance, HistoryConfiguration{Backend: " Memory "}.Validate())
}

func TestCustomTargetConfigurationSanitizeDropsBlankArguments(testInstance *testing.T) {
	sanitized := CustomTargetConfiguration{
		Name:    "  echo-greeting ",
		Command: []string{" echo ", "", "hello"},
	}.Sanitize()

	require.Equal(testInstance, "echo-greeting", sanitized.Name)
	require.Equal(testInstance, []string{"echo", "hello"}, sanitized.Command)
}

func TestCustomTargetConfigurationValidate(testInstance *testing.T) {
	require.Error(testInstance, CustomTargetConfiguration{Command: []string{"echo"}}.Validate())
	require.Error(testInstance, CustomTargetConfiguration{Name: "broken"}.Validate())
	require.NoError(testInstance, CustomTargetConfiguration{Name: "echo-greeting", Command: []string{"echo"}}.Validate())
}

func TestCustomTargetRunFuncUsesContextWorkingDirectoryFallback(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), runner, false)
	require.NoError(testInstance, executorError)

	application := &Application{
		logger:                 zap.NewNop(),
		shellExecutor:          executor,
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	runFunc := application.customTargetRunFunc(CustomTargetConfiguration{
		Name:    "echo-greeting",
		Command: []string{"echo", "hello"},
	})

	executionContext := application.commandContextAccessor.WithWorkingDirectory(context.Background(), testContextWorkingDirectoryConstant)
	_, runError := runFunc(executionContext)
	require.NoError(testInstance, runError)
	require.Len(testInstance, runner.commands, 1)
	require.Equal(testInstance, testContextWorkingDirectoryConstant, runner.commands[0].Details.WorkingDirectory)
}

func TestCustomTargetRunFuncPrefersDeclaredWorkingDirectory(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), runner, false)
	require.NoError(testInstance, executorError)

	application := &Application{
		logger:                 zap.NewNop(),
		shellExecutor:          executor,
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	runFunc := application.customTargetRunFunc(CustomTargetConfiguration{
		Name:             "echo-greeting",
		Command:          []string{"echo", "hello"},
		WorkingDirectory: testDeclaredWorkingDirectory,
	})

	executionContext := application.commandContextAccessor.WithWorkingDirectory(context.Background(), testContextWorkingDirectoryConstant)
	_, runError := runFunc(executionContext)
	require.NoError(testInstance, runError)
	require.Len(testInstance, runner.commands, 1)
	require.Equal(testInstance, testDeclaredWorkingDirectory, runner.commands[0].Details.WorkingDirectory)
}

func TestFinishExecutionPreservesCommandFailureOverSyncFailure(testInstance *testing.T) {
	application := &Application{
		logger:        newFailingSyncLogger(),
		consoleLogger: zap.NewNop(),
	}

	commandError := errors.New(testCommandFailureMessageConstant)
	require.Equal(testInstance, commandError, application.finishExecution(commandError))
}

func TestFinishExecutionReportsSyncFailureWhenCommandSucceeded(testInstance *testing.T) {
	application := &Application{
		logger:        newFailingSyncLogger(),
		consoleLogger: zap.NewNop(),
	}

	finishError := application.finishExecution(nil)
	require.ErrorContains(testInstance, finishError, testSyncFailureMessageConstant)
}

func TestFinishExecutionPassesThroughWhenFlushSucceeds(testInstance *testing.T) {
	application := &Application{
		logger:        zap.NewNop(),
		consoleLogger: zap.NewNop(),
	}

	require.NoError(testInstance, application.finishExecution(nil))

	commandError := errors.New(testCommandFailureMessageConstant)
	require.Equal(testInstance, commandError, application.finishExecution(commandError))
}

func TestResolveConfigurationSearchPathsHonorsEnvironmentOverride(testInstance *testing.T) {
	overrideDirectories := []string{testInstance.TempDir(), testInstance.TempDir()}
	testInstance.Setenv(configurationSearchPathEnvironmentVariableConstant, strings.Join(overrideDirectories, string(os.PathListSeparator)))

	application := &Application{}
	require.Equal(testInstance, overrideDirectories, application.resolveConfigurationSearchPaths())
}

func TestResolveConfigurationSearchPathsDefaultsToWorkingDirectoryFirst(testInstance *testing.T) {
	testInstance.Setenv(configurationSearchPathEnvironmentVariableConstant, "")

	application := &Application{}
	searchPaths := application.resolveConfigurationSearchPaths()
	require.NotEmpty(testInstance, searchPaths)
	require.Equal(testInstance, defaultConfigurationSearchPathConstant, searchPaths[0])
}

func TestHandleConfigurationInitializationWritesConfigurationFile(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	testInstance.Chdir(workingDirectory)

	application := &Application{logger: zap.NewNop(), configurationInitializationRequested: true}

	handled, initializationError := application.handleConfigurationInitialization()
	require.True(testInstance, handled)
	require.NoError(testInstance, initializationError)

	writtenContent, readError := os.ReadFile(filepath.Join(workingDirectory, configurationFileNameConstant))
	require.NoError(testInstance, readError)

	embeddedContent, _ := EmbeddedDefaultConfiguration()
	require.Equal(testInstance, embeddedContent, writtenContent)
}

func TestHandleConfigurationInitializationRefusesToOverwriteWithoutForce(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	testInstance.Chdir(workingDirectory)

	existingFilePath := filepath.Join(workingDirectory, configurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(existingFilePath, []byte("common: {}\n"), configurationFilePermissionConstant))

	application := &Application{logger: zap.NewNop(), configurationInitializationRequested: true}

	handled, initializationError := application.handleConfigurationInitialization()
	require.True(testInstance, handled)
	require.Error(testInstance, initializationError)

	application.configurationInitializationForced = true
	handled, initializationError = application.handleConfigurationInitialization()
	require.True(testInstance, handled)
	require.NoError(testInstance, initializationError)
}

func TestHandleConfigurationInitializationSkippedWhenNotRequested(testInstance *testing.T) {
	application := &Application{logger: zap.NewNop()}

	handled, initializationError := application.handleConfigurationInitialization()
	require.False(testInstance, handled)
	require.NoError(testInstance, initializationError)
}
