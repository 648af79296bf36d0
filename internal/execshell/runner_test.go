package execshell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/botops/internal/execshell"
)

const (
	testShellScriptFlagConstant          = "-c"
	testShellPrintScriptConstant         = "printf hello"
	testShellExitScriptConstant          = "exit 3"
	testShellEnvironmentScriptConstant   = `printf "%s" "$BOTOPS_TEST_VALUE"`
	testEnvironmentVariableNameConstant  = "BOTOPS_TEST_VALUE"
	testEnvironmentVariableValueConstant = "configured"
	testExpectedPrintOutputConstant      = "hello"
)

func TestOSCommandRunnerRejectsMissingCommandName(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	_, runError := runner.Run(context.Background(), execshell.ShellCommand{})
	require.ErrorIs(testInstance, runError, execshell.ErrRunnerCommandMissing)
}

func TestOSCommandRunnerCapturesStandardOutput(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandShell,
		Details: execshell.CommandDetails{
			Arguments: []string{testShellScriptFlagConstant, testShellPrintScriptConstant},
		},
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, testExpectedPrintOutputConstant, executionResult.StandardOutput)
	require.Zero(testInstance, executionResult.ExitCode)
}

func TestOSCommandRunnerReportsExitCodeWithoutError(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandShell,
		Details: execshell.CommandDetails{
			Arguments: []string{testShellScriptFlagConstant, testShellExitScriptConstant},
		},
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, 3, executionResult.ExitCode)
}

func TestOSCommandRunnerAppliesEnvironmentOverrides(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandShell,
		Details: execshell.CommandDetails{
			Arguments: []string{testShellScriptFlagConstant, testShellEnvironmentScriptConstant},
			EnvironmentVariables: map[string]string{
				testEnvironmentVariableNameConstant: testEnvironmentVariableValueConstant,
			},
		},
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, testEnvironmentVariableValueConstant, executionResult.StandardOutput)
}
