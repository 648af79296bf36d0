package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const (
	environmentVariableTemplateConstant = "%s=%s"
	commandNotProvidedMessageConstant   = "command name not provided to runner"
)

// ErrRunnerCommandMissing indicates the runner received an empty command name.
var ErrRunnerCommandMissing = errors.New(commandNotProvidedMessageConstant)

// OSCommandRunner executes shell commands through os/exec.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs an OSCommandRunner instance.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the provided command and captures its observable results.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(strings.TrimSpace(string(command.Name))) == 0 {
		return ExecutionResult{}, ErrRunnerCommandMissing
	}
	if executionContext == nil {
		executionContext = context.Background()
	}

	executableCommand := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	executableCommand.Dir = command.Details.WorkingDirectory
	executableCommand.Env = mergeEnvironment(os.Environ(), command.Details.EnvironmentVariables)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer

	if command.Details.AttachTerminal {
		executableCommand.Stdin = os.Stdin
		executableCommand.Stdout = os.Stdout
		executableCommand.Stderr = os.Stderr
	} else {
		if len(command.Details.StandardInput) > 0 {
			executableCommand.Stdin = bytes.NewReader(command.Details.StandardInput)
		}
		executableCommand.Stdout = &standardOutputBuffer
		executableCommand.Stderr = &standardErrorBuffer
	}

	runError := executableCommand.Run()

	executionResult := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}

	if runError != nil {
		var exitError *exec.ExitError
		if errors.As(runError, &exitError) {
			executionResult.ExitCode = exitError.ExitCode()
			return executionResult, nil
		}
		return ExecutionResult{}, runError
	}

	return executionResult, nil
}

func mergeEnvironment(baseEnvironment []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return baseEnvironment
	}

	merged := make([]string, 0, len(baseEnvironment)+len(overrides))
	overriddenKeys := make(map[string]struct{}, len(overrides))
	for key := range overrides {
		overriddenKeys[key] = struct{}{}
	}

	for _, entry := range baseEnvironment {
		separatorIndex := strings.IndexByte(entry, '=')
		if separatorIndex < 0 {
			merged = append(merged, entry)
			continue
		}
		if _, overridden := overriddenKeys[entry[:separatorIndex]]; overridden {
			continue
		}
		merged = append(merged, entry)
	}

	overrideKeys := make([]string, 0, len(overrides))
	for key := range overrides {
		overrideKeys = append(overrideKeys, key)
	}
	sort.Strings(overrideKeys)
	for _, key := range overrideKeys {
		merged = append(merged, fmt.Sprintf(environmentVariableTemplateConstant, key, overrides[key]))
	}

	return merged
}
