package botrun

import (
	"strings"

	"github.com/tyemirov/botops/internal/execshell"
)

const (
	defaultEntrypointScriptConstant     = "run.py"
	defaultConfigurationFileConstant    = "config.json"
	pythonVersionFlagConstant           = "--version"
	pipInstallSubcommandConstant        = "install"
	pipEditableFlagConstant             = "-e"
	pipCurrentDirectoryArgumentConstant = "."
	entrypointConfigFlagConstant        = "--config"
	shellStatementSeparatorConstant     = " ; "
)

// Plan describes the ordered command sequence that launches the bot.
//
// The three steps mirror the canonical run command: report the interpreter
// version, install the bot package in editable mode, then start the entrypoint
// with its configuration file. Steps are joined with `;` semantics: every step
// runs regardless of earlier failures and the overall status is the status of
// the final step.
type Plan struct {
	PythonExecutable  string `mapstructure:"python_executable"`
	PipExecutable     string `mapstructure:"pip_executable"`
	EntrypointScript  string `mapstructure:"entrypoint"`
	ConfigurationFile string `mapstructure:"configuration_file"`
}

// DefaultPlan returns the canonical bot run plan.
func DefaultPlan() Plan {
	return Plan{
		PythonExecutable:  string(execshell.CommandPython),
		PipExecutable:     string(execshell.CommandPip),
		EntrypointScript:  defaultEntrypointScriptConstant,
		ConfigurationFile: defaultConfigurationFileConstant,
	}
}

// Sanitize trims textual values and fills empty fields with defaults.
func (plan Plan) Sanitize() Plan {
	sanitized := Plan{
		PythonExecutable:  strings.TrimSpace(plan.PythonExecutable),
		PipExecutable:     strings.TrimSpace(plan.PipExecutable),
		EntrypointScript:  strings.TrimSpace(plan.EntrypointScript),
		ConfigurationFile: strings.TrimSpace(plan.ConfigurationFile),
	}
	defaults := DefaultPlan()
	if len(sanitized.PythonExecutable) == 0 {
		sanitized.PythonExecutable = defaults.PythonExecutable
	}
	if len(sanitized.PipExecutable) == 0 {
		sanitized.PipExecutable = defaults.PipExecutable
	}
	if len(sanitized.EntrypointScript) == 0 {
		sanitized.EntrypointScript = defaults.EntrypointScript
	}
	if len(sanitized.ConfigurationFile) == 0 {
		sanitized.ConfigurationFile = defaults.ConfigurationFile
	}
	return sanitized
}

// Steps returns the plan as typed shell commands executed on the host.
func (plan Plan) Steps(workingDirectory string, attachTerminal bool) []execshell.ShellCommand {
	sanitized := plan.Sanitize()
	return []execshell.ShellCommand{
		{
			Name: execshell.CommandName(sanitized.PythonExecutable),
			Details: execshell.CommandDetails{
				Arguments:        []string{pythonVersionFlagConstant},
				WorkingDirectory: workingDirectory,
				AttachTerminal:   attachTerminal,
			},
		},
		{
			Name: execshell.CommandName(sanitized.PipExecutable),
			Details: execshell.CommandDetails{
				Arguments:        []string{pipInstallSubcommandConstant, pipEditableFlagConstant, pipCurrentDirectoryArgumentConstant},
				WorkingDirectory: workingDirectory,
				AttachTerminal:   attachTerminal,
			},
		},
		{
			Name: execshell.CommandName(sanitized.PythonExecutable),
			Details: execshell.CommandDetails{
				Arguments:        []string{sanitized.EntrypointScript, entrypointConfigFlagConstant, sanitized.ConfigurationFile},
				WorkingDirectory: workingDirectory,
				AttachTerminal:   attachTerminal,
			},
		},
	}
}

// ShellScript renders the plan as a single shell statement for container execution.
func (plan Plan) ShellScript() string {
	sanitized := plan.Sanitize()
	statements := []string{
		strings.Join([]string{sanitized.PythonExecutable, pythonVersionFlagConstant}, " "),
		strings.Join([]string{sanitized.PipExecutable, pipInstallSubcommandConstant, pipEditableFlagConstant, pipCurrentDirectoryArgumentConstant}, " "),
		strings.Join([]string{sanitized.PythonExecutable, sanitized.EntrypointScript, entrypointConfigFlagConstant, sanitized.ConfigurationFile}, " "),
	}
	return strings.Join(statements, shellStatementSeparatorConstant)
}
