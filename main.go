package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tyemirov/botops/cmd/cli"
	"github.com/tyemirov/botops/internal/execshell"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the botops command-line application and mirrors the exit code
// of whichever delegated tool failed.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode > 0 {
		os.Exit(commandFailure.Result.ExitCode)
	}
	os.Exit(1)
}
