package status

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant               = "status"
	commandShortDescriptionConstant  = "Report daemon health and bot container state"
	commandLongDescriptionConstant   = "status pings the Docker daemon through the Engine API and inspects the bot container without shelling out to the docker CLI."
	daemonRowLabelConstant           = "DAEMON"
	containerRowLabelConstant        = "CONTAINER"
	stateRowLabelConstant            = "STATE"
	imageRowLabelConstant            = "IMAGE"
	restartCountRowLabelConstant     = "RESTARTS"
	startedAtRowLabelConstant        = "STARTED"
	daemonReachableValueConstant     = "reachable"
	containerPresentValueConstant    = "present"
	containerAbsentValueConstant     = "absent"
	rowTemplateConstant              = "%s\t%s\n"
	restartCountRowTemplateConstant  = "%s\t%d\n"
	clientCreationFailedTemplateText = "unable to create docker client: %w"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the status command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ClientProvider        func() (DockerAPIClient, error)
	ContainerNameProvider func() string
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	apiClient, clientError := builder.resolveClient()
	if clientError != nil {
		return fmt.Errorf(clientCreationFailedTemplateText, clientError)
	}

	inspector, inspectorError := NewInspector(apiClient, builder.resolveLogger())
	if inspectorError != nil {
		return inspectorError
	}

	report, inspectError := inspector.Inspect(command.Context(), builder.resolveContainerName())
	if inspectError != nil {
		return inspectError
	}

	writer := tabwriter.NewWriter(command.OutOrStdout(), 0, 0, 4, ' ', 0)
	fmt.Fprintf(writer, rowTemplateConstant, daemonRowLabelConstant, daemonReachableValueConstant)
	if report.ContainerPresent {
		fmt.Fprintf(writer, rowTemplateConstant, containerRowLabelConstant, containerPresentValueConstant)
		fmt.Fprintf(writer, rowTemplateConstant, stateRowLabelConstant, report.State)
		fmt.Fprintf(writer, rowTemplateConstant, imageRowLabelConstant, report.Image)
		fmt.Fprintf(writer, restartCountRowTemplateConstant, restartCountRowLabelConstant, report.RestartCount)
		fmt.Fprintf(writer, rowTemplateConstant, startedAtRowLabelConstant, report.StartedAt)
	} else {
		fmt.Fprintf(writer, rowTemplateConstant, containerRowLabelConstant, containerAbsentValueConstant)
	}
	return writer.Flush()
}

func (builder *CommandBuilder) resolveClient() (DockerAPIClient, error) {
	if builder.ClientProvider != nil {
		return builder.ClientProvider()
	}
	return NewDockerAPIClient()
}

func (builder *CommandBuilder) resolveContainerName() string {
	if builder.ContainerNameProvider == nil {
		return ""
	}
	return builder.ContainerNameProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
