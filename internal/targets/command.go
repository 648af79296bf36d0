package targets

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

const (
	listCommandUseConstant           = "targets"
	listCommandShortConstant         = "List the registered targets"
	listCommandLongConstant          = "targets prints every registered target with its short description."
	listOutputHeaderConstant         = "TARGET\tDESCRIPTION\t"
	listOutputRowTemplateConstant    = "%s\t%s\t\n"
	missingDispatcherMessageConstant = "target command requires a dispatcher provider"
	missingRegistryMessageConstant   = "targets command requires a registry provider"
)

// ErrNoDispatcherProvider indicates a command builder without a dispatcher source.
var ErrNoDispatcherProvider = errors.New(missingDispatcherMessageConstant)

// ErrNoRegistryProvider indicates a listing command builder without a registry source.
var ErrNoRegistryProvider = errors.New(missingRegistryMessageConstant)

// DispatcherProvider yields the dispatcher used to run targets.
type DispatcherProvider func() (*Dispatcher, error)

// RegistryProvider yields the registry backing the target listing.
type RegistryProvider func() (*Registry, error)

// CommandBuilder assembles the cobra command for a single registered target.
type CommandBuilder struct {
	TargetName         string
	ShortDescription   string
	LongDescription    string
	DispatcherProvider DispatcherProvider
}

// Build constructs the target command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	if builder.DispatcherProvider == nil {
		return nil, ErrNoDispatcherProvider
	}

	command := &cobra.Command{
		Use:   builder.TargetName,
		Short: builder.ShortDescription,
		Long:  builder.LongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			dispatcher, dispatcherError := builder.DispatcherProvider()
			if dispatcherError != nil {
				return dispatcherError
			}
			_, dispatchError := dispatcher.Dispatch(command.Context(), builder.TargetName)
			return dispatchError
		},
	}
	command.SilenceUsage = true
	command.SilenceErrors = true
	return command, nil
}

// ListCommandBuilder assembles the command that prints the registered targets.
type ListCommandBuilder struct {
	RegistryProvider RegistryProvider
}

// Build constructs the listing command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	if builder.RegistryProvider == nil {
		return nil, ErrNoRegistryProvider
	}

	command := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortConstant,
		Long:  listCommandLongConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			registry, registryError := builder.RegistryProvider()
			if registryError != nil {
				return registryError
			}

			definitions := registry.Definitions()
			sort.Slice(definitions, func(firstIndex int, secondIndex int) bool {
				return definitions[firstIndex].Name < definitions[secondIndex].Name
			})

			writer := tabwriter.NewWriter(command.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, listOutputHeaderConstant)
			for _, definition := range definitions {
				fmt.Fprintf(writer, listOutputRowTemplateConstant, definition.Name, definition.ShortDescription)
			}
			return writer.Flush()
		},
	}
	command.SilenceUsage = true
	command.SilenceErrors = true
	return command, nil
}
