package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/history"
	"github.com/tyemirov/botops/internal/serve"
	"github.com/tyemirov/botops/internal/status"
	"github.com/tyemirov/botops/internal/targets"
)

func (application *Application) registerCommands(cobraCommand *cobra.Command) {
	versionCommand := &cobra.Command{
		Use:           versionCommandUseNameConstant,
		Short:         versionCommandShortDescriptionConstant,
		Long:          versionCommandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			application.printVersion()
			return nil
		},
	}
	cobraCommand.AddCommand(versionCommand)

	for _, definition := range application.sortedTargetDefinitions() {
		targetCommandBuilder := targets.CommandBuilder{
			TargetName:         definition.Name,
			ShortDescription:   definition.ShortDescription,
			LongDescription:    definition.LongDescription,
			DispatcherProvider: application.dispatcherInstance,
		}
		if targetCommand, targetBuildError := targetCommandBuilder.Build(); targetBuildError == nil {
			cobraCommand.AddCommand(targetCommand)
		}
	}

	runCommand := &cobra.Command{
		Use:           runCommandUsageTemplateConstant,
		Short:         runCommandShortDescriptionConstant,
		Long:          runCommandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			dispatcher, dispatcherError := application.dispatcherInstance()
			if dispatcherError != nil {
				return dispatcherError
			}
			_, dispatchError := dispatcher.Dispatch(command.Context(), arguments[0])
			return dispatchError
		},
	}
	cobraCommand.AddCommand(runCommand)

	listBuilder := targets.ListCommandBuilder{
		RegistryProvider: func() (*targets.Registry, error) {
			return application.targetRegistry, nil
		},
	}
	if listCommand, listBuildError := listBuilder.Build(); listBuildError == nil {
		cobraCommand.AddCommand(listCommand)
	}

	statusBuilder := status.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ContainerNameProvider: application.containerNameProvider,
	}
	if statusCommand, statusBuildError := statusBuilder.Build(); statusBuildError == nil {
		cobraCommand.AddCommand(statusCommand)
	}

	historyBuilder := history.CommandBuilder{
		StoreProvider: application.historyStoreInstance,
	}
	if historyCommand, historyBuildError := historyBuilder.Build(); historyBuildError == nil {
		cobraCommand.AddCommand(historyCommand)
	}

	serveBuilder := serve.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		DispatcherProvider: func() *targets.Dispatcher {
			dispatcher, dispatcherError := application.dispatcherInstance()
			if dispatcherError != nil {
				return nil
			}
			return dispatcher
		},
		InspectorProvider: application.statusInspectorInstance,
		StoreProvider: func() history.Store {
			store, storeError := application.historyStoreInstance()
			if storeError != nil {
				return nil
			}
			return store
		},
		ConfigurationProvider: func() serve.Configuration {
			return application.configuration.Serve
		},
		ContainerNameProvider: application.containerNameProvider,
	}
	if serveCommand, serveBuildError := serveBuilder.Build(); serveBuildError == nil {
		cobraCommand.AddCommand(serveCommand)
	}
}

func (application *Application) containerNameProvider() string {
	return application.configuration.Container.Sanitize().ApplicationName
}

func (application *Application) statusInspectorInstance() *status.Inspector {
	apiClient, clientError := status.NewDockerAPIClient()
	if clientError != nil {
		application.logger.Warn(dockerClientUnavailableMessageConstant, zap.Error(clientError))
		return nil
	}

	inspector, inspectorError := status.NewInspector(apiClient, application.logger)
	if inspectorError != nil {
		return nil
	}
	return inspector
}
