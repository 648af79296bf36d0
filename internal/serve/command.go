package serve

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/history"
	"github.com/tyemirov/botops/internal/status"
	"github.com/tyemirov/botops/internal/targets"
)

const (
	commandUseConstant               = "serve"
	commandShortDescriptionConstant  = "Expose target dispatch over HTTP"
	commandLongDescriptionConstant   = "serve starts an HTTP control surface with health, status, history, and target dispatch endpoints for CI hooks."
	addressFlagNameConstant          = "address"
	addressFlagUsageConstant         = "Listen address for the HTTP control surface"
	defaultListenAddressConstant     = ":8787"
	dispatcherUnavailableMessageText = "serve requires a configured target dispatcher"
	serverStartingMessageConstant    = "http control surface starting"
	listenAddressLogFieldConstant    = "address"
)

// Configuration captures serve command settings.
type Configuration struct {
	Address string `mapstructure:"address"`
}

// Sanitize trims the address and falls back to the default listen address.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := Configuration{Address: strings.TrimSpace(configuration.Address)}
	if len(sanitized.Address) == 0 {
		sanitized.Address = defaultListenAddressConstant
	}
	return sanitized
}

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the serve command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	DispatcherProvider    func() *targets.Dispatcher
	InspectorProvider     func() *status.Inspector
	StoreProvider         func() history.Store
	ConfigurationProvider func() Configuration
	ContainerNameProvider func() string
}

// Build constructs the serve command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	command.Flags().String(addressFlagNameConstant, "", addressFlagUsageConstant)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	if builder.DispatcherProvider == nil {
		return errors.New(dispatcherUnavailableMessageText)
	}
	dispatcher := builder.DispatcherProvider()
	if dispatcher == nil {
		return errors.New(dispatcherUnavailableMessageText)
	}

	logger := builder.resolveLogger()

	var inspector *status.Inspector
	if builder.InspectorProvider != nil {
		inspector = builder.InspectorProvider()
	}
	var store history.Store
	if builder.StoreProvider != nil {
		store = builder.StoreProvider()
	}

	containerName := ""
	if builder.ContainerNameProvider != nil {
		containerName = builder.ContainerNameProvider()
	}

	server, serverError := NewServer(dispatcher, inspector, store, logger, containerName)
	if serverError != nil {
		return serverError
	}

	listenAddress := builder.resolveConfiguration().Address
	if command.Flags().Changed(addressFlagNameConstant) {
		flagAddress, flagError := command.Flags().GetString(addressFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		if trimmedAddress := strings.TrimSpace(flagAddress); len(trimmedAddress) > 0 {
			listenAddress = trimmedAddress
		}
	}

	logger.Info(serverStartingMessageConstant,
		zap.String(listenAddressLogFieldConstant, listenAddress),
	)

	return server.Run(command.Context(), listenAddress)
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return Configuration{}.Sanitize()
	}
	return builder.ConfigurationProvider().Sanitize()
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
