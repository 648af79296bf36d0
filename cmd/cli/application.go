package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/botrun"
	"github.com/tyemirov/botops/internal/container"
	"github.com/tyemirov/botops/internal/execshell"
	"github.com/tyemirov/botops/internal/history"
	"github.com/tyemirov/botops/internal/lint"
	"github.com/tyemirov/botops/internal/targets"
	"github.com/tyemirov/botops/internal/utils"
	"github.com/tyemirov/botops/internal/version"
)

const (
	applicationNameConstant                                 = "botops"
	applicationShortDescriptionConstant                     = "Task runner for the Discord bot container"
	applicationLongDescriptionConstant                      = "botops builds, runs, and lints the Dockerized Discord bot through named targets."
	configFileFlagNameConstant                              = "config"
	configFileFlagUsageConstant                             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                                = "log-level"
	logLevelFlagUsageConstant                               = "Override the configured log level."
	logFormatFlagNameConstant                               = "log-format"
	logFormatFlagUsageConstant                              = "Override the configured log format (structured or console)."
	configurationInitializationFlagNameConstant             = "init"
	configurationInitializationFlagUsageConstant            = "Write the embedded default configuration to ./config.yaml and exit."
	configurationInitializationForceFlagNameConstant        = "force"
	configurationInitializationForceFlagUsageConstant       = "Overwrite an existing configuration file when initializing."
	configurationInitializationContentUnavailableErrorText  = "embedded configuration content is unavailable"
	configurationInitializationExistingFileTemplateConstant = "configuration file already exists at %s (use --force to overwrite)"
	configurationInitializationExistingDirectoryTemplate    = "configuration path %s is a directory"
	configurationInitializationWriteErrorTemplateConstant   = "unable to write configuration file %s: %w"
	configurationInitializationWorkingDirectoryTemplate     = "unable to determine working directory: %w"
	configurationInitializationSuccessMessageConstant       = "configuration file created"
	commonConfigurationKeyConstant                          = "common"
	commonLogLevelConfigKeyConstant                         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant                        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant                               = "BOTOPS"
	configurationNameConstant                               = "config"
	configurationTypeConstant                               = "yaml"
	configurationFileNameConstant                           = configurationNameConstant + "." + configurationTypeConstant
	configurationFilePermissionConstant                     = 0o600
	configurationInitializedMessageConstant                 = "configuration initialized"
	configurationLogLevelFieldConstant                      = "log_level"
	configurationLogFormatFieldConstant                     = "log_format"
	configurationFileFieldConstant                          = "config_file"
	xdgConfigHomeEnvironmentVariableConstant                = "XDG_CONFIG_HOME"
	configurationLoadErrorTemplateConstant                  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant                     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant                         = "unable to flush logger: %w"
	loggerSyncFailureTemplateConstant                       = "warning: unable to flush logger: %v\n"
	loggerNotInitializedMessageConstant                     = "logger not initialized"
	defaultConfigurationSearchPathConstant                  = "."
	userConfigurationDirectoryNameConstant                  = ".botops"
	xdgConfigurationDirectoryNameConstant                   = "botops"
	configurationSearchPathEnvironmentVariableConstant      = "BOTOPS_CONFIG_SEARCH_PATH"
	rootCommandInfoMessageConstant                          = "botops CLI executed"
	rootCommandDebugMessageConstant                         = "botops CLI diagnostics"
	logFieldCommandNameConstant                             = "command_name"
	logFieldArgumentCountConstant                           = "argument_count"
	logFieldArgumentsConstant                               = "arguments"
	historyStoreUnavailableMessageConstant                  = "run history disabled"
	dockerClientUnavailableMessageConstant                  = "docker engine api client unavailable"
	versionFlagNameConstant                                 = "version"
	versionFlagUsageConstant                                = "Print the application version and exit"
	versionOutputTemplateConstant                           = "botops version: %s\n"
	versionCommandUseNameConstant                           = "version"
	versionCommandShortDescriptionConstant                  = "Print the botops version"
	versionCommandLongDescriptionConstant                   = "version prints the current botops release identifier."
	runCommandUseNameConstant                               = "run"
	runCommandUsageTemplateConstant                         = runCommandUseNameConstant + " <target>"
	runCommandShortDescriptionConstant                      = "Run a target by name"
	runCommandLongDescriptionConstant                       = "run dispatches any registered target, including targets declared in the configuration file."
)

type loggerOutputsFactory interface {
	CreateLoggerOutputs(utils.LogLevel, utils.LogFormat) (utils.LoggerOutputs, error)
}

// Application wires the Cobra root command, configuration loader, target
// registry, and structured logger.
type Application struct {
	rootCommand                          *cobra.Command
	configurationLoader                  *utils.ConfigurationLoader
	loggerFactory                        loggerOutputsFactory
	logger                               *zap.Logger
	consoleLogger                        *zap.Logger
	configuration                        ApplicationConfiguration
	configurationMetadata                utils.LoadedConfiguration
	configurationFilePath                string
	logLevelFlagValue                    string
	logFormatFlagValue                   string
	commandContextAccessor               utils.CommandContextAccessor
	targetRegistry                       *targets.Registry
	targetDispatcher                     *targets.Dispatcher
	shellExecutor                        *execshell.ShellExecutor
	containerService                     *container.WorkflowService
	botRunService                        *botrun.Service
	lintService                          *lint.Service
	historyStore                         history.Store
	persistentHistoryStore               *history.BoltRunStore
	historyStoreError                    error
	historyStoreResolved                 bool
	configurationInitializationRequested bool
	configurationInitializationForced    bool
	versionFlag                          bool
	versionResolver                      func() string
	exitFunction                         func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}
	application.versionResolver = version.Detect
	application.exitFunction = os.Exit

	application.configurationLoader = utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		application.resolveConfigurationSearchPaths(),
	)

	embeddedConfigurationData, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	application.configurationLoader.SetEmbeddedConfiguration(embeddedConfigurationData, embeddedConfigurationType)

	application.targetRegistry = application.buildTargetRegistry()

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if initializationError := application.initializeConfiguration(command); initializationError != nil {
				return initializationError
			}

			if application.versionFlag {
				application.printVersion()
				application.exitFunction(0)
			}

			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().BoolVar(
		&application.configurationInitializationRequested,
		configurationInitializationFlagNameConstant,
		false,
		configurationInitializationFlagUsageConstant,
	)
	cobraCommand.PersistentFlags().BoolVar(
		&application.configurationInitializationForced,
		configurationInitializationForceFlagNameConstant,
		false,
		configurationInitializationForceFlagUsageConstant,
	)
	cobraCommand.PersistentFlags().BoolVar(&application.versionFlag, versionFlagNameConstant, false, versionFlagUsageConstant)

	application.registerCommands(cobraCommand)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	application.rootCommand.SetArgs(os.Args[1:])

	executionError := application.rootCommand.Execute()
	if closeError := application.Close(); closeError != nil && executionError == nil {
		executionError = closeError
	}
	return application.finishExecution(executionError)
}

// finishExecution flushes loggers without letting a flush failure mask the
// command outcome; command failures carry exit codes main must preserve.
func (application *Application) finishExecution(executionError error) error {
	syncError := application.flushLogger()
	if syncError == nil {
		return executionError
	}
	if executionError != nil {
		fmt.Fprintf(os.Stderr, loggerSyncFailureTemplateConstant, syncError)
		return executionError
	}
	return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// Close releases resources held by lazily constructed collaborators.
func (application *Application) Close() error {
	if application.persistentHistoryStore == nil {
		return nil
	}
	closeError := application.persistentHistoryStore.Close()
	application.persistentHistoryStore = nil
	return closeError
}

func (application *Application) resolveConfigurationSearchPaths() []string {
	overrideValue := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentVariableConstant))
	if len(overrideValue) == 0 {
		defaultSearchPaths := []string{defaultConfigurationSearchPathConstant}
		return append(defaultSearchPaths, application.resolveUserConfigurationDirectoryPaths()...)
	}

	overridePaths := strings.FieldsFunc(overrideValue, func(candidate rune) bool {
		return candidate == os.PathListSeparator
	})

	cleanedPaths := make([]string, 0, len(overridePaths))
	for _, pathCandidate := range overridePaths {
		trimmedCandidate := strings.TrimSpace(pathCandidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		cleanedPaths = append(cleanedPaths, trimmedCandidate)
	}

	if len(cleanedPaths) == 0 {
		return []string{defaultConfigurationSearchPathConstant}
	}

	return cleanedPaths
}

func (application *Application) resolveUserConfigurationDirectoryPaths() []string {
	userConfigurationDirectoryPaths := make([]string, 0, 2)

	appendDirectory := func(candidateDirectoryPath string) {
		trimmedPath := strings.TrimSpace(candidateDirectoryPath)
		if len(trimmedPath) == 0 {
			return
		}
		for _, existingPath := range userConfigurationDirectoryPaths {
			if existingPath == trimmedPath {
				return
			}
		}
		userConfigurationDirectoryPaths = append(userConfigurationDirectoryPaths, trimmedPath)
	}

	xdgConfigurationHome := strings.TrimSpace(os.Getenv(xdgConfigHomeEnvironmentVariableConstant))
	if len(xdgConfigurationHome) > 0 {
		appendDirectory(filepath.Join(xdgConfigurationHome, xdgConfigurationDirectoryNameConstant))
	}

	userHomeDirectoryPath, userHomeDirectoryError := os.UserHomeDir()
	if userHomeDirectoryError == nil {
		appendDirectory(filepath.Join(userHomeDirectoryPath, userConfigurationDirectoryNameConstant))
	}

	return userConfigurationDirectoryPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if validationError := application.configuration.History.Validate(); validationError != nil {
		return validationError
	}
	for _, customTarget := range application.configuration.Targets {
		if validationError := customTarget.Validate(); validationError != nil {
			return validationError
		}
	}

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	if application.logger == nil {
		application.logger = zap.NewNop()
	}

	application.consoleLogger = loggerOutputs.ConsoleLogger
	if application.consoleLogger == nil {
		application.consoleLogger = zap.NewNop()
	}

	application.logConfigurationInitialization()

	if registrationError := application.registerCustomTargets(); registrationError != nil {
		return registrationError
	}

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithLogLevel(updatedContext, application.configuration.Common.LogLevel)
		updatedContext = application.commandContextAccessor.WithWorkingDirectory(updatedContext, application.configuration.Container.Sanitize().WorkingDirectory)

		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// InitializeForCommand prepares application state for the provided command name without executing command logic.
func (application *Application) InitializeForCommand(commandUse string) error {
	command := &cobra.Command{Use: commandUse}
	return application.initializeConfiguration(command)
}

// ConfigFileUsed returns the configuration file path used during initialization.
func (application *Application) ConfigFileUsed() string {
	return application.configurationMetadata.ConfigFileUsed
}

// RootCommand exposes the assembled Cobra root command.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// TargetNames lists the registered target names in sorted order.
func (application *Application) TargetNames() []string {
	return application.targetRegistry.Names()
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) logConfigurationInitialization() {
	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)
}

func (application *Application) buildTargetRegistry() *targets.Registry {
	registry := targets.NewRegistry()

	containerDefinitions := container.NewTargetDefinitions(
		application.containerServiceInstance,
		func() botrun.Plan { return application.configuration.Bot },
	)
	for _, definition := range containerDefinitions {
		_ = registry.Register(definition)
	}

	_ = registry.Register(botrun.NewTargetDefinition(
		application.botRunServiceInstance,
		func() botrun.Plan { return application.configuration.Bot },
		func() string { return application.configuration.Container.Sanitize().WorkingDirectory },
	))

	_ = registry.Register(lint.NewTargetDefinition(application.lintServiceInstance))

	return registry
}

func (application *Application) registerCustomTargets() error {
	for _, declaredTarget := range application.configuration.Targets {
		sanitizedTarget := declaredTarget.Sanitize()
		if _, alreadyRegistered := application.targetRegistry.Lookup(sanitizedTarget.Name); alreadyRegistered {
			continue
		}

		registrationError := application.targetRegistry.Register(targets.Definition{
			Name:             sanitizedTarget.Name,
			ShortDescription: sanitizedTarget.Description,
			Policy:           targets.PropagateFailures,
			Run:              application.customTargetRunFunc(sanitizedTarget),
		})
		if registrationError != nil {
			return registrationError
		}
	}
	return nil
}

func (application *Application) customTargetRunFunc(declaredTarget CustomTargetConfiguration) targets.RunFunc {
	return func(executionContext context.Context) (execshell.ExecutionResult, error) {
		executor, executorError := application.shellExecutorInstance()
		if executorError != nil {
			return execshell.ExecutionResult{}, executorError
		}

		workingDirectory := declaredTarget.WorkingDirectory
		if len(workingDirectory) == 0 {
			if contextWorkingDirectory, available := application.commandContextAccessor.WorkingDirectory(executionContext); available {
				workingDirectory = contextWorkingDirectory
			}
		}

		return executor.Execute(executionContext, execshell.ShellCommand{
			Name: execshell.CommandName(declaredTarget.Command[0]),
			Details: execshell.CommandDetails{
				Arguments:        declaredTarget.Command[1:],
				WorkingDirectory: workingDirectory,
				AttachTerminal:   true,
			},
		})
	}
}

func (application *Application) shellExecutorInstance() (*execshell.ShellExecutor, error) {
	if application.shellExecutor != nil {
		return application.shellExecutor, nil
	}

	executor, executorError := execshell.NewShellExecutor(
		application.logger,
		execshell.NewOSCommandRunner(),
		application.humanReadableLoggingEnabled(),
	)
	if executorError != nil {
		return nil, executorError
	}

	application.shellExecutor = executor
	return executor, nil
}

func (application *Application) containerServiceInstance() (*container.WorkflowService, error) {
	if application.containerService != nil {
		return application.containerService, nil
	}

	executor, executorError := application.shellExecutorInstance()
	if executorError != nil {
		return nil, executorError
	}

	service, serviceError := container.NewWorkflowService(executor, application.logger, application.configuration.Container)
	if serviceError != nil {
		return nil, serviceError
	}

	application.containerService = service
	return service, nil
}

func (application *Application) botRunServiceInstance() (*botrun.Service, error) {
	if application.botRunService != nil {
		return application.botRunService, nil
	}

	executor, executorError := application.shellExecutorInstance()
	if executorError != nil {
		return nil, executorError
	}

	service, serviceError := botrun.NewService(executor, application.logger)
	if serviceError != nil {
		return nil, serviceError
	}

	application.botRunService = service
	return service, nil
}

func (application *Application) lintServiceInstance() (*lint.Service, error) {
	if application.lintService != nil {
		return application.lintService, nil
	}

	executor, executorError := application.shellExecutorInstance()
	if executorError != nil {
		return nil, executorError
	}

	service, serviceError := lint.NewService(executor, application.logger, application.configuration.Lint)
	if serviceError != nil {
		return nil, serviceError
	}

	application.lintService = service
	return service, nil
}

func (application *Application) historyStoreInstance() (history.Store, error) {
	if application.historyStoreResolved {
		return application.historyStore, application.historyStoreError
	}
	application.historyStoreResolved = true

	historyConfiguration := application.configuration.History.Sanitize()
	switch historyConfiguration.Backend {
	case historyBackendMemoryConstant:
		application.historyStore = history.NewInMemoryRunStore()
	default:
		persistentStore, storeError := history.NewBoltRunStore(historyConfiguration.DatabasePath, 0)
		if storeError != nil {
			application.historyStoreError = storeError
			return nil, storeError
		}
		application.persistentHistoryStore = persistentStore
		application.historyStore = persistentStore
	}

	return application.historyStore, nil
}

func (application *Application) dispatcherInstance() (*targets.Dispatcher, error) {
	if application.targetDispatcher != nil {
		return application.targetDispatcher, nil
	}

	runRecorder, storeError := application.historyStoreInstance()
	if storeError != nil {
		application.logger.Warn(historyStoreUnavailableMessageConstant, zap.Error(storeError))
		runRecorder = nil
	}

	dispatcher, dispatcherError := targets.NewDispatcher(application.targetRegistry, runRecorder, application.logger)
	if dispatcherError != nil {
		return nil, dispatcherError
	}

	application.targetDispatcher = dispatcher
	return dispatcher, nil
}

func (application *Application) handleConfigurationInitialization() (bool, error) {
	if !application.configurationInitializationRequested {
		return false, nil
	}

	configurationContent, _ := EmbeddedDefaultConfiguration()
	if len(configurationContent) == 0 {
		return true, errors.New(configurationInitializationContentUnavailableErrorText)
	}

	workingDirectoryPath, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return true, fmt.Errorf(configurationInitializationWorkingDirectoryTemplate, workingDirectoryError)
	}
	configurationFilePath := filepath.Join(workingDirectoryPath, configurationFileNameConstant)

	fileInfo, fileStatError := os.Stat(configurationFilePath)
	switch {
	case fileStatError == nil:
		if fileInfo.IsDir() {
			return true, fmt.Errorf(configurationInitializationExistingDirectoryTemplate, configurationFilePath)
		}
		if !application.configurationInitializationForced {
			return true, fmt.Errorf(configurationInitializationExistingFileTemplateConstant, configurationFilePath)
		}
	case errors.Is(fileStatError, os.ErrNotExist):
	default:
		return true, fmt.Errorf(configurationInitializationWriteErrorTemplateConstant, configurationFilePath, fileStatError)
	}

	if writeError := os.WriteFile(configurationFilePath, configurationContent, configurationFilePermissionConstant); writeError != nil {
		return true, fmt.Errorf(configurationInitializationWriteErrorTemplateConstant, configurationFilePath, writeError)
	}

	application.logger.Info(
		configurationInitializationSuccessMessageConstant,
		zap.String(configurationFileFieldConstant, configurationFilePath),
	)

	return true, nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	initializationHandled, initializationError := application.handleConfigurationInitialization()
	if initializationError != nil {
		return initializationError
	}
	if initializationHandled {
		return nil
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	configurationFilePath, _ := application.commandContextAccessor.ConfigurationFilePath(command.Context())
	effectiveLogLevel, _ := application.commandContextAccessor.LogLevel(command.Context())
	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
		zap.String(configurationFileFieldConstant, configurationFilePath),
		zap.String(configurationLogLevelFieldConstant, effectiveLogLevel),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) printVersion() {
	fmt.Printf(versionOutputTemplateConstant, application.versionResolver())
}

func (application *Application) sortedTargetDefinitions() []targets.Definition {
	definitions := application.targetRegistry.Definitions()
	sort.Slice(definitions, func(firstIndex int, secondIndex int) bool {
		return definitions[firstIndex].Name < definitions[secondIndex].Name
	})
	return definitions
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}

	if syncError := application.syncLoggerInstance(application.consoleLogger); syncError != nil {
		return syncError
	}

	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.EBADF):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
