package botrun

import (
	"context"
	"strings"

	"github.com/tyemirov/botops/internal/execshell"
	"github.com/tyemirov/botops/internal/targets"
)

const (
	devStartTargetNameConstant          = "dev-start"
	devStartShortDescriptionConstant    = "Run the bot directly on the host"
	devStartLongDescriptionConstant     = "dev-start executes the run plan on the host without containerization: interpreter version, editable install, then the bot entrypoint."
	defaultPlanWorkingDirectoryConstant = "."
)

// ServiceProvider yields the run service at dispatch time, after
// configuration has been loaded.
type ServiceProvider func() (*Service, error)

// NewTargetDefinition returns the host run target backed by the provided service.
func NewTargetDefinition(serviceProvider ServiceProvider, planProvider func() Plan, workingDirectoryProvider func() string) targets.Definition {
	return targets.Definition{
		Name:             devStartTargetNameConstant,
		ShortDescription: devStartShortDescriptionConstant,
		LongDescription:  devStartLongDescriptionConstant,
		Policy:           targets.PropagateFailures,
		Interactive:      true,
		Run: func(executionContext context.Context) (execshell.ExecutionResult, error) {
			service, serviceError := serviceProvider()
			if serviceError != nil {
				return execshell.ExecutionResult{}, serviceError
			}
			plan := DefaultPlan()
			if planProvider != nil {
				plan = planProvider()
			}
			workingDirectory := defaultPlanWorkingDirectoryConstant
			if workingDirectoryProvider != nil {
				if provided := strings.TrimSpace(workingDirectoryProvider()); len(provided) > 0 {
					workingDirectory = provided
				}
			}
			return service.Run(executionContext, plan, workingDirectory)
		},
	}
}
