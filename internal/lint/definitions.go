package lint

import (
	"context"

	"github.com/tyemirov/botops/internal/execshell"
	"github.com/tyemirov/botops/internal/targets"
)

const (
	lintTargetNameConstant             = "flake8"
	lintTargetShortDescriptionConstant = "Lint the bot codebase"
	lintTargetLongDescriptionConstant  = "flake8 lints the working directory with violation counts, offending source lines, and statistics."
)

// ServiceProvider yields the lint service at dispatch time, after
// configuration has been loaded.
type ServiceProvider func() (*Service, error)

// NewTargetDefinition returns the lint target backed by the provided service.
func NewTargetDefinition(serviceProvider ServiceProvider) targets.Definition {
	return targets.Definition{
		Name:             lintTargetNameConstant,
		ShortDescription: lintTargetShortDescriptionConstant,
		LongDescription:  lintTargetLongDescriptionConstant,
		Policy:           targets.PropagateFailures,
		Run: func(executionContext context.Context) (execshell.ExecutionResult, error) {
			service, serviceError := serviceProvider()
			if serviceError != nil {
				return execshell.ExecutionResult{}, serviceError
			}
			return service.Run(executionContext)
		},
	}
}
