package container

import (
	"context"

	"github.com/tyemirov/botops/internal/botrun"
	"github.com/tyemirov/botops/internal/execshell"
	"github.com/tyemirov/botops/internal/targets"
)

const (
	buildTargetNameConstant             = "docker-build"
	buildTargetShortDescriptionConstant = "Build the bot image"
	buildTargetLongDescriptionConstant  = "docker-build builds the working directory into an image tagged with the application name."
	interactiveTargetNameConstant       = "docker-interactive"
	interactiveShortDescriptionConstant = "Open a shell inside a fresh bot container"
	interactiveLongDescriptionConstant  = "docker-interactive starts a disposable container with the working directory bind-mounted and attaches an interactive shell."
	startTargetNameConstant             = "docker-start"
	startTargetShortDescriptionConstant = "Start the bot container in the background"
	startTargetLongDescriptionConstant  = "docker-start launches a detached, restart-on-failure container that installs and runs the bot."
	stopTargetNameConstant              = "docker-stop"
	stopTargetShortDescriptionConstant  = "Stop and remove the bot container"
	stopTargetLongDescriptionConstant   = "docker-stop stops and removes the named container; a missing container is treated as success."
)

// ServiceProvider yields the workflow service at dispatch time, after
// configuration has been loaded.
type ServiceProvider func() (*WorkflowService, error)

// PlanProvider yields the bot run plan for detached container starts.
type PlanProvider func() botrun.Plan

// NewTargetDefinitions returns the container lifecycle targets backed by the provided service.
func NewTargetDefinitions(serviceProvider ServiceProvider, planProvider PlanProvider) []targets.Definition {
	resolvePlan := func() botrun.Plan {
		if planProvider == nil {
			return botrun.DefaultPlan()
		}
		return planProvider()
	}

	return []targets.Definition{
		{
			Name:             buildTargetNameConstant,
			ShortDescription: buildTargetShortDescriptionConstant,
			LongDescription:  buildTargetLongDescriptionConstant,
			Policy:           targets.PropagateFailures,
			Run: func(executionContext context.Context) (execshell.ExecutionResult, error) {
				service, serviceError := serviceProvider()
				if serviceError != nil {
					return execshell.ExecutionResult{}, serviceError
				}
				return service.BuildImage(executionContext)
			},
		},
		{
			Name:             interactiveTargetNameConstant,
			ShortDescription: interactiveShortDescriptionConstant,
			LongDescription:  interactiveLongDescriptionConstant,
			Policy:           targets.PropagateFailures,
			Interactive:      true,
			Run: func(executionContext context.Context) (execshell.ExecutionResult, error) {
				service, serviceError := serviceProvider()
				if serviceError != nil {
					return execshell.ExecutionResult{}, serviceError
				}
				return service.StartInteractive(executionContext)
			},
		},
		{
			Name:             startTargetNameConstant,
			ShortDescription: startTargetShortDescriptionConstant,
			LongDescription:  startTargetLongDescriptionConstant,
			Policy:           targets.PropagateFailures,
			Run: func(executionContext context.Context) (execshell.ExecutionResult, error) {
				service, serviceError := serviceProvider()
				if serviceError != nil {
					return execshell.ExecutionResult{}, serviceError
				}
				return service.StartDetached(executionContext, resolvePlan())
			},
		},
		{
			Name:             stopTargetNameConstant,
			ShortDescription: stopTargetShortDescriptionConstant,
			LongDescription:  stopTargetLongDescriptionConstant,
			Policy:           targets.SuppressFailures,
			Run: func(executionContext context.Context) (execshell.ExecutionResult, error) {
				service, serviceError := serviceProvider()
				if serviceError != nil {
					return execshell.ExecutionResult{}, serviceError
				}
				return service.StopAndRemove(executionContext)
			},
		},
	}
}
