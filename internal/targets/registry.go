package targets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tyemirov/botops/internal/execshell"
)

const (
	unknownTargetMessageTemplateConstant   = "unknown target %q"
	duplicateTargetMessageTemplateConstant = "target %q registered twice"
	targetNameMissingMessageConstant       = "target name must be provided"
	targetRunnerMissingMessageConstant     = "target runner must be provided"
)

// ErrorPolicy selects how a target's failures surface to the invoker.
type ErrorPolicy int

const (
	// PropagateFailures surfaces the delegated tool's failure unchanged.
	PropagateFailures ErrorPolicy = iota
	// SuppressFailures forces success for best-effort cleanup targets.
	SuppressFailures
)

// RunFunc executes a target and reports the delegated tool's observable result.
type RunFunc func(executionContext context.Context) (execshell.ExecutionResult, error)

// Definition describes a named, invocable target.
type Definition struct {
	Name             string
	ShortDescription string
	LongDescription  string
	Policy           ErrorPolicy
	// Interactive targets attach the caller's terminal and cannot be
	// dispatched through the HTTP surface.
	Interactive bool
	Run         RunFunc
}

// UnknownTargetError reports dispatch requests for unregistered targets.
type UnknownTargetError struct {
	TargetName string
}

// Error implements the error interface.
func (unknownError UnknownTargetError) Error() string {
	return fmt.Sprintf(unknownTargetMessageTemplateConstant, unknownError.TargetName)
}

// DuplicateTargetError reports double registration of a target name.
type DuplicateTargetError struct {
	TargetName string
}

// Error implements the error interface.
func (duplicateError DuplicateTargetError) Error() string {
	return fmt.Sprintf(duplicateTargetMessageTemplateConstant, duplicateError.TargetName)
}

// Registry stores target definitions indexed by normalized name.
type Registry struct {
	definitions map[string]Definition
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{definitions: map[string]Definition{}}
}

// Register adds a target definition to the registry.
func (registry *Registry) Register(definition Definition) error {
	normalizedName := normalizeTargetName(definition.Name)
	if len(normalizedName) == 0 {
		return fmt.Errorf(targetNameMissingMessageConstant)
	}
	if definition.Run == nil {
		return fmt.Errorf(targetRunnerMissingMessageConstant)
	}
	if _, exists := registry.definitions[normalizedName]; exists {
		return DuplicateTargetError{TargetName: normalizedName}
	}
	definition.Name = normalizedName
	registry.definitions[normalizedName] = definition
	return nil
}

// Lookup returns the definition registered under the provided name.
func (registry *Registry) Lookup(targetName string) (Definition, bool) {
	definition, exists := registry.definitions[normalizeTargetName(targetName)]
	return definition, exists
}

// Definitions returns a copy of every registered definition.
func (registry *Registry) Definitions() []Definition {
	definitions := make([]Definition, 0, len(registry.definitions))
	for _, definition := range registry.definitions {
		definitions = append(definitions, definition)
	}
	return definitions
}

// Names returns all registered target names in lexical order.
func (registry *Registry) Names() []string {
	names := make([]string, 0, len(registry.definitions))
	for name := range registry.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeTargetName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
