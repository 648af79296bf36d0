package targets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/execshell"
	"github.com/tyemirov/botops/internal/history"
	"github.com/tyemirov/botops/internal/targets"
)

const (
	testPropagatingTargetNameConstant = "docker-build"
	testSuppressedTargetNameConstant  = "docker-stop"
	testDispatchFailureMessageValue   = "docker stop failed"
	testDispatchFailureExitCode       = 5
)

func TestDispatcherRequiresRegistry(testInstance *testing.T) {
	dispatcher, creationError := targets.NewDispatcher(nil, nil, zap.NewNop())
	require.ErrorIs(testInstance, creationError, targets.ErrRegistryNotConfigured)
	require.Nil(testInstance, dispatcher)
}

func TestDispatcherRejectsUnknownTarget(testInstance *testing.T) {
	dispatcher, creationError := targets.NewDispatcher(targets.NewRegistry(), nil, zap.NewNop())
	require.NoError(testInstance, creationError)

	_, dispatchError := dispatcher.Dispatch(context.Background(), testPropagatingTargetNameConstant)
	var unknownTarget targets.UnknownTargetError
	require.ErrorAs(testInstance, dispatchError, &unknownTarget)
	require.Equal(testInstance, testPropagatingTargetNameConstant, unknownTarget.TargetName)
}

func TestDispatcherAppliesErrorPolicy(testInstance *testing.T) {
	failingRun := func(executionContext context.Context) (execshell.ExecutionResult, error) {
		result := execshell.ExecutionResult{ExitCode: testDispatchFailureExitCode}
		return result, errors.New(testDispatchFailureMessageValue)
	}

	testCases := []struct {
		name              string
		policy            targets.ErrorPolicy
		expectError       bool
		expectedExitCode  int
		expectSuppression bool
	}{
		{
			name:             testPropagatingTargetNameConstant,
			policy:           targets.PropagateFailures,
			expectError:      true,
			expectedExitCode: testDispatchFailureExitCode,
		},
		{
			name:              testSuppressedTargetNameConstant,
			policy:            targets.SuppressFailures,
			expectedExitCode:  0,
			expectSuppression: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			registry := targets.NewRegistry()
			require.NoError(subtestInstance, registry.Register(targets.Definition{
				Name:   testCase.name,
				Policy: testCase.policy,
				Run:    failingRun,
			}))

			recorder := history.NewInMemoryRunStore()
			dispatcher, creationError := targets.NewDispatcher(registry, recorder, zap.NewNop())
			require.NoError(subtestInstance, creationError)

			executionResult, dispatchError := dispatcher.Dispatch(context.Background(), testCase.name)

			require.Equal(subtestInstance, testCase.expectedExitCode, executionResult.ExitCode, "case %d", testCaseIndex)
			if testCase.expectError {
				require.ErrorContains(subtestInstance, dispatchError, testDispatchFailureMessageValue)
			} else {
				require.NoError(subtestInstance, dispatchError)
			}

			records, listError := recorder.List(0)
			require.NoError(subtestInstance, listError)
			require.Len(subtestInstance, records, 1)
			require.Equal(subtestInstance, testCase.name, records[0].TargetName)
			require.Equal(subtestInstance, testCase.expectedExitCode, records[0].ExitCode)
			require.Equal(subtestInstance, testCase.expectSuppression, records[0].FailureSuppressed)
			require.Equal(subtestInstance, !testCase.expectError, records[0].Succeeded)
		})
	}
}

func TestDispatcherRecordsSuccessfulRuns(testInstance *testing.T) {
	registry := targets.NewRegistry()
	require.NoError(testInstance, registry.Register(targets.Definition{
		Name: testPropagatingTargetNameConstant,
		Run:  noopTargetRun,
	}))

	recorder := history.NewInMemoryRunStore()
	dispatcher, creationError := targets.NewDispatcher(registry, recorder, zap.NewNop())
	require.NoError(testInstance, creationError)

	_, dispatchError := dispatcher.Dispatch(context.Background(), testPropagatingTargetNameConstant)
	require.NoError(testInstance, dispatchError)

	records, listError := recorder.List(0)
	require.NoError(testInstance, listError)
	require.Len(testInstance, records, 1)
	require.True(testInstance, records[0].Succeeded)
	require.NotEqual(testInstance, uuid.Nil, records[0].Identifier)
}
