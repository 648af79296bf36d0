package serve_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyemirov/botops/internal/execshell"
	"github.com/tyemirov/botops/internal/history"
	"github.com/tyemirov/botops/internal/serve"
	"github.com/tyemirov/botops/internal/targets"
)

const (
	testHealthEndpointConstant        = "/healthz"
	testHistoryEndpointConstant       = "/history"
	testTargetEndpointTemplate        = "/targets/%s"
	testSucceedingTargetNameConstant  = "docker-build"
	testFailingTargetNameConstant     = "flake8"
	testInteractiveTargetNameConstant = "docker-interactive"
	testUnknownTargetNameConstant     = "missing"
	testFailureExitCodeConstant       = 4
	testContainerNameConstant         = "discord_bot"
)

func buildTestServer(testInstance *testing.T, store history.Store) *serve.Server {
	testInstance.Helper()

	registry := targets.NewRegistry()
	require.NoError(testInstance, registry.Register(targets.Definition{
		Name: testSucceedingTargetNameConstant,
		Run: func(executionContext context.Context) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{}, nil
		},
	}))
	require.NoError(testInstance, registry.Register(targets.Definition{
		Name: testFailingTargetNameConstant,
		Run: func(executionContext context.Context) (execshell.ExecutionResult, error) {
			command := execshell.ShellCommand{Name: execshell.CommandFlake8}
			result := execshell.ExecutionResult{ExitCode: testFailureExitCodeConstant}
			return result, execshell.CommandFailedError{Command: command, Result: result}
		},
	}))
	require.NoError(testInstance, registry.Register(targets.Definition{
		Name:        testInteractiveTargetNameConstant,
		Interactive: true,
		Run: func(executionContext context.Context) (execshell.ExecutionResult, error) {
			return execshell.ExecutionResult{}, nil
		},
	}))

	dispatcher, dispatcherError := targets.NewDispatcher(registry, store, zap.NewNop())
	require.NoError(testInstance, dispatcherError)

	server, serverError := serve.NewServer(dispatcher, nil, store, zap.NewNop(), testContainerNameConstant)
	require.NoError(testInstance, serverError)
	return server
}

func performRequest(testInstance *testing.T, server *serve.Server, method string, path string) *httptest.ResponseRecorder {
	testInstance.Helper()

	request := httptest.NewRequest(method, path, nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	return recorder
}

func TestServerRequiresDispatcher(testInstance *testing.T) {
	server, serverError := serve.NewServer(nil, nil, nil, zap.NewNop(), testContainerNameConstant)
	require.ErrorIs(testInstance, serverError, serve.ErrDispatcherNotConfigured)
	require.Nil(testInstance, server)
}

func TestServerHealthEndpoint(testInstance *testing.T) {
	server := buildTestServer(testInstance, history.NewInMemoryRunStore())

	recorder := performRequest(testInstance, server, http.MethodGet, testHealthEndpointConstant)
	require.Equal(testInstance, http.StatusOK, recorder.Code)

	var payload map[string]string
	require.NoError(testInstance, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.Equal(testInstance, "ok", payload["status"])
}

func TestServerStatusEndpointWithoutInspector(testInstance *testing.T) {
	server := buildTestServer(testInstance, history.NewInMemoryRunStore())

	recorder := performRequest(testInstance, server, http.MethodGet, "/status")
	require.Equal(testInstance, http.StatusServiceUnavailable, recorder.Code)
}

func TestServerTargetDispatch(testInstance *testing.T) {
	testCases := []struct {
		name               string
		targetName         string
		expectedStatusCode int
		expectedExitCode   int
		expectSucceeded    bool
		expectResultBody   bool
	}{
		{
			name:               testSucceedingTargetNameConstant,
			targetName:         testSucceedingTargetNameConstant,
			expectedStatusCode: http.StatusOK,
			expectSucceeded:    true,
			expectResultBody:   true,
		},
		{
			name:               testFailingTargetNameConstant,
			targetName:         testFailingTargetNameConstant,
			expectedStatusCode: http.StatusOK,
			expectedExitCode:   testFailureExitCodeConstant,
			expectResultBody:   true,
		},
		{
			name:               testInteractiveTargetNameConstant,
			targetName:         testInteractiveTargetNameConstant,
			expectedStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:               testUnknownTargetNameConstant,
			targetName:         testUnknownTargetNameConstant,
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			server := buildTestServer(subtestInstance, history.NewInMemoryRunStore())

			recorder := performRequest(subtestInstance, server, http.MethodPost, "/targets/"+testCase.targetName)
			require.Equal(subtestInstance, testCase.expectedStatusCode, recorder.Code, "case %d", testCaseIndex)

			if !testCase.expectResultBody {
				return
			}

			var payload struct {
				Target    string `json:"target"`
				ExitCode  int    `json:"exit_code"`
				Succeeded bool   `json:"succeeded"`
			}
			require.NoError(subtestInstance, json.Unmarshal(recorder.Body.Bytes(), &payload))
			require.Equal(subtestInstance, testCase.targetName, payload.Target)
			require.Equal(subtestInstance, testCase.expectedExitCode, payload.ExitCode)
			require.Equal(subtestInstance, testCase.expectSucceeded, payload.Succeeded)
		})
	}
}

func TestServerHistoryEndpoint(testInstance *testing.T) {
	store := history.NewInMemoryRunStore()
	server := buildTestServer(testInstance, store)

	dispatchRecorder := performRequest(testInstance, server, http.MethodPost, "/targets/"+testSucceedingTargetNameConstant)
	require.Equal(testInstance, http.StatusOK, dispatchRecorder.Code)

	recorder := performRequest(testInstance, server, http.MethodGet, testHistoryEndpointConstant)
	require.Equal(testInstance, http.StatusOK, recorder.Code)

	var records []history.RunRecord
	require.NoError(testInstance, json.Unmarshal(recorder.Body.Bytes(), &records))
	require.Len(testInstance, records, 1)
	require.Equal(testInstance, testSucceedingTargetNameConstant, records[0].TargetName)
	require.True(testInstance, records[0].Succeeded)
}

func TestServerHistoryEndpointRejectsInvalidLimit(testInstance *testing.T) {
	server := buildTestServer(testInstance, history.NewInMemoryRunStore())

	recorder := performRequest(testInstance, server, http.MethodGet, testHistoryEndpointConstant+"?limit=abc")
	require.Equal(testInstance, http.StatusBadRequest, recorder.Code)
}
