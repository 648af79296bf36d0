package status

import (
	"context"
	"errors"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"go.uber.org/zap"
)

const (
	clientMissingMessageConstant       = "docker API client not configured"
	daemonUnreachableMessageConstant   = "docker daemon unreachable"
	containerInspectedMessageConstant  = "container inspected"
	containerAbsentMessageConstant     = "container not found"
	containerNameLogFieldConstant      = "container"
	containerStateLogFieldConstant     = "state"
	daemonAPIVersionLogFieldConstant   = "api_version"
	unknownContainerStateValueConstant = "unknown"
)

// ErrClientNotConfigured indicates the docker API client dependency was missing.
var ErrClientNotConfigured = errors.New(clientMissingMessageConstant)

// DockerAPIClient captures the Docker Engine API operations used by the inspector.
type DockerAPIClient interface {
	Ping(executionContext context.Context) (types.Ping, error)
	ContainerInspect(executionContext context.Context, containerID string) (types.ContainerJSON, error)
}

// NewDockerAPIClient builds a Docker Engine API client from the environment.
func NewDockerAPIClient() (*client.Client, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// Report describes the daemon and bot container state.
type Report struct {
	DaemonReachable  bool   `json:"daemon_reachable"`
	APIVersion       string `json:"api_version,omitempty"`
	ContainerPresent bool   `json:"container_present"`
	ContainerID      string `json:"container_id,omitempty"`
	State            string `json:"state,omitempty"`
	Image            string `json:"image,omitempty"`
	RestartCount     int    `json:"restart_count,omitempty"`
	StartedAt        string `json:"started_at,omitempty"`
}

// Inspector reports daemon health and container state through the Docker Engine API.
type Inspector struct {
	apiClient DockerAPIClient
	logger    *zap.Logger
}

// NewInspector constructs an Inspector with the supplied collaborators.
func NewInspector(apiClient DockerAPIClient, logger *zap.Logger) (*Inspector, error) {
	if apiClient == nil {
		return nil, ErrClientNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{apiClient: apiClient, logger: logger}, nil
}

// Inspect pings the daemon and, when reachable, inspects the named container.
//
// An absent container is an ordinary outcome, not an error: the report's
// ContainerPresent field carries the distinction.
func (inspector *Inspector) Inspect(executionContext context.Context, containerName string) (Report, error) {
	pingResponse, pingError := inspector.apiClient.Ping(executionContext)
	if pingError != nil {
		inspector.logger.Warn(daemonUnreachableMessageConstant, zap.Error(pingError))
		return Report{}, pingError
	}

	report := Report{
		DaemonReachable: true,
		APIVersion:      pingResponse.APIVersion,
	}

	containerDetails, inspectError := inspector.apiClient.ContainerInspect(executionContext, containerName)
	if inspectError != nil {
		if client.IsErrNotFound(inspectError) {
			inspector.logger.Debug(containerAbsentMessageConstant,
				zap.String(containerNameLogFieldConstant, containerName),
			)
			return report, nil
		}
		return Report{}, inspectError
	}

	report.ContainerPresent = true
	report.ContainerID = containerDetails.ID
	report.State = containerStateValue(containerDetails)
	if containerDetails.Config != nil {
		report.Image = containerDetails.Config.Image
	}
	if containerDetails.ContainerJSONBase != nil {
		report.RestartCount = containerDetails.RestartCount
		if containerDetails.State != nil {
			report.StartedAt = containerDetails.State.StartedAt
		}
	}

	inspector.logger.Debug(containerInspectedMessageConstant,
		zap.String(containerNameLogFieldConstant, containerName),
		zap.String(containerStateLogFieldConstant, report.State),
		zap.String(daemonAPIVersionLogFieldConstant, report.APIVersion),
	)

	return report, nil
}

func containerStateValue(containerDetails types.ContainerJSON) string {
	if containerDetails.ContainerJSONBase == nil || containerDetails.State == nil {
		return unknownContainerStateValueConstant
	}
	state := strings.TrimSpace(containerDetails.State.Status)
	if len(state) == 0 {
		return unknownContainerStateValueConstant
	}
	return state
}
