package container

import "strings"

const (
	defaultApplicationNameConstant  = "discord_bot"
	defaultWorkingDirectoryConstant = "."
	defaultMountPathConstant        = "/bot"
	defaultRestartPolicyConstant    = "on-failure"
	defaultContainerShellConstant   = "sh"
)

// Configuration captures the container workflow settings.
type Configuration struct {
	// ApplicationName names both the built image and the running container.
	ApplicationName string `mapstructure:"application_name"`
	// WorkingDirectory is the host directory that is built and bind-mounted.
	WorkingDirectory string `mapstructure:"working_directory"`
	// MountPath is the container-side path of the bind mount.
	MountPath string `mapstructure:"mount_path"`
	// RestartPolicy applies to detached bot containers.
	RestartPolicy string `mapstructure:"restart_policy"`
	// Shell is the in-container shell used for interactive and detached runs.
	Shell string `mapstructure:"shell"`
}

// DefaultConfiguration returns the canonical container workflow settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		ApplicationName:  defaultApplicationNameConstant,
		WorkingDirectory: defaultWorkingDirectoryConstant,
		MountPath:        defaultMountPathConstant,
		RestartPolicy:    defaultRestartPolicyConstant,
		Shell:            defaultContainerShellConstant,
	}
}

// Sanitize trims textual values and fills empty fields with defaults.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := Configuration{
		ApplicationName:  strings.TrimSpace(configuration.ApplicationName),
		WorkingDirectory: strings.TrimSpace(configuration.WorkingDirectory),
		MountPath:        strings.TrimSpace(configuration.MountPath),
		RestartPolicy:    strings.TrimSpace(configuration.RestartPolicy),
		Shell:            strings.TrimSpace(configuration.Shell),
	}
	defaults := DefaultConfiguration()
	if len(sanitized.ApplicationName) == 0 {
		sanitized.ApplicationName = defaults.ApplicationName
	}
	if len(sanitized.WorkingDirectory) == 0 {
		sanitized.WorkingDirectory = defaults.WorkingDirectory
	}
	if len(sanitized.MountPath) == 0 {
		sanitized.MountPath = defaults.MountPath
	}
	if len(sanitized.RestartPolicy) == 0 {
		sanitized.RestartPolicy = defaults.RestartPolicy
	}
	if len(sanitized.Shell) == 0 {
		sanitized.Shell = defaults.Shell
	}
	return sanitized
}
