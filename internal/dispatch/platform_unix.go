//go:build !windows

package dispatch

// accessDeniedMarker is the platform's denial text in command stderr.
const accessDeniedMarker = "permission denied"

// notFoundExitCode is what the shell returns for an unknown command.
const notFoundExitCode = 127

// shellArgs returns the platform shell invocation for an action string.
func shellArgs(action string) (string, []string) {
	return "/bin/sh", []string{"-c", action}
}
