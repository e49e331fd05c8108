//go:build windows

package dispatch

// accessDeniedMarker is the platform's denial text in command stderr.
const accessDeniedMarker = "access is denied"

// notFoundExitCode is what cmd.exe returns for an unknown command.
const notFoundExitCode = 9009

// shellArgs returns the platform shell invocation for an action string.
func shellArgs(action string) (string, []string) {
	return "cmd", []string{"/C", action}
}
