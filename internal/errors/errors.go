package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/remindme/internal/logger"
)

var stderr io.Writer = os.Stderr

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Report logs err and prints it to stderr without exiting.
// Used for failures that must not abort the command, such as a notification
// that could not be registered after the reminder itself was saved.
func Report(err error) {
	if err == nil {
		return
	}
	logger.Warn("Command completed with errors", "error", err)
	fmt.Fprintf(stderr, "%s\n", Format(err))
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
