package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/tachoplan/internal/logger"
)

// HintError carries a remediation hint printed under the error message
type HintError struct {
	Err  error
	Hint string
}

func (e *HintError) Error() string {
	return e.Err.Error()
}

func (e *HintError) Unwrap() error {
	return e.Err
}

// WithHint attaches a hint to err. A nil err stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &HintError{Err: err, Hint: hint}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	var hinted *HintError
	if errors.As(err, &hinted) && hinted.Hint != "" {
		msg += "\n       " + hinted.Hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
