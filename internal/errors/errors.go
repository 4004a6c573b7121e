package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/tally/internal/logger"
)

var (
	ErrNotInitialized   = errors.New("storage not initialized, run 'tally init' first")
	ErrHabitNotFound    = errors.New("habit not found")
	ErrHabitExists      = errors.New("habit with that name already exists")
	ErrCompletionAbsent = errors.New("no completion recorded for habit")
	ErrInvalidTarget    = errors.New("daily target must be a positive integer")
	ErrInvalidTime      = errors.New("invalid time of day (expected HH:MM)")
	ErrNothingToUndo    = errors.New("nothing to undo")
)

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

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
