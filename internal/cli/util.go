package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

const maxExitCode = 255

// ExitCodeError carries a non-zero process exit code that is an expected
// outcome, such as the number of rejected messages.
type ExitCodeError struct {
	Code   int
	Reason string
}

func (e *ExitCodeError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func failures(count int) error {
	if count == 0 {
		return nil
	}
	return &ExitCodeError{Code: count, Reason: fmt.Sprintf("%d invalid commit message(s)", count)}
}

// ExitCode maps a command error to the process exit code. Counts are capped
// so a multiple of 256 failures never reads as success.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		switch {
		case exitErr.Code <= 0:
			return 1
		case exitErr.Code > maxExitCode:
			return maxExitCode
		}
		return exitErr.Code
	}
	return 1
}

// PrintError reports unexpected failures. Expected exit codes were already
// explained by the validator output and are not repeated.
func PrintError(w io.Writer, err error) {
	var exitErr *ExitCodeError
	if err == nil || errors.As(err, &exitErr) {
		return
	}
	fmt.Fprintf(w, "vcm: %v\n", err)
}

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return rootPath, nil
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "vcm",
		Level:  level,
	})
}
