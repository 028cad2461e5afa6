package history

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const maxMessageSize = 16 * 1024 * 1024

// ExecSource streams `git log -z --format=%B` output from a git subprocess.
type ExecSource struct {
	Dir string
	Git string
}

func (e ExecSource) Messages(ctx context.Context, from string) (*Stream, error) {
	if from == "" || strings.HasPrefix(from, "-") {
		return nil, fmt.Errorf("invalid revision %q", from)
	}
	gitPath := e.Git
	if gitPath == "" {
		gitPath = "git"
	}
	if _, err := exec.LookPath(gitPath); err != nil {
		return nil, fmt.Errorf("git executable not found: %w", err)
	}

	revRange := from + "..HEAD"
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, gitPath, "-C", e.Dir, "log", "-z", "--format=%B", revRange, "--")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open git log output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start git log: %w", err)
	}

	return newStream(ctx, func(ctx context.Context, emit emitFunc) error {
		defer cancel()

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
		scanner.Split(splitNUL)
		stopped := false
		for scanner.Scan() {
			if !emit(scanner.Text()) {
				stopped = true
				break
			}
		}
		if stopped {
			cancel()
		}
		scanErr := scanner.Err()
		waitErr := cmd.Wait()

		switch {
		case stopped:
			return ctx.Err()
		case scanErr != nil:
			return fmt.Errorf("failed to read git log output: %w", scanErr)
		case waitErr != nil:
			return fmt.Errorf("git log %s failed: %w: %s", revRange, waitErr, strings.TrimSpace(stderr.String()))
		}
		return nil
	}), nil
}

// splitNUL splits NUL-separated records. A trailing record without a
// terminator is returned as-is.
func splitNUL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
