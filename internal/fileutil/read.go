package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// ErrNotFound marks a path that does not name a readable regular file.
// Callers use it to fall back to treating the argument as literal text.
var ErrNotFound = errors.New("no such file")

// ReadContent returns the text of the file at path. Missing files, paths
// that are too long for the filesystem and directories all map to
// ErrNotFound. Other failures are returned as-is.
func ReadContent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if isAbsent(err) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return "", fmt.Errorf("failed to read %s: %w", path, err)
}

func isAbsent(err error) bool {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return true
	case errors.Is(err, syscall.ENAMETOOLONG):
		return true
	case errors.Is(err, syscall.EISDIR):
		return true
	case errors.Is(err, syscall.ENOTDIR):
		// a path component is a regular file, e.g. "README/x"
		return true
	}
	return false
}
