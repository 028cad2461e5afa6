package gitdir

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DotGit         = ".git"
	EditMsgFile    = "COMMIT_EDITMSG"
	LastErrorFile  = "COMMIT_EDITMSG_ERR"
	IncorrectLog   = "logs/incorrect-commit-msgs"
	gitdirFileLead = "gitdir:"
)

// ErrNotFound is returned when no ancestor of the start directory has a .git entry.
var ErrNotFound = errors.New("git directory not found")

// Location is a resolved repository: the git directory and the work tree
// directory that holds its .git entry.
type Location struct {
	GitDir   string
	WorkTree string
}

// EditMsgPath returns the path git writes the in-progress commit message to.
func (l Location) EditMsgPath() string {
	return filepath.Join(l.GitDir, EditMsgFile)
}

// LastErrorPath returns the path of the last failed message snapshot.
func (l Location) LastErrorPath() string {
	return filepath.Join(l.GitDir, LastErrorFile)
}

// ErrorLogPath returns the default append-only log of rejected messages.
func (l Location) ErrorLogPath() string {
	return filepath.Join(l.GitDir, filepath.FromSlash(IncorrectLog))
}

// Locate walks from start up to the filesystem root and returns the first
// directory with a .git entry. A .git file is followed to its target.
func Locate(start string) (Location, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Location{}, fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, DotGit)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.IsDir():
			return Location{GitDir: candidate, WorkTree: dir}, nil
		case err == nil:
			gitDir, err := readGitdirFile(candidate)
			if err != nil {
				return Location{}, err
			}
			return Location{GitDir: gitDir, WorkTree: dir}, nil
		case !os.IsNotExist(err):
			return Location{}, fmt.Errorf("failed to inspect %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Location{}, fmt.Errorf("%w (searched upward from %s)", ErrNotFound, start)
		}
		dir = parent
	}
}

// readGitdirFile follows a "gitdir: <path>" file as written by worktrees and submodules.
func readGitdirFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, gitdirFileLead) {
			continue
		}
		target := strings.TrimSpace(strings.TrimPrefix(line, gitdirFileLead))
		if target == "" {
			break
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		return filepath.Clean(target), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return "", fmt.Errorf("invalid %s file %s: missing %q line", DotGit, path, gitdirFileLead)
}
