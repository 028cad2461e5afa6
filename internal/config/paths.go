package config

import (
	"fmt"
	"path/filepath"

	"github.com/morozRed/vcm/internal/gitdir"
)

// Paths is resolved once at startup and passed to every flow. With no git
// directory every path is empty and HasGitDir reports false.
type Paths struct {
	WorkingDir    string
	GitDir        string
	WorkTree      string
	EditMsg       string
	LastError     string
	ErrorLog      string
	LocateFailure error
}

func (p Paths) HasGitDir() bool {
	return p.GitDir != ""
}

// Resolve locates the git directory from workingDir. Failing to find or
// read one is not an error: it is kept in LocateFailure for flows that
// need it. errorLogOverride replaces the default error log location and is
// honoured even outside a repository.
func Resolve(workingDir, errorLogOverride string) (Paths, error) {
	paths := Paths{WorkingDir: workingDir}

	if loc, err := gitdir.Locate(workingDir); err == nil {
		paths.GitDir = loc.GitDir
		paths.WorkTree = loc.WorkTree
		paths.EditMsg = loc.EditMsgPath()
		paths.LastError = loc.LastErrorPath()
		paths.ErrorLog = loc.ErrorLogPath()
	} else {
		paths.LocateFailure = err
	}

	if errorLogOverride != "" {
		abs, err := filepath.Abs(errorLogOverride)
		if err != nil {
			return Paths{}, fmt.Errorf("failed to resolve error log path %s: %w", errorLogOverride, err)
		}
		paths.ErrorLog = abs
	}
	return paths, nil
}

// InGitDir resolves name against the git directory. Absolute names are
// returned unchanged. Without a git directory it returns "".
func (p Paths) InGitDir(name string) string {
	if name == "" || !p.HasGitDir() {
		return ""
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(p.GitDir, name)
}

// SettingsDirs lists the directories searched for a rule file.
func (p Paths) SettingsDirs() []string {
	dirs := make([]string, 0, 2)
	if p.WorkTree != "" {
		dirs = append(dirs, p.WorkTree)
	}
	if p.WorkingDir != "" && p.WorkingDir != p.WorkTree {
		dirs = append(dirs, p.WorkingDir)
	}
	return dirs
}
