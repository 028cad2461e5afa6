package cli

import (
	"errors"

	"github.com/morozRed/vcm/internal/fileutil"
)

// Recover prepends the last rejected message to COMMIT_EDITMSG. It reports
// false, touching nothing, when there is no git directory or either file is
// missing. The current content is not inspected, so repeated calls prepend
// again.
func Recover(rt Runtime) (bool, error) {
	if !rt.Paths.HasGitDir() {
		rt.logger().Error("cannot recover commit message", "err", rt.Paths.LocateFailure)
		return false, nil
	}

	previous, err := fileutil.ReadContent(rt.Paths.LastError)
	if errors.Is(err, fileutil.ErrNotFound) {
		rt.logger().Warn("no rejected commit message to recover", "file", rt.Paths.LastError)
		return false, nil
	} else if err != nil {
		return false, err
	}

	current, err := fileutil.ReadContent(rt.Paths.EditMsg)
	if errors.Is(err, fileutil.ErrNotFound) {
		rt.logger().Warn("no commit message file to pre-fill", "file", rt.Paths.EditMsg)
		return false, nil
	} else if err != nil {
		return false, err
	}

	if err := fileutil.WriteFile(rt.Paths.EditMsg, previous+current); err != nil {
		return false, err
	}
	rt.logger().Debug("recovered commit message", "from", rt.Paths.LastError)
	return true, nil
}
