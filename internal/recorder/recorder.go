package recorder

import (
	"github.com/morozRed/vcm/internal/fileutil"
)

// Recorder persists rejected messages: an append-only log plus a snapshot
// of the latest failure that recovery reads back. Empty paths are skipped.
type Recorder struct {
	ErrorLog  string
	LastError string
	Disabled  bool
}

// Record appends message to the error log and overwrites the last-error slot.
func (r Recorder) Record(message string) error {
	if r.Disabled {
		return nil
	}
	if r.ErrorLog != "" {
		if err := fileutil.AppendFile(r.ErrorLog, message+"\n"); err != nil {
			return err
		}
	}
	if r.LastError != "" {
		if err := fileutil.WriteFile(r.LastError, message); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes the last-error slot after a successful validation.
func (r Recorder) Clear() error {
	if r.Disabled || r.LastError == "" {
		return nil
	}
	_, err := fileutil.RemoveIfExists(r.LastError)
	return err
}
