package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/morozRed/vcm/internal/config"
	"github.com/morozRed/vcm/internal/fileutil"
	"github.com/morozRed/vcm/internal/history"
	"github.com/morozRed/vcm/internal/recorder"
	"github.com/morozRed/vcm/internal/validator"
	"github.com/spf13/cobra"
)

// Runtime is everything a flow needs, built once per invocation.
type Runtime struct {
	Paths     config.Paths
	Validator validator.Validator
	Reporter  *validator.Reporter
	Source    history.Source
	Logger    *log.Logger
}

func (rt Runtime) logger() *log.Logger {
	if rt.Logger != nil {
		return rt.Logger
	}
	return log.New(io.Discard)
}

func RunValidate(cmd *cobra.Command, args []string) error {
	level, err := ParseLogLevel(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	from, err := OptionalStringFlag(cmd, "from")
	if err != nil {
		return err
	}
	recoverMode, err := OptionalBoolFlag(cmd, "recover", false)
	if err != nil {
		return err
	}
	configPath, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return err
	}

	workingDir, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}

	switch {
	case from != "":
		rt, err := newRuntime(cmd.ErrOrStderr(), logger, workingDir, "", configPath)
		if err != nil {
			return err
		}
		count, err := ValidateRange(cmd.Context(), rt, from)
		if err != nil {
			return err
		}
		return failures(count)
	case recoverMode:
		paths, err := config.Resolve(workingDir, "")
		if err != nil {
			return err
		}
		ok, err := Recover(Runtime{Paths: paths, Logger: logger})
		if err != nil {
			return err
		}
		if !ok {
			return &ExitCodeError{Code: 1, Reason: "nothing recovered"}
		}
		return nil
	}

	if len(args) > 2 {
		return fmt.Errorf("accepts at most 2 args ([msgFileOrText] [errorLogPath]), received %d", len(args))
	}
	input, provided := "", false
	if len(args) > 0 {
		input, provided = args[0], true
	}
	errorLog := ""
	if len(args) > 1 {
		errorLog = args[1]
	}

	rt, err := newRuntime(cmd.ErrOrStderr(), logger, workingDir, errorLog, configPath)
	if err != nil {
		return err
	}
	msg, err := ResolveMessage(rt.Paths, input, provided)
	if err != nil {
		return err
	}
	count, err := ValidateSingle(rt, msg)
	if err != nil {
		return err
	}
	return failures(count)
}

func newRuntime(out io.Writer, logger *log.Logger, workingDir, errorLog, configPath string) (Runtime, error) {
	paths, err := config.Resolve(workingDir, errorLog)
	if err != nil {
		return Runtime{}, err
	}
	if !paths.HasGitDir() {
		logger.Debug("no git directory, failure tracking limited", "err", paths.LocateFailure)
	}

	settings, err := config.LoadSettings(configPath, paths.SettingsDirs()...)
	if err != nil {
		return Runtime{}, err
	}
	if settings.Source != "" {
		logger.Debug("loaded rules", "file", settings.Source)
	}

	v, err := validator.NewConventional(settings)
	if err != nil {
		return Runtime{}, err
	}
	source, err := history.NewSource(settings.Range.Backend, workingDir)
	if err != nil {
		return Runtime{}, err
	}

	return Runtime{
		Paths:     paths,
		Validator: v,
		Reporter:  validator.NewReporter(out, settings.HelpMessage),
		Source:    source,
		Logger:    logger,
	}, nil
}

// ResolveMessage picks the message to validate. A provided argument naming a
// readable file under the git directory wins over its literal text. Without
// an argument the pending COMMIT_EDITMSG is read, and a missing one yields
// an absent message.
func ResolveMessage(paths config.Paths, input string, provided bool) (validator.Message, error) {
	name := input
	if !provided {
		name = paths.EditMsg
	}

	if path := paths.InGitDir(name); path != "" {
		content, err := fileutil.ReadContent(path)
		switch {
		case err == nil && content != "":
			return validator.FromFile(content, path), nil
		case err != nil && !errors.Is(err, fileutil.ErrNotFound):
			return validator.Message{}, err
		}
	}

	if provided {
		return validator.Text(input), nil
	}
	return validator.Message{}, nil
}

// ValidateSingle validates one pending message and returns the failure count.
// Failures are persisted for --recover; a success clears the last failure.
func ValidateSingle(rt Runtime, msg validator.Message) (int, error) {
	rec := recorder.Recorder{ErrorLog: rt.Paths.ErrorLog, LastError: rt.Paths.LastError}

	rt.logger().Debug("validating commit message", "file", msg.SourceFile, "present", msg.Present)
	ok, err := check(rt, rec, msg)
	if !ok {
		if err == nil {
			rt.logger().Info("rejected commit message", "log", rt.Paths.ErrorLog)
		}
		return 1, err
	}
	return 0, err
}

// ValidateRange validates every commit in from..HEAD as it arrives. Nothing
// is persisted: range checks must not disturb the pending commit's state.
func ValidateRange(ctx context.Context, rt Runtime, from string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	stream, err := rt.Source.Messages(ctx, from)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	rec := recorder.Recorder{Disabled: true}
	count, total := 0, 0
	for stream.Next() {
		total++
		ok, err := check(rt, rec, validator.Text(stream.Message()))
		if err != nil {
			return count, err
		}
		if !ok {
			count++
		}
	}
	if err := stream.Err(); err != nil {
		return count, err
	}
	rt.logger().Info("validated range", "from", from, "commits", total, "invalid", count)
	return count, nil
}

// check validates and reports msg, then records a failure or applies the
// autoFix rewrite and clears the last failure.
func check(rt Runtime, rec recorder.Recorder, msg validator.Message) (bool, error) {
	verdict := rt.Validator.Validate(msg)
	report(rt, verdict)

	if !verdict.Valid {
		rt.logger().Debug("invalid commit", "header", verdict.Header)
		return false, rec.Record(msg.Text)
	}

	if verdict.Fixed != "" && msg.SourceFile != "" {
		if err := fileutil.WriteFile(msg.SourceFile, fileutil.EnsureTrailingNewline(verdict.Fixed)); err != nil {
			return true, err
		}
		rt.logger().Info("rewrote commit message", "file", msg.SourceFile)
	}
	return true, rec.Clear()
}

func report(rt Runtime, v validator.Verdict) {
	if rt.Reporter != nil {
		rt.Reporter.Report(v)
	}
}
