package validator

// Message is the commit message under validation. Present is false when no
// message could be resolved at all, which is distinct from an empty one.
type Message struct {
	Text       string
	Present    bool
	SourceFile string
}

func Text(text string) Message {
	return Message{Text: text, Present: true}
}

func FromFile(text, sourceFile string) Message {
	return Message{Text: text, Present: true, SourceFile: sourceFile}
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Problem struct {
	Rule     string
	Severity Severity
	Message  string
}

// Verdict is the outcome of validating one message. Valid may be true with
// problems present when failures are downgraded to warnings.
type Verdict struct {
	Valid    bool
	Header   string
	Body     string
	Problems []Problem
	Notes    []string

	// Fixed holds a corrected message when the validator can repair the
	// input. The caller decides whether to write it back.
	Fixed string
}

// Validator checks one commit message. Implementations must not write to
// stdout or stderr; reporting is left to the caller.
type Validator interface {
	Validate(msg Message) Verdict
}

// Func adapts a plain function to the Validator interface.
type Func func(msg Message) Verdict

func (f Func) Validate(msg Message) Verdict {
	return f(msg)
}
