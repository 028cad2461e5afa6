package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/morozRed/vcm/internal/config"
	"github.com/morozRed/vcm/internal/fileutil"
)

const (
	RuleEmpty          = "empty"
	RuleHeaderFormat   = "header-format"
	RuleHeaderLength   = "header-length"
	RuleType           = "type"
	RuleScope          = "scope"
	RuleSubjectPattern = "subject-pattern"
	RuleBodyBlankLine  = "body-leading-blank"
	RuleBodyLength     = "body-line-length"

	scissorsLine = "# ------------------------ >8 ------------------------"
)

var (
	headerPattern = regexp.MustCompile(`^((fixup! |squash! )?(\w+)(\(([^()\s]+)\))?(!)?: (.+))$`)
	mergePattern  = regexp.MustCompile(`^Merge `)
)

// Header is the parsed first line of a conventional commit message.
type Header struct {
	Raw        string
	Autosquash bool
	Type       string
	Scope      string
	Breaking   bool
	Subject    string
}

func ParseHeader(line string) (Header, bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return Header{}, false
	}
	return Header{
		Raw:        m[1],
		Autosquash: m[2] != "",
		Type:       m[3],
		Scope:      m[5],
		Breaking:   m[6] != "",
		Subject:    m[7],
	}, true
}

func (h Header) String() string {
	var b strings.Builder
	b.WriteString(h.Type)
	if h.Scope != "" {
		b.WriteString("(" + h.Scope + ")")
	}
	if h.Breaking {
		b.WriteString("!")
	}
	b.WriteString(": ")
	b.WriteString(h.Subject)
	return b.String()
}

// Conventional validates "<type>(<scope>): <subject>" headers plus body layout.
type Conventional struct {
	settings       config.Settings
	types          map[string]bool
	allowedScopes  map[string]bool
	ignorePattern  *regexp.Regexp
	subjectPattern *regexp.Regexp
}

func NewConventional(settings config.Settings) (*Conventional, error) {
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	c := &Conventional{
		settings:      settings,
		types:         fileutil.ToSet(settings.Types),
		allowedScopes: fileutil.ToSet(settings.Scope.Allowed),
	}
	if settings.IgnorePattern != "" {
		c.ignorePattern = regexp.MustCompile(settings.IgnorePattern)
	}
	if settings.SubjectPattern != "" {
		c.subjectPattern = regexp.MustCompile(settings.SubjectPattern)
	}
	return c, nil
}

func (c *Conventional) Validate(msg Message) Verdict {
	lines := cleanLines(msg.Text)
	header := ""
	if len(lines) > 0 {
		header = lines[0]
	}
	verdict := Verdict{Header: header, Body: strings.Join(lines, "\n")}

	if strings.TrimSpace(header) == "" {
		verdict.Problems = append(verdict.Problems, problem(RuleEmpty, "aborting commit due to empty commit message"))
		return c.finish(verdict)
	}
	if mergePattern.MatchString(header) {
		verdict.Valid = true
		verdict.Notes = append(verdict.Notes, "merge commit detected")
		return verdict
	}
	if c.ignorePattern != nil && c.ignorePattern.MatchString(header) {
		verdict.Valid = true
		verdict.Notes = append(verdict.Notes, "commit message validation ignored")
		return verdict
	}

	parsed, ok := ParseHeader(header)
	if !ok {
		verdict.Problems = append(verdict.Problems, problem(RuleHeaderFormat, `does not match "<type>(<scope>): <subject>"`))
		return c.finish(verdict)
	}

	if n := utf8.RuneCountInString(parsed.Raw); n > c.settings.MaxSubjectLength && !parsed.Autosquash {
		verdict.Problems = append(verdict.Problems, problem(RuleHeaderLength,
			fmt.Sprintf("header is longer than %d characters (%d)", c.settings.MaxSubjectLength, n)))
	}
	if !c.settings.AllowsAnyType() && !c.types[parsed.Type] {
		verdict.Problems = append(verdict.Problems, problem(RuleType,
			fmt.Sprintf("%q is not an allowed type (valid types: %s)", parsed.Type, strings.Join(c.settings.Types, ", "))))
	}
	verdict.Problems = append(verdict.Problems, c.checkScope(parsed.Scope)...)
	if c.subjectPattern != nil && !c.subjectPattern.MatchString(parsed.Subject) {
		text := c.settings.SubjectPatternErrorMsg
		if text == "" {
			text = fmt.Sprintf("subject does not match pattern %q", c.settings.SubjectPattern)
		}
		verdict.Problems = append(verdict.Problems, problem(RuleSubjectPattern, text))
	}
	verdict.Problems = append(verdict.Problems, c.checkBody(lines[1:])...)

	verdict = c.finish(verdict)
	if verdict.Valid && c.settings.AutoFix && !parsed.Autosquash {
		if fixed := lowercaseFirst(parsed.Subject); fixed != parsed.Subject {
			parsed.Subject = fixed
			verdict.Fixed = strings.Join(append([]string{parsed.String()}, lines[1:]...), "\n")
		}
	}
	return verdict
}

// finish decides validity and downgrades errors when warnOnFail is set.
func (c *Conventional) finish(v Verdict) Verdict {
	if len(v.Problems) == 0 {
		v.Valid = true
		return v
	}
	if !c.settings.WarnOnFail {
		v.Valid = false
		return v
	}
	for i := range v.Problems {
		v.Problems[i].Severity = SeverityWarning
	}
	v.Valid = true
	return v
}

func (c *Conventional) checkScope(scope string) []Problem {
	rules := c.settings.Scope
	if !rules.Validate {
		return nil
	}

	var scopes []string
	if scope != "" {
		scopes = strings.Split(scope, ",")
	}
	if len(scopes) == 0 {
		if rules.Required {
			return []Problem{problem(RuleScope, "a scope is required")}
		}
		return nil
	}
	if len(scopes) > 1 && !rules.Multiple {
		return []Problem{problem(RuleScope, "only one scope can be provided")}
	}

	if len(c.allowedScopes) == 0 || c.allowedScopes["*"] {
		return nil
	}
	var problems []Problem
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if !c.allowedScopes[s] {
			problems = append(problems, problem(RuleScope,
				fmt.Sprintf("%q is not an allowed scope (valid scopes: %s)", s, strings.Join(rules.Allowed, ", "))))
		}
	}
	return problems
}

func (c *Conventional) checkBody(rest []string) []Problem {
	if len(rest) == 0 {
		return nil
	}

	var problems []Problem
	if c.settings.RequireBlankLineBeforeBody() && strings.TrimSpace(rest[0]) != "" {
		problems = append(problems, problem(RuleBodyBlankLine, "body must be separated from the header by a blank line"))
	}
	if limit := c.settings.Body.MaxLineLength; limit > 0 {
		for i, line := range rest {
			if n := utf8.RuneCountInString(line); n > limit {
				problems = append(problems, problem(RuleBodyLength,
					fmt.Sprintf("line %d is longer than %d characters (%d)", i+2, limit, n)))
			}
		}
	}
	return problems
}

// cleanLines drops everything below a scissors line and all comment lines.
func cleanLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line == scissorsLine {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func lowercaseFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func problem(rule, message string) Problem {
	return Problem{Rule: rule, Severity: SeverityError, Message: message}
}
