package validator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/morozRed/vcm/internal/config"
)

func TestConventionalAcceptsValidMessages(t *testing.T) {
	v := mustConventional(t, config.DefaultSettings())

	tests := []struct {
		name string
		msg  string
	}{
		{"feat", "feat: add user auth"},
		{"fix with scope", "fix(api): handle timeout\n"},
		{"breaking", "feat!: redesign API"},
		{"scope and breaking", "refactor(core)!: drop legacy parser"},
		{"multiple scopes unchecked", "docs(cli,readme): describe --from"},
		{"body", "feat: add x\n\nLonger explanation of x.\n"},
		{"comments stripped", "# Please enter the commit message\nfix: y\n# On branch main\n"},
		{"scissors", "chore: bump\n# ------------------------ >8 ------------------------\ndiff --git a/x b/x\n"},
		{"crlf", "fix: windows editor\r\n\r\nbody\r\n"},
		{"merge", "Merge branch 'main' into feature"},
		{"wip", "WIP do not review"},
		{"fixup", "fixup! feat: add user auth"},
		{"squash", "squash! fix(api): handle timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := v.Validate(Text(tt.msg))
			if !verdict.Valid {
				t.Fatalf("expected %q to be valid, got problems %+v", tt.msg, verdict.Problems)
			}
		})
	}
}

func TestConventionalRejectsInvalidMessages(t *testing.T) {
	v := mustConventional(t, config.DefaultSettings())

	tests := []struct {
		name string
		msg  Message
		rule string
	}{
		{"null message", Message{}, RuleEmpty},
		{"empty", Text(""), RuleEmpty},
		{"only comments", Text("# comment\n"), RuleEmpty},
		{"no prefix", Text("fixed the bug"), RuleHeaderFormat},
		{"missing space", Text("feat:add x"), RuleHeaderFormat},
		{"empty scope", Text("feat(): add x"), RuleHeaderFormat},
		{"unknown type", Text("yolo: ship it"), RuleType},
		{"too long", Text("feat: " + strings.Repeat("x", 100)), RuleHeaderLength},
		{"body without blank line", Text("feat: add x\nmore text"), RuleBodyBlankLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := v.Validate(tt.msg)
			if verdict.Valid {
				t.Fatalf("expected %q to be invalid", tt.msg.Text)
			}
			if !hasRule(verdict, tt.rule) {
				t.Fatalf("expected rule %q to fire, got %+v", tt.rule, verdict.Problems)
			}
			if !hasSeverity(verdict, SeverityError) {
				t.Fatalf("expected error severity problems, got %+v", verdict.Problems)
			}
		})
	}
}

func TestConventionalLongFixupIsAllowed(t *testing.T) {
	v := mustConventional(t, config.DefaultSettings())

	verdict := v.Validate(Text("fixup! feat: " + strings.Repeat("x", 120)))
	if !verdict.Valid {
		t.Fatalf("expected long fixup header to be accepted, got %+v", verdict.Problems)
	}
}

func TestConventionalScopeRules(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Scope = config.ScopeRules{
		Validate: true,
		Required: true,
		Allowed:  []string{"core", "cli"},
	}
	v := mustConventional(t, settings)

	cases := []struct {
		msg   string
		valid bool
	}{
		{"feat(core): add x", true},
		{"feat: add x", false},
		{"feat(web): add x", false},
		{"feat(core,cli): add x", false},
	}
	for _, tc := range cases {
		verdict := v.Validate(Text(tc.msg))
		if verdict.Valid != tc.valid {
			t.Fatalf("expected valid=%t for %q, got problems %+v", tc.valid, tc.msg, verdict.Problems)
		}
	}

	settings.Scope.Multiple = true
	v = mustConventional(t, settings)
	if verdict := v.Validate(Text("feat(core,cli): add x")); !verdict.Valid {
		t.Fatalf("expected multiple scopes to be accepted, got %+v", verdict.Problems)
	}
	if verdict := v.Validate(Text("feat(core,web): add x")); verdict.Valid || !hasRule(verdict, RuleScope) {
		t.Fatalf("expected disallowed scope in list to be rejected, got %+v", verdict)
	}
}

func TestConventionalTypeWildcardAndSubjectPattern(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Types = []string{config.AnyType}
	settings.SubjectPattern = `^[a-z]`
	settings.SubjectPatternErrorMsg = "subject must start with a lowercase letter"
	v := mustConventional(t, settings)

	if verdict := v.Validate(Text("anything: goes")); !verdict.Valid {
		t.Fatalf("expected wildcard type to be accepted, got %+v", verdict.Problems)
	}

	verdict := v.Validate(Text("feat: Add x"))
	if verdict.Valid {
		t.Fatalf("expected subject pattern to reject the message")
	}
	if verdict.Problems[0].Message != settings.SubjectPatternErrorMsg {
		t.Fatalf("expected custom error message, got %q", verdict.Problems[0].Message)
	}
}

func TestConventionalBodyLineLength(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Body.MaxLineLength = 20
	v := mustConventional(t, settings)

	verdict := v.Validate(Text("feat: add x\n\nshort\n" + strings.Repeat("y", 21)))
	if verdict.Valid || !hasRule(verdict, RuleBodyLength) {
		t.Fatalf("expected long body line to be rejected, got %+v", verdict)
	}
	if !strings.Contains(verdict.Problems[0].Message, "line 4") {
		t.Fatalf("expected problem to name line 4, got %q", verdict.Problems[0].Message)
	}
}

func TestConventionalWarnOnFail(t *testing.T) {
	settings := config.DefaultSettings()
	settings.WarnOnFail = true
	v := mustConventional(t, settings)

	verdict := v.Validate(Text("not conventional"))
	if !verdict.Valid {
		t.Fatalf("expected warnOnFail to accept the message")
	}
	if len(verdict.Problems) == 0 || hasSeverity(verdict, SeverityError) {
		t.Fatalf("expected problems downgraded to warnings, got %+v", verdict.Problems)
	}
}

func TestConventionalAutoFix(t *testing.T) {
	settings := config.DefaultSettings()
	settings.AutoFix = true
	v := mustConventional(t, settings)

	verdict := v.Validate(FromFile("feat(core)!: Add x\n\nBody\n# comment\n", "/tmp/COMMIT_EDITMSG"))
	if !verdict.Valid {
		t.Fatalf("expected message to be valid, got %+v", verdict.Problems)
	}
	if verdict.Fixed != "feat(core)!: add x\n\nBody\n" {
		t.Fatalf("unexpected fixed message %q", verdict.Fixed)
	}

	if verdict := v.Validate(Text("feat: add x")); verdict.Fixed != "" {
		t.Fatalf("expected no fix for a lowercase subject, got %q", verdict.Fixed)
	}
	if verdict := v.Validate(Text("fixup! feat: Add x")); verdict.Fixed != "" {
		t.Fatalf("expected no fix for fixup headers, got %q", verdict.Fixed)
	}
}

func TestNewConventionalRejectsBadPattern(t *testing.T) {
	settings := config.DefaultSettings()
	settings.SubjectPattern = "("
	if _, err := NewConventional(settings); err == nil {
		t.Fatalf("expected invalid subject pattern to be rejected")
	}
}

func TestFuncAdapter(t *testing.T) {
	var got Message
	v := Func(func(msg Message) Verdict {
		got = msg
		return Verdict{Valid: true}
	})

	if !v.Validate(FromFile("x", "/p")).Valid {
		t.Fatalf("expected adapter verdict to pass through")
	}
	if got.Text != "x" || got.SourceFile != "/p" || !got.Present {
		t.Fatalf("unexpected message %+v", got)
	}
}

func TestReporterPrintsProblemsHeaderAndHelp(t *testing.T) {
	v := mustConventional(t, config.DefaultSettings())
	var buf bytes.Buffer
	r := NewReporter(&buf, "See CONTRIBUTING.md")

	r.Report(v.Validate(Text("yolo: ship it\n\nbody")))

	out := buf.String()
	for _, expected := range []string{
		`INVALID COMMIT MSG: "yolo" is not an allowed type`,
		"yolo: ship it\n",
		"See CONTRIBUTING.md\n",
	} {
		if !strings.Contains(out, expected) {
			t.Fatalf("expected report to contain %q, got:\n%s", expected, out)
		}
	}
}

func TestReporterFormatsHelpWithMessage(t *testing.T) {
	v := mustConventional(t, config.DefaultSettings())
	var buf bytes.Buffer
	r := NewReporter(&buf, "Rejected:\n%s\nSee docs.")

	r.Report(v.Validate(Text("bad message\n\nwith body")))

	out := buf.String()
	if !strings.Contains(out, "Rejected:\nbad message\n\nwith body\nSee docs.\n") {
		t.Fatalf("expected help message to embed the full message, got:\n%s", out)
	}
	if strings.Count(out, "bad message") != 1 {
		t.Fatalf("expected header not to be printed twice, got:\n%s", out)
	}
}

func TestReporterQuietForValidAndPrintsNotes(t *testing.T) {
	v := mustConventional(t, config.DefaultSettings())
	var buf bytes.Buffer
	r := NewReporter(&buf, "help")

	r.Report(v.Validate(Text("feat: add x")))
	if buf.Len() != 0 {
		t.Fatalf("expected no output for a valid message, got %q", buf.String())
	}

	r.Report(v.Validate(Text("Merge branch 'x'")))
	if !strings.Contains(buf.String(), "Merge commit detected.") {
		t.Fatalf("expected merge note, got %q", buf.String())
	}
}

func mustConventional(t *testing.T, settings config.Settings) *Conventional {
	t.Helper()
	v, err := NewConventional(settings)
	if err != nil {
		t.Fatalf("NewConventional failed: %v", err)
	}
	return v
}

func hasRule(v Verdict, rule string) bool {
	for _, p := range v.Problems {
		if p.Rule == rule {
			return true
		}
	}
	return false
}

func hasSeverity(v Verdict, severity Severity) bool {
	for _, p := range v.Problems {
		if p.Severity == severity {
			return true
		}
	}
	return false
}
