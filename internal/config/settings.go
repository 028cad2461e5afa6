package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/morozRed/vcm/internal/fileutil"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxSubjectLength = 100
	DefaultIgnorePattern    = `^WIP`
	AnyType                 = "*"

	BackendGoGit = "gogit"
	BackendExec  = "exec"
)

// SettingsFiles are looked up in this order in each candidate directory.
var SettingsFiles = []string{".vcmrc.yml", ".vcmrc.yaml", ".vcmrc"}

// DefaultTypes follows the conventional-commit-types list.
var DefaultTypes = []string{
	"feat",
	"fix",
	"docs",
	"style",
	"refactor",
	"perf",
	"test",
	"build",
	"ci",
	"chore",
	"revert",
}

type ScopeRules struct {
	Required bool     `yaml:"required"`
	Allowed  []string `yaml:"allowed"`
	Validate bool     `yaml:"validate"`
	Multiple bool     `yaml:"multiple"`
}

type BodyRules struct {
	LeadingBlankLine *bool `yaml:"leadingBlankLine"`
	MaxLineLength    int   `yaml:"maxLineLength"`
}

type RangeSettings struct {
	Backend string `yaml:"backend"`
}

// Settings is the rule file. Zero values fall back to defaults in Normalize.
type Settings struct {
	Types                  []string      `yaml:"types"`
	MaxSubjectLength       int           `yaml:"maxSubjectLength"`
	SubjectPattern         string        `yaml:"subjectPattern"`
	SubjectPatternErrorMsg string        `yaml:"subjectPatternErrorMsg"`
	IgnorePattern          string        `yaml:"ignorePattern"`
	HelpMessage            string        `yaml:"helpMessage"`
	WarnOnFail             bool          `yaml:"warnOnFail"`
	AutoFix                bool          `yaml:"autoFix"`
	Scope                  ScopeRules    `yaml:"scope"`
	Body                   BodyRules     `yaml:"body"`
	Range                  RangeSettings `yaml:"range"`

	// Source is the file the settings were read from, empty for defaults.
	Source string `yaml:"-"`
}

func DefaultSettings() Settings {
	s := Settings{}
	s.Normalize()
	return s
}

// Normalize fills defaults and cleans list values in place.
func (s *Settings) Normalize() {
	s.Types = fileutil.DedupeStrings(fileutil.TrimAll(s.Types))
	if len(s.Types) == 0 {
		s.Types = append([]string(nil), DefaultTypes...)
	}
	if s.MaxSubjectLength <= 0 {
		s.MaxSubjectLength = DefaultMaxSubjectLength
	}
	if strings.TrimSpace(s.IgnorePattern) == "" {
		s.IgnorePattern = DefaultIgnorePattern
	}
	s.Scope.Allowed = fileutil.DedupeStrings(fileutil.TrimAll(s.Scope.Allowed))
	if s.Body.LeadingBlankLine == nil {
		enabled := true
		s.Body.LeadingBlankLine = &enabled
	}
	s.Range.Backend = strings.ToLower(strings.TrimSpace(s.Range.Backend))
	if s.Range.Backend == "" {
		s.Range.Backend = BackendGoGit
	}
}

func (s Settings) Validate() error {
	for name, pattern := range map[string]string{
		"subjectPattern": s.SubjectPattern,
		"ignorePattern":  s.IgnorePattern,
	} {
		if pattern == "" {
			continue
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, pattern, err)
		}
	}
	switch s.Range.Backend {
	case BackendGoGit, BackendExec:
	default:
		return fmt.Errorf("unsupported range backend %q (supported: %s, %s)", s.Range.Backend, BackendGoGit, BackendExec)
	}
	return nil
}

// AllowsAnyType reports whether the type list contains the wildcard.
func (s Settings) AllowsAnyType() bool {
	for _, t := range s.Types {
		if t == AnyType {
			return true
		}
	}
	return false
}

func (s Settings) RequireBlankLineBeforeBody() bool {
	return s.Body.LeadingBlankLine == nil || *s.Body.LeadingBlankLine
}

// ParseSettings decodes YAML (or JSON) rule data.
func ParseSettings(data []byte) (Settings, error) {
	var s Settings
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
		}
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads the explicit path when set. Otherwise it looks for the
// first settings file in dirs, returning defaults when none exists.
func LoadSettings(explicit string, dirs ...string) (Settings, error) {
	if explicit != "" {
		return loadSettingsFile(explicit)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, name := range SettingsFiles {
			path := filepath.Join(dir, name)
			s, err := loadSettingsFile(path)
			if errors.Is(err, fileutil.ErrNotFound) {
				continue
			}
			return s, err
		}
	}
	return DefaultSettings(), nil
}

func loadSettingsFile(path string) (Settings, error) {
	content, err := fileutil.ReadContent(path)
	if err != nil {
		return Settings{}, err
	}
	s, err := ParseSettings([]byte(content))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = path
	return s, nil
}
