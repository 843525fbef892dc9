package rules

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/aoineco/openclaw-sec/internal/types"
	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

//go:embed patterns/*.txt
var embedded embed.FS

// Class names a rule family.
type Class string

const (
	ClassSecret Class = "secret"
	ClassEgress Class = "egress"
	ClassPrompt Class = "prompt"
)

// Classes lists every class in load order.
var Classes = []Class{ClassSecret, ClassEgress, ClassPrompt}

// FileName is the rule file backing the class.
func (c Class) FileName() string {
	switch c {
	case ClassSecret:
		return "secret_patterns.txt"
	case ClassEgress:
		return "egress_patterns.txt"
	case ClassPrompt:
		return "prompt_injection_patterns.txt"
	}
	return ""
}

// FindingID is the id carried by findings produced from this class.
func (c Class) FindingID() string {
	switch c {
	case ClassSecret:
		return types.IDSecretPattern
	case ClassEgress:
		return types.IDEgressPattern
	case ClassPrompt:
		return types.IDPromptInjection
	}
	return strings.ToUpper(string(c)) + "_PATTERN"
}

func (c Class) defaults() (Level, Action, string) {
	switch c {
	case ClassSecret:
		return LevelHigh, ActionBlock, "Secret-like material in text"
	case ClassEgress:
		return LevelMed, ActionWarn, "Data egress indicator"
	default:
		return LevelMed, ActionWarn, "Prompt-injection phrasing"
	}
}

// Level orders rule severity from SAFE to CRIT.
type Level int

const (
	LevelSafe Level = iota
	LevelLow
	LevelMed
	LevelHigh
	LevelCrit
)

func (l Level) String() string {
	switch l {
	case LevelSafe:
		return "SAFE"
	case LevelLow:
		return "LOW"
	case LevelMed:
		return "MED"
	case LevelHigh:
		return "HIGH"
	case LevelCrit:
		return "CRIT"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Action is what a caller should do about a match.
type Action string

const (
	ActionAllow Action = "allow"
	ActionLog   Action = "log"
	ActionWarn  Action = "warn"
	ActionBlock Action = "block"
)

// Rank orders actions: allow < log < warn < block.
func (a Action) Rank() int {
	switch a {
	case ActionLog:
		return 1
	case ActionWarn:
		return 2
	case ActionBlock:
		return 3
	}
	return 0
}

// Severity maps the action to a finding severity.
func (a Action) Severity() types.Severity {
	if a == ActionBlock {
		return types.SevBlock
	}
	return types.SevWarn
}

// Rule is one compiled, case-insensitive matcher.
type Rule struct {
	ID      string
	Class   Class
	Level   Level
	Action  Action
	Pattern *regexp.Regexp
	Reason  string
}

// Set is an ordered list of rules of one class.
type Set struct {
	Class Class
	Rules []Rule
}

// Match returns the first rule matching line.
func (s Set) Match(line string) (Rule, bool) {
	for _, r := range s.Rules {
		if r.Pattern.MatchString(line) {
			return r, true
		}
	}
	return Rule{}, false
}

// Patterns returns the compiled matchers in rule order.
func (s Set) Patterns() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(s.Rules))
	for i, r := range s.Rules {
		out[i] = r.Pattern
	}
	return out
}

// Lines returns the non-comment, non-blank trimmed lines of a rule file.
func Lines(data []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Compile builds a Set from pattern lines. Any pattern that fails to compile
// fails the whole set.
func Compile(class Class, source string, lines []string) (Set, error) {
	level, action, reason := class.defaults()
	set := Set{Class: class}
	for i, src := range lines {
		re, err := regexp.Compile("(?i)" + src)
		if err != nil {
			return Set{}, secerr.Wrap(err, secerr.CodeRulesCompileInvalid,
				fmt.Sprintf("compile %s rule %d", class, i+1),
				secerr.FieldPath(source), secerr.Field("pattern", src))
		}
		set.Rules = append(set.Rules, Rule{
			ID:      fmt.Sprintf("%s#%d", class.FindingID(), i+1),
			Class:   class,
			Level:   level,
			Action:  action,
			Pattern: re,
			Reason:  reason,
		})
	}
	return set, nil
}

// Catalog holds one set per class.
type Catalog struct {
	Secret Set
	Egress Set
	Prompt Set
}

// Get returns the set for class.
func (c Catalog) Get(class Class) Set {
	switch class {
	case ClassSecret:
		return c.Secret
	case ClassEgress:
		return c.Egress
	default:
		return c.Prompt
	}
}

var (
	defaultOnce sync.Once
	defaultCat  Catalog
	defaultErr  error
)

// Default returns the embedded catalog, compiled once per process.
func Default() (Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = load(nil, "")
	})
	return defaultCat, defaultErr
}

// Load compiles the catalog, taking each class file from dir when present
// and from the embedded defaults otherwise. An empty dir means defaults only.
func Load(dir string) (Catalog, error) {
	if dir == "" {
		return Default()
	}
	return load(os.DirFS(dir), dir)
}

func load(override fs.FS, dir string) (Catalog, error) {
	var cat Catalog
	for _, class := range Classes {
		data, source, err := readClass(override, dir, class)
		if err != nil {
			return Catalog{}, err
		}
		set, err := Compile(class, source, Lines(data))
		if err != nil {
			return Catalog{}, err
		}
		switch class {
		case ClassSecret:
			cat.Secret = set
		case ClassEgress:
			cat.Egress = set
		case ClassPrompt:
			cat.Prompt = set
		}
	}
	return cat, nil
}

func readClass(override fs.FS, dir string, class Class) ([]byte, string, error) {
	name := class.FileName()
	if override != nil {
		data, err := fs.ReadFile(override, name)
		switch {
		case err == nil:
			return data, filepath.Join(dir, name), nil
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("class", string(class)).Str("dir", dir).Msg("rule file not in override dir, using embedded")
		default:
			return nil, "", secerr.Wrap(err, secerr.CodeRulesLoadReadFailure, "read rule file", secerr.FieldPath(filepath.Join(dir, name)))
		}
	}
	data, err := embedded.ReadFile("patterns/" + name)
	if err != nil {
		return nil, "", secerr.Wrap(err, secerr.CodeRulesLoadReadFailure, "read embedded rule file", secerr.FieldPath(name))
	}
	return data, "embedded:" + name, nil
}
