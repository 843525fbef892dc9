package pathfilter

import (
	"path"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

// Normalize rewrites backslashes to forward slashes.
func Normalize(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func trimDot(p string) string {
	if strings.HasPrefix(p, "./") {
		return strings.TrimLeft(p[2:], "/")
	}
	if p == "." {
		return ""
	}
	return p
}

// compiled globs are cached per process; rules repeat for every walked path.
var globCache sync.Map // string -> glob.Glob (nil when the rule is malformed)

func compile(rule string) glob.Glob {
	if g, ok := globCache.Load(rule); ok {
		if g == nil {
			return nil
		}
		return g.(glob.Glob)
	}
	g, err := glob.Compile(rule, '/')
	if err != nil {
		log.Debug().Str("rule", rule).Err(err).Msg("skip malformed glob")
		globCache.Store(rule, nil)
		return nil
	}
	globCache.Store(rule, g)
	return g
}

// Excluded reports whether p matches any exclude rule.
func Excluded(p string, rules []string) bool {
	fp := Normalize(p)
	bare := trimDot(fp)
	base := path.Base(fp)
	for _, r := range rules {
		rule := Normalize(strings.TrimSpace(r))
		if rule == "" {
			continue
		}
		if !strings.Contains(rule, "/") {
			if base == rule {
				return true
			}
			if g := compile(rule); g != nil && g.Match(base) {
				return true
			}
		}
		if g := compile(rule); g != nil && (g.Match(fp) || g.Match(bare)) {
			return true
		}
		// Literal prefix fallback. Over-broad by nature: "docs" also
		// excludes "docsite/".
		if pref, _, _ := strings.Cut(rule, "*"); pref != "" {
			if strings.HasPrefix(fp, pref) || strings.HasPrefix(bare, pref) {
				return true
			}
		}
	}
	return false
}

// Matcher is a single compiled allowlist predicate.
type Matcher func(p string) bool

// Matchers is an ordered set of allowlist predicates.
type Matchers []Matcher

// CompileAllow turns allowlist lines into predicates. Blank lines and lines
// starting with # are ignored.
func CompileAllow(lines []string) Matchers {
	var out Matchers
	for _, raw := range lines {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		pat := Normalize(raw)
		if strings.HasSuffix(pat, "/") {
			out = append(out, func(p string) bool { return strings.HasPrefix(p, pat) })
			continue
		}
		if g := compile(pat); g != nil {
			out = append(out, func(p string) bool { return g.Match(p) })
			continue
		}
		out = append(out, func(p string) bool { return p == pat || strings.HasSuffix(p, "/"+pat) })
	}
	return out
}

// Allowed reports whether any predicate accepts p. An empty set allows
// nothing.
func (m Matchers) Allowed(p string) bool {
	fp := trimDot(Normalize(p))
	for _, match := range m {
		if match(fp) {
			return true
		}
	}
	return false
}
