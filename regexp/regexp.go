package regexp

import (
	"fmt"
	stdlib "regexp"
	"strings"

	"github.com/dlclark/regexp2"
	gore2 "github.com/wasilibs/go-re2"
)

// Engine names accepted by SetEngine.
const (
	ECMAScript = "ecmascript"
	Stdlib     = "stdlib"
	RE2        = "re2"
)

// Engines lists the available engines, default first.
func Engines() []string { return []string{ECMAScript, Stdlib, RE2} }

// engine is an internal interface satisfied by *stdlib.Regexp, *gore2.Regexp
// and the regexp2 adapter.
type engine interface {
	MatchString(s string) bool
	FindString(s string) string
	FindStringSubmatch(s string) []string
	FindAllStringIndex(s string, n int) [][]int
	ReplaceAllString(src, repl string) string
	NumSubexp() int
	String() string
}

// Options are the flags a pattern is compiled with. Global and Unicode are
// carried for Flags only: every engine can find all matches and reads the
// input as UTF-8.
type Options struct {
	IgnoreCase bool
	Multiline  bool
	Global     bool
	Unicode    bool
}

// Regexp wraps a compiled regular expression. It is a concrete struct
// so that *Regexp works as a normal pointer (not pointer-to-interface).
type Regexp struct {
	e      engine
	expr   string
	opts   Options
	engine string
}

func (r *Regexp) MatchString(s string) bool {
	return r.e.MatchString(s)
}
func (r *Regexp) FindString(s string) string {
	return r.e.FindString(s)
}
func (r *Regexp) FindStringSubmatch(s string) []string {
	return r.e.FindStringSubmatch(s)
}

// FindAllStringIndex returns byte offsets for every engine. n == 0 gives
// nil.
func (r *Regexp) FindAllStringIndex(s string, n int) [][]int {
	if n == 0 {
		return nil
	}
	return r.e.FindAllStringIndex(s, n)
}
func (r *Regexp) ReplaceAllString(src, repl string) string {
	return r.e.ReplaceAllString(src, repl)
}
func (r *Regexp) NumSubexp() int {
	return r.e.NumSubexp()
}

// String returns the source text the expression was compiled from, without
// flags.
func (r *Regexp) String() string {
	return r.expr
}

// Flags returns the options in JavaScript flag notation, e.g. "gi".
func (r *Regexp) Flags() string {
	var b strings.Builder
	if r.opts.Global {
		b.WriteByte('g')
	}
	if r.opts.IgnoreCase {
		b.WriteByte('i')
	}
	if r.opts.Multiline {
		b.WriteByte('m')
	}
	if r.opts.Unicode {
		b.WriteByte('u')
	}
	return b.String()
}

// Engine names the engine r was compiled with.
func (r *Regexp) Engine() string { return r.engine }

var currentEngine = ECMAScript

// Version returns the name of the active regex engine.
func Version() string { return currentEngine }

// SetEngine selects the regex engine used by subsequent Compile calls.
func SetEngine(name string) {
	switch name {
	case ECMAScript, Stdlib, RE2:
		currentEngine = name
	default:
		panic("regexp: unknown engine: " + name)
	}
}

// Compile compiles a regular expression using the currently selected engine.
func Compile(expr string, opts Options) (*Regexp, error) {
	return CompileEngine(currentEngine, expr, opts)
}

// CompileEngine compiles a regular expression with the named engine.
func CompileEngine(name, expr string, opts Options) (*Regexp, error) {
	var (
		impl engine
		err  error
	)
	switch name {
	case ECMAScript:
		impl, err = compileECMAScript(expr, opts)
	case RE2:
		impl, err = gore2.Compile(inlineFlags(opts) + expr)
	case Stdlib:
		impl, err = stdlib.Compile(inlineFlags(opts) + expr)
	default:
		return nil, fmt.Errorf("unknown regexp engine %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("compile %q with %s: %w", expr, name, err)
	}
	return &Regexp{e: impl, expr: expr, opts: opts, engine: name}, nil
}

// MustCompile is like Compile without options but panics on error.
func MustCompile(expr string) *Regexp {
	re, err := Compile(expr, Options{})
	if err != nil {
		panic("regexp: " + err.Error())
	}
	return re
}

func inlineFlags(opts Options) string {
	var flags string
	if opts.IgnoreCase {
		flags += "i"
	}
	if opts.Multiline {
		flags += "m"
	}
	if flags == "" {
		return ""
	}
	return "(?" + flags + ")"
}

func compileECMAScript(expr string, opts Options) (*ecmaScript, error) {
	ro := regexp2.RegexOptions(regexp2.ECMAScript)
	if opts.IgnoreCase {
		ro |= regexp2.IgnoreCase
	}
	if opts.Multiline {
		ro |= regexp2.Multiline
	}
	re, err := regexp2.Compile(expr, ro)
	if err != nil {
		return nil, err
	}
	return &ecmaScript{re: re}, nil
}

// ecmaScript adapts *regexp2.Regexp to engine. regexp2 reports positions in
// runes; they are converted to byte offsets here.
type ecmaScript struct{ re *regexp2.Regexp }

func (e *ecmaScript) MatchString(s string) bool {
	ok, err := e.re.MatchString(s)
	return err == nil && ok
}

func (e *ecmaScript) FindString(s string) string {
	m, err := e.re.FindStringMatch(s)
	if err != nil || m == nil {
		return ""
	}
	return m.String()
}

func (e *ecmaScript) FindStringSubmatch(s string) []string {
	m, err := e.re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil
	}
	groups := m.Groups()
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.String()
	}
	return out
}

func (e *ecmaScript) FindAllStringIndex(s string, n int) [][]int {
	if n == 0 {
		return nil
	}
	var (
		offsets []int
		out     [][]int
	)
	m, err := e.re.FindStringMatch(s)
	for err == nil && m != nil {
		if offsets == nil {
			offsets = runeOffsets(s)
		}
		out = append(out, []int{offsets[m.Index], offsets[m.Index+m.Length]})
		if n > 0 && len(out) == n {
			break
		}
		m, err = e.re.FindNextMatch(m)
	}
	return out
}

func (e *ecmaScript) ReplaceAllString(src, repl string) string {
	out, err := e.re.Replace(src, repl, -1, -1)
	if err != nil {
		return src
	}
	return out
}

func (e *ecmaScript) NumSubexp() int {
	return len(e.re.GetGroupNumbers()) - 1
}

func (e *ecmaScript) String() string {
	return e.re.String()
}

// runeOffsets maps the i-th rune of s to its byte offset. The extra last
// entry is len(s).
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
