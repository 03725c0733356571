package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/qgrepcode/qgrepcode/regexp"
)

var (
	// ErrEmptyPattern is returned when a regular expression is requested for
	// an empty search string.
	ErrEmptyPattern = errors.New("cannot create regex from empty string")
	// ErrInvalidPattern wraps compile errors of the final pattern.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// RegExpOptions control CreateRegExp.
type RegExpOptions struct {
	MatchCase bool
	WholeWord bool
	Multiline bool
	Global    bool
	Unicode   bool
}

var regexpSpecials = strings.NewReplacer(
	`\`, `\\`, `{`, `\{`, `}`, `\}`, `*`, `\*`, `+`, `\+`, `?`, `\?`,
	`|`, `\|`, `^`, `\^`, `$`, `\$`, `.`, `\.`, `[`, `\[`, `]`, `\]`,
	`(`, `\(`, `)`, `\)`,
)

// EscapeRegExpCharacters escapes the characters that have a meaning in a
// regular expression.
func EscapeRegExpCharacters(s string) string {
	return regexpSpecials.Replace(s)
}

// CreateRegExp builds a regular expression for search. Literal searches are
// escaped first. Whole word matching adds \b on each side whose outermost
// character is a word character. The result is always compiled with the
// ECMAScript engine, the dialect the search tool is given.
func CreateRegExp(search string, isRegex bool, opts RegExpOptions) (*regexp.Regexp, error) {
	if search == "" {
		return nil, ErrEmptyPattern
	}
	if !isRegex {
		search = EscapeRegExpCharacters(search)
	}
	if opts.WholeWord {
		if isWordByte(search[0]) {
			search = `\b` + search
		}
		if isWordByte(search[len(search)-1]) {
			search += `\b`
		}
	}

	re, err := regexp.CompileEngine(regexp.ECMAScript, search, regexp.Options{
		IgnoreCase: !opts.MatchCase,
		Multiline:  opts.Multiline,
		Global:     opts.Global,
		Unicode:    opts.Unicode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return re, nil
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
