package query

import (
	"slices"
	"strings"

	"github.com/qgrepcode/qgrepcode/regexp/syntax"
)

const (
	crlf        = `\r?\n`
	groupedCRLF = `(?:\r?\n)`
	newlineRaw  = `\n`
)

type edit struct {
	start int
	end   int
	text  string
}

// newlineContext describes the ancestors of the node being rewritten.
type newlineContext struct {
	// quantified is set when the nearest quantifier or class ancestor is a
	// quantifier. Groups and lookaheads do not count.
	quantified bool
	// direct is set when the node is itself the element of a quantifier.
	direct bool
}

type newlineRewriter struct {
	pattern string
	edits   []edit
}

// FixRegexNewline rewrites every \n escape in pattern so that it also
// matches \r\n. Patterns that do not parse are returned unchanged.
func FixRegexNewline(pattern string) string {
	if !strings.Contains(pattern, newlineRaw) {
		return pattern
	}
	tree, err := syntax.Parse(pattern)
	if err != nil {
		return pattern
	}

	rw := &newlineRewriter{pattern: pattern}
	rw.alternatives(tree.Alternatives, newlineContext{})
	return rw.apply()
}

func (rw *newlineRewriter) alternatives(alts []*syntax.Alternative, ctx newlineContext) {
	ctx.direct = false
	for _, alt := range alts {
		for _, e := range alt.Elements {
			rw.visit(e, ctx)
		}
	}
}

func (rw *newlineRewriter) visit(n syntax.Node, ctx newlineContext) {
	switch n := n.(type) {
	case *syntax.Group:
		rw.alternatives(n.Alternatives, ctx)
	case *syntax.Assertion:
		// Lookbehinds are left alone, including anything nested in them.
		if n.Kind == syntax.LookaheadAssertion {
			rw.alternatives(n.Alternatives, ctx)
		}
	case *syntax.Quantifier:
		rw.visit(n.Element, newlineContext{quantified: true, direct: true})
	case *syntax.CharacterClass:
		rw.class(n, ctx.direct)
	case *syntax.Character:
		if n.Raw != newlineRaw {
			return
		}
		if ctx.quantified {
			rw.replace(n.Loc, groupedCRLF)
		} else {
			rw.replace(n.Loc, crlf)
		}
	}
}

// class rewrites a bracket expression holding one or more \n escapes as a
// single edit. \n used as a range endpoint is kept.
func (rw *newlineRewriter) class(c *syntax.CharacterClass, quantified bool) {
	open := c.Start + 1
	if c.Negate {
		open++
	}
	closing := c.End - 1

	var (
		rest  strings.Builder
		found bool
		from  = open
	)
	for _, e := range c.Elements {
		ch, ok := e.(*syntax.Character)
		if !ok || ch.Raw != newlineRaw {
			continue
		}
		found = true
		rest.WriteString(rw.pattern[from:ch.Start])
		from = ch.End
	}
	if !found {
		return
	}
	rest.WriteString(rw.pattern[from:closing])
	other := rest.String()

	switch {
	case c.Negate && quantified && other == "":
		rw.replace(c.Loc, ".")
	case c.Negate && quantified:
		rw.replace(c.Loc, "[^"+other+"]")
	case c.Negate && other == "":
		rw.replace(c.Loc, `(?!\r?\n)`)
	case c.Negate:
		rw.replace(c.Loc, `(?!\r?\n|`+positiveClass(other)+")")
	case other == "" && quantified:
		rw.replace(c.Loc, groupedCRLF)
	case other == "":
		rw.replace(c.Loc, crlf)
	default:
		rw.replace(c.Loc, "(?:"+positiveClass(other)+`|\r?\n)`)
	}
}

// positiveClass brackets class content, escaping a leading ^ so the class
// does not become negated.
func positiveClass(content string) string {
	if strings.HasPrefix(content, "^") {
		content = `\` + content
	}
	return "[" + content + "]"
}

func (rw *newlineRewriter) replace(loc syntax.Loc, text string) {
	rw.edits = append(rw.edits, edit{start: loc.Start, end: loc.End, text: text})
}

func (rw *newlineRewriter) apply() string {
	if len(rw.edits) == 0 {
		return rw.pattern
	}
	slices.SortFunc(rw.edits, func(a, b edit) int { return a.start - b.start })

	var b strings.Builder
	last := 0
	for _, e := range rw.edits {
		b.WriteString(rw.pattern[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(rw.pattern[last:])
	return b.String()
}

// EscapeLineBreaks replaces every line feed character in pattern with the
// escape sequence \r?\n. It has no knowledge of regex structure.
func EscapeLineBreaks(pattern string) string {
	return strings.ReplaceAll(pattern, "\n", crlf)
}
