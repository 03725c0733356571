// Package syntax parses regular expressions written in the JavaScript
// (ECMAScript, Annex B) dialect into a syntax tree that keeps the byte
// offsets of every node, so callers can rewrite parts of the original
// pattern text without re-serializing the whole tree.
//
// Only the non-unicode grammar is supported: \u{...} and \p{...} are read
// the way a browser reads them without the u flag.
package syntax

// Loc is the half-open byte range [Start, End) of a node in the pattern.
type Loc struct {
	Start int
	End   int
}

// Location returns the node's position in the pattern.
func (l Loc) Location() Loc { return l }

// Node is implemented by every syntax tree node: *Pattern, *Alternative,
// *Group, *Assertion, *Quantifier, *CharacterClass, *CharacterClassRange,
// *Character, *CharacterSet and *Backreference.
type Node interface {
	Location() Loc
	node()
}

// Pattern is the root of a parsed regular expression.
type Pattern struct {
	Loc
	Source       string
	Alternatives []*Alternative

	// Groups is the number of capturing groups.
	Groups int
}

// Alternative is one branch of a disjunction.
type Alternative struct {
	Loc
	Elements []Node
}

// Group is a capturing, named or non-capturing group.
type Group struct {
	Loc
	Capturing bool
	// Index is the 1-based capture index; 0 for non-capturing groups.
	Index        int
	Name         string
	Alternatives []*Alternative
}

// AssertionKind enumerates zero-width assertions.
type AssertionKind int

const (
	StartAssertion AssertionKind = iota
	EndAssertion
	WordBoundaryAssertion
	LookaheadAssertion
	LookbehindAssertion
)

func (k AssertionKind) String() string {
	switch k {
	case StartAssertion:
		return "start"
	case EndAssertion:
		return "end"
	case WordBoundaryAssertion:
		return "word"
	case LookaheadAssertion:
		return "lookahead"
	case LookbehindAssertion:
		return "lookbehind"
	}
	return "unknown"
}

// Assertion is ^, $, \b, \B or a lookaround. Alternatives is only set for
// lookarounds.
type Assertion struct {
	Loc
	Kind         AssertionKind
	Negate       bool
	Alternatives []*Alternative
}

// Infinity is the Max of an unbounded quantifier.
const Infinity = -1

// Quantifier repeats Element between Min and Max times.
type Quantifier struct {
	Loc
	Min     int
	Max     int
	Greedy  bool
	Element Node
}

// CharacterClass is a bracket expression such as [a-z\n] or [^0-9].
// Elements holds *Character, *CharacterClassRange and *CharacterSet nodes.
type CharacterClass struct {
	Loc
	Negate   bool
	Elements []Node
}

// CharacterClassRange is a range such as a-z inside a class.
type CharacterClassRange struct {
	Loc
	Min *Character
	Max *Character
}

// Character matches a single code unit. Raw is its exact spelling in the
// pattern, e.g. `\n`, `\x41` or `a`.
type Character struct {
	Loc
	Value rune
	Raw   string
}

// SetKind enumerates the predefined character sets.
type SetKind int

const (
	AnySet SetKind = iota
	DigitSet
	SpaceSet
	WordSet
)

// CharacterSet is ., \d, \D, \s, \S, \w or \W.
type CharacterSet struct {
	Loc
	Kind   SetKind
	Negate bool
}

// Backreference is \1 or \k<name>. Ref is the number or the name as
// written.
type Backreference struct {
	Loc
	Ref string
}

func (*Pattern) node()             {}
func (*Alternative) node()         {}
func (*Group) node()               {}
func (*Assertion) node()           {}
func (*Quantifier) node()          {}
func (*CharacterClass) node()      {}
func (*CharacterClassRange) node() {}
func (*Character) node()           {}
func (*CharacterSet) node()        {}
func (*Backreference) node()       {}

// Walk traverses the tree rooted at n depth first. If fn returns false the
// children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Pattern:
		walkAlternatives(n.Alternatives, fn)
	case *Alternative:
		for _, e := range n.Elements {
			Walk(e, fn)
		}
	case *Group:
		walkAlternatives(n.Alternatives, fn)
	case *Assertion:
		walkAlternatives(n.Alternatives, fn)
	case *Quantifier:
		Walk(n.Element, fn)
	case *CharacterClass:
		for _, e := range n.Elements {
			Walk(e, fn)
		}
	case *CharacterClassRange:
		Walk(n.Min, fn)
		Walk(n.Max, fn)
	}
}

func walkAlternatives(alts []*Alternative, fn func(Node) bool) {
	for _, a := range alts {
		Walk(a, fn)
	}
}
