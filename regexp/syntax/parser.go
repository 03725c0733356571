package syntax

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Error describes a syntax error at a byte offset of the pattern.
type Error struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid regular expression /%s/: %s at offset %d", e.Pattern, e.Msg, e.Pos)
}

type parser struct {
	src string
	pos int

	// filled by prescan
	totalGroups int
	names       map[string]bool

	groupIndex int
	seenNames  map[string]bool
}

// Parse parses pattern as a regular expression without flags.
func Parse(pattern string) (*Pattern, error) {
	p := &parser{src: pattern, seenNames: map[string]bool{}}
	p.prescan()

	alts, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// disjunction only stops early on ')'
		return nil, p.errorf(p.pos, "unmatched ')'")
	}
	return &Pattern{
		Loc:          Loc{0, len(p.src)},
		Source:       pattern,
		Alternatives: alts,
		Groups:       p.totalGroups,
	}, nil
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &Error{Pattern: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// prescan counts capturing groups and collects group names. Both are needed
// before parsing: \2 may refer to a later group and \k is only a reference
// when the pattern declares names.
func (p *parser) prescan() {
	inClass := false
	for i := 0; i < len(p.src); i++ {
		switch p.src[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '(':
			if inClass {
				continue
			}
			rest := p.src[i+1:]
			if !strings.HasPrefix(rest, "?") {
				p.totalGroups++
				continue
			}
			if strings.HasPrefix(rest, "?<") && !strings.HasPrefix(rest, "?<=") && !strings.HasPrefix(rest, "?<!") {
				p.totalGroups++
				if end := strings.IndexByte(rest, '>'); end > 2 {
					if p.names == nil {
						p.names = map[string]bool{}
					}
					p.names[rest[2:end]] = true
				}
			}
		}
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) lookingAt(s string) bool { return strings.HasPrefix(p.src[p.pos:], s) }

func (p *parser) eat(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *parser) disjunction() ([]*Alternative, error) {
	var alts []*Alternative
	for {
		alt, err := p.alternative()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
		if !p.eat('|') {
			return alts, nil
		}
	}
}

func (p *parser) alternative() (*Alternative, error) {
	start := p.pos
	var elems []Node
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		n, err := p.term()
		if err != nil {
			return nil, err
		}
		elems = append(elems, n)
	}
	return &Alternative{Loc: Loc{start, p.pos}, Elements: elems}, nil
}

func (p *parser) term() (Node, error) {
	start := p.pos
	var assertion *Assertion
	switch {
	case p.lookingAt("^"):
		p.pos++
		assertion = &Assertion{Kind: StartAssertion}
	case p.lookingAt("$"):
		p.pos++
		assertion = &Assertion{Kind: EndAssertion}
	case p.lookingAt(`\b`), p.lookingAt(`\B`):
		assertion = &Assertion{Kind: WordBoundaryAssertion, Negate: p.src[p.pos+1] == 'B'}
		p.pos += 2
	case p.lookingAt("(?="), p.lookingAt("(?!"):
		a, err := p.lookaround(LookaheadAssertion, 3)
		if err != nil {
			return nil, err
		}
		// Lookaheads may be quantified in the legacy grammar.
		return p.quantify(a)
	case p.lookingAt("(?<="), p.lookingAt("(?<!"):
		a, err := p.lookaround(LookbehindAssertion, 4)
		if err != nil {
			return nil, err
		}
		assertion = a
	}
	if assertion != nil {
		assertion.Loc = Loc{start, p.pos}
		if _, _, ok := p.peekQuantifier(); ok {
			return nil, p.errorf(p.pos, "nothing to repeat")
		}
		return assertion, nil
	}

	atom, err := p.atom()
	if err != nil {
		return nil, err
	}
	return p.quantify(atom)
}

func (p *parser) lookaround(kind AssertionKind, prefix int) (*Assertion, error) {
	start := p.pos
	negate := p.src[p.pos+prefix-1] == '!'
	p.pos += prefix
	alts, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	if !p.eat(')') {
		return nil, p.errorf(start, "unterminated group")
	}
	return &Assertion{Loc: Loc{start, p.pos}, Kind: kind, Negate: negate, Alternatives: alts}, nil
}

// peekQuantifier reports whether a quantifier starts at the current
// position without consuming it. It returns the quantifier's bounds and
// byte length.
func (p *parser) peekQuantifier() (bounds [2]int, n int, ok bool) {
	switch p.peek() {
	case '*':
		return [2]int{0, Infinity}, 1, true
	case '+':
		return [2]int{1, Infinity}, 1, true
	case '?':
		return [2]int{0, 1}, 1, true
	case '{':
		return p.peekBraced()
	}
	return bounds, 0, false
}

// peekBraced matches {n}, {n,} or {n,m}.
func (p *parser) peekBraced() (bounds [2]int, n int, ok bool) {
	i := p.pos + 1
	min, i, okMin := p.digitsAt(i)
	if !okMin {
		return bounds, 0, false
	}
	max := min
	if i < len(p.src) && p.src[i] == ',' {
		i++
		max = Infinity
		if m, j, okMax := p.digitsAt(i); okMax {
			max, i = m, j
		}
	}
	if i >= len(p.src) || p.src[i] != '}' {
		return bounds, 0, false
	}
	return [2]int{min, max}, i + 1 - p.pos, true
}

func (p *parser) digitsAt(i int) (value, end int, ok bool) {
	j := i
	for j < len(p.src) && isDigit(p.src[j]) {
		j++
	}
	if j == i {
		return 0, i, false
	}
	v, err := strconv.Atoi(p.src[i:j])
	if err != nil {
		v = math.MaxInt32
	}
	return v, j, true
}

func (p *parser) quantify(atom Node) (Node, error) {
	bounds, n, ok := p.peekQuantifier()
	if !ok {
		return atom, nil
	}
	if bounds[1] != Infinity && bounds[0] > bounds[1] {
		return nil, p.errorf(p.pos, "numbers out of order in {} quantifier")
	}
	p.pos += n
	greedy := !p.eat('?')
	return &Quantifier{
		Loc:     Loc{atom.Location().Start, p.pos},
		Min:     bounds[0],
		Max:     bounds[1],
		Greedy:  greedy,
		Element: atom,
	}, nil
}

func (p *parser) atom() (Node, error) {
	start := p.pos
	switch c := p.peek(); c {
	case '.':
		p.pos++
		return &CharacterSet{Loc: Loc{start, p.pos}, Kind: AnySet}, nil
	case '[':
		return p.class()
	case '(':
		return p.group()
	case '*', '+', '?':
		return nil, p.errorf(start, "nothing to repeat")
	case '{':
		if _, _, ok := p.peekBraced(); ok {
			return nil, p.errorf(start, "nothing to repeat")
		}
	case '\\':
		return p.atomEscape()
	}
	return p.literal(), nil
}

func (p *parser) literal() *Character {
	start := p.pos
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return &Character{Loc: Loc{start, p.pos}, Value: r, Raw: p.src[start:p.pos]}
}

func (p *parser) group() (Node, error) {
	start := p.pos
	p.pos++ // (
	g := &Group{}
	switch {
	case p.lookingAt("?:"):
		p.pos += 2
	case p.lookingAt("?<"):
		p.pos += 2
		name, err := p.groupName()
		if err != nil {
			return nil, err
		}
		if p.seenNames[name] {
			return nil, p.errorf(start, "duplicate capture group name %q", name)
		}
		p.seenNames[name] = true
		g.Name = name
		g.Capturing = true
	case p.lookingAt("?"):
		return nil, p.errorf(start, "invalid group")
	default:
		g.Capturing = true
	}
	if g.Capturing {
		p.groupIndex++
		g.Index = p.groupIndex
	}

	alts, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	if !p.eat(')') {
		return nil, p.errorf(start, "unterminated group")
	}
	g.Loc = Loc{start, p.pos}
	g.Alternatives = alts
	return g, nil
}

// groupName reads `name>` after "(?<" or "\k<".
func (p *parser) groupName() (string, error) {
	start := p.pos
	end := strings.IndexByte(p.src[p.pos:], '>')
	if end <= 0 {
		return "", p.errorf(start, "invalid capture group name")
	}
	name := p.src[p.pos : p.pos+end]
	for i, r := range name {
		if !isIdentRune(r, i == 0) {
			return "", p.errorf(start, "invalid capture group name")
		}
	}
	p.pos += end + 1
	return name, nil
}

func (p *parser) atomEscape() (Node, error) {
	start := p.pos
	if p.pos+1 >= len(p.src) {
		return nil, p.errorf(start, `\ at end of pattern`)
	}
	c := p.src[p.pos+1]
	switch {
	case isSetEscape(c):
		p.pos += 2
		return setEscape(start, c), nil
	case c >= '1' && c <= '9':
		_, end, _ := p.digitsAt(p.pos + 1)
		if n, err := strconv.Atoi(p.src[p.pos+1 : end]); err == nil && n <= p.totalGroups {
			p.pos = end
			return &Backreference{Loc: Loc{start, p.pos}, Ref: p.src[start+1 : end]}, nil
		}
		return p.legacyEscape(start), nil
	case c == 'k' && p.names != nil:
		p.pos += 2
		if !p.eat('<') {
			return nil, p.errorf(start, "invalid named reference")
		}
		name, err := p.groupName()
		if err != nil {
			return nil, err
		}
		if !p.names[name] {
			return nil, p.errorf(start, "invalid named capture referenced")
		}
		return &Backreference{Loc: Loc{start, p.pos}, Ref: name}, nil
	}
	return p.characterEscape(false), nil
}

// legacyEscape handles \0, octal escapes and \8 \9 outside of
// backreferences.
func (p *parser) legacyEscape(start int) *Character {
	p.pos = start + 1
	c := p.src[p.pos]
	if c == '8' || c == '9' {
		p.pos++
		return &Character{Loc: Loc{start, p.pos}, Value: rune(c), Raw: p.src[start:p.pos]}
	}
	value := 0
	for i := 0; i < 3 && p.pos < len(p.src) && isOctal(p.src[p.pos]); i++ {
		next := value*8 + int(p.src[p.pos]-'0')
		if next > 0o377 {
			break
		}
		value = next
		p.pos++
	}
	return &Character{Loc: Loc{start, p.pos}, Value: rune(value), Raw: p.src[start:p.pos]}
}

// characterEscape parses the escapes shared by atoms and classes. The
// current position is at the backslash, which is known not to be last.
func (p *parser) characterEscape(inClass bool) *Character {
	start := p.pos
	c := p.src[p.pos+1]
	value := rune(-1)
	n := 2
	switch c {
	case 'f':
		value = '\f'
	case 'n':
		value = '\n'
	case 'r':
		value = '\r'
	case 't':
		value = '\t'
	case 'v':
		value = '\v'
	case '0':
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+2]) {
			value = 0
		} else {
			return p.legacyEscape(start)
		}
	case 'c':
		if p.pos+2 < len(p.src) && isControlLetter(p.src[p.pos+2], inClass) {
			value = rune(p.src[p.pos+2] % 32)
			n = 3
		} else {
			// \c without a letter is a literal backslash; the c is read next.
			p.pos++
			return &Character{Loc: Loc{start, p.pos}, Value: '\\', Raw: `\`}
		}
	case 'x':
		if v, ok := hexAt(p.src, p.pos+2, 2); ok {
			value, n = v, 4
		}
	case 'u':
		if v, ok := hexAt(p.src, p.pos+2, 4); ok {
			value, n = v, 6
		}
	}
	if value < 0 {
		// identity escape
		r, size := utf8.DecodeRuneInString(p.src[p.pos+1:])
		value, n = r, 1+size
	}
	p.pos += n
	return &Character{Loc: Loc{start, p.pos}, Value: value, Raw: p.src[start:p.pos]}
}

func (p *parser) class() (Node, error) {
	start := p.pos
	p.pos++ // [
	negate := p.eat('^')
	var elems []Node
	for {
		if p.eof() {
			return nil, p.errorf(start, "unterminated character class")
		}
		if p.eat(']') {
			break
		}
		a, err := p.classAtom()
		if err != nil {
			return nil, err
		}
		if !p.lookingAt("-") || p.pos+1 >= len(p.src) || p.src[p.pos+1] == ']' {
			elems = append(elems, a)
			continue
		}

		dash := p.pos
		p.pos++
		b, err := p.classAtom()
		if err != nil {
			return nil, err
		}
		lo, loOK := a.(*Character)
		hi, hiOK := b.(*Character)
		if !loOK || !hiOK {
			// A set on either side turns the dash into a literal.
			elems = append(elems, a, &Character{Loc: Loc{dash, dash + 1}, Value: '-', Raw: "-"}, b)
			continue
		}
		if lo.Value > hi.Value {
			return nil, p.errorf(lo.Start, "range out of order in character class")
		}
		elems = append(elems, &CharacterClassRange{Loc: Loc{lo.Start, hi.End}, Min: lo, Max: hi})
	}
	return &CharacterClass{Loc: Loc{start, p.pos}, Negate: negate, Elements: elems}, nil
}

func (p *parser) classAtom() (Node, error) {
	if p.peek() != '\\' {
		return p.literal(), nil
	}
	start := p.pos
	if p.pos+1 >= len(p.src) {
		return nil, p.errorf(start, `\ at end of pattern`)
	}
	c := p.src[p.pos+1]
	switch {
	case isSetEscape(c):
		p.pos += 2
		return setEscape(start, c), nil
	case c == 'b':
		p.pos += 2
		return &Character{Loc: Loc{start, p.pos}, Value: '\b', Raw: `\b`}, nil
	case c == '-':
		p.pos += 2
		return &Character{Loc: Loc{start, p.pos}, Value: '-', Raw: `\-`}, nil
	case c >= '1' && c <= '9':
		return p.legacyEscape(start), nil
	}
	return p.characterEscape(true), nil
}

func setEscape(start int, c byte) *CharacterSet {
	s := &CharacterSet{Loc: Loc{start, start + 2}}
	switch c {
	case 'd', 'D':
		s.Kind = DigitSet
	case 's', 'S':
		s.Kind = SpaceSet
	case 'w', 'W':
		s.Kind = WordSet
	}
	s.Negate = c == 'D' || c == 'S' || c == 'W'
	return s
}

func isSetEscape(c byte) bool {
	switch c {
	case 'd', 'D', 's', 'S', 'w', 'W':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isOctal(c byte) bool { return c >= '0' && c <= '7' }

func isControlLetter(c byte, inClass bool) bool {
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	return inClass && (isDigit(c) || c == '_')
}

func isIdentRune(r rune, first bool) bool {
	switch {
	case r == '$' || r == '_':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return !first
	}
	return r >= utf8.RuneSelf
}

func hexAt(s string, i, n int) (rune, bool) {
	if i+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i:i+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
