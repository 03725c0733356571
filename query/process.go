// Package query turns a user search into the pattern handed to the search
// tool, and builds the tool's command line.
package query

import "strings"

// Query is a search as entered by the user.
type Query struct {
	Pattern         string
	IsRegExp        bool
	IsWordMatch     bool
	IsCaseSensitive bool
}

// lineTerminatorEscaper writes raw line terminators as escapes, the way a
// compiled JavaScript pattern prints its source.
var lineTerminatorEscaper = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// Processed is the pattern to pass to the search tool.
type Processed struct {
	IsRegex bool
	Pattern string
}

// Process prepares q for the search tool. Whole word searches always become
// a regular expression. Regular expressions get their \n escapes widened to
// match \r\n. Literal searches are passed through unchanged.
func Process(q Query) (Processed, error) {
	switch {
	case q.IsWordMatch:
		re, err := CreateRegExp(q.Pattern, q.IsRegExp, RegExpOptions{WholeWord: true})
		if err != nil {
			return Processed{}, err
		}
		return Processed{IsRegex: true, Pattern: lineTerminatorEscaper.Replace(re.String())}, nil
	case q.IsRegExp:
		return Processed{IsRegex: true, Pattern: EscapeLineBreaks(FixRegexNewline(q.Pattern))}, nil
	default:
		return Processed{Pattern: q.Pattern}, nil
	}
}

// ToolOptions returns the option string of the tool's search command.
func ToolOptions(q Query, p Processed) string {
	opts := "HDCE"
	if !q.IsCaseSensitive {
		opts += "i"
	}
	if !p.IsRegex {
		// literal
		opts += "l"
	}
	return opts
}

// ToolArgs returns the argument vector for searching project.
func ToolArgs(project string, q Query, p Processed) []string {
	return []string{"search", project, ToolOptions(q, p), p.Pattern}
}
