// Package result parses the positional line format written by the search
// tool:
//
//	path:line:startColumn:endColumn:preview
//
// The path may start with a drive letter (C:\...). The preview is the rest of
// the line verbatim and may contain further colons.
package result

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/qgrepcode/qgrepcode"
)

// ErrMalformedLine is matched by every error returned from ParseLine.
var ErrMalformedLine = errors.New("malformed result line")

// separators is the number of colons that delimit the five fields.
const separators = 4

// MalformedLineError carries the raw line that could not be parsed.
type MalformedLineError struct {
	Line   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed result line %q: %s", e.Line, e.Reason)
}

func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// ParseLine parses one decoded line of tool output.
func ParseLine(line string) (qgrepcode.MatchRecord, error) {
	var indices []int
	for i := 0; i < len(line); i++ {
		if line[i] == ':' {
			indices = append(indices, i)
		}
	}

	// C:\ for example
	if len(indices) > 0 && indices[0] == 1 {
		indices = indices[1:]
	}

	if len(indices) < separators {
		return qgrepcode.MatchRecord{}, &MalformedLineError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d separators, found %d", separators, len(indices)),
		}
	}

	lineNumber, err := parseField(line, "line number", line[indices[0]+1:indices[1]])
	if err != nil {
		return qgrepcode.MatchRecord{}, err
	}
	startColumn, err := parseField(line, "start column", line[indices[1]+1:indices[2]])
	if err != nil {
		return qgrepcode.MatchRecord{}, err
	}
	endColumn, err := parseField(line, "end column", line[indices[2]+1:indices[3]])
	if err != nil {
		return qgrepcode.MatchRecord{}, err
	}

	return qgrepcode.MatchRecord{
		FilePath:    line[:indices[0]],
		LineNumber:  lineNumber,
		StartColumn: startColumn,
		EndColumn:   endColumn,
		PreviewText: line[indices[3]+1:],
	}, nil
}

func parseField(line, name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &MalformedLineError{Line: line, Reason: fmt.Sprintf("%s %q is not an integer", name, s)}
	}
	if n < 1 {
		return 0, &MalformedLineError{Line: line, Reason: fmt.Sprintf("%s %d is not 1-based", name, n)}
	}
	return n, nil
}

// FormatLine renders a record back into the tool's line format.
func FormatLine(r qgrepcode.MatchRecord) string {
	var b strings.Builder
	b.WriteString(r.FilePath)
	for _, n := range []int{r.LineNumber, r.StartColumn, r.EndColumn} {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteByte(':')
	b.WriteString(r.PreviewText)
	return b.String()
}
