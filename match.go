package qgrepcode

import (
	"fmt"
	"strings"
)

// MatchRecord represents one search hit reported by the search tool.
// Line and column numbers are 1-based as emitted by the tool; EndColumn is
// exclusive.
type MatchRecord struct {
	FilePath    string
	LineNumber  int
	StartColumn int
	EndColumn   int
	PreviewText string
}

// Range is a 0-based position range. Start is inclusive, End is exclusive.
type Range struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// EndColumnMode selects how the tool's end column is converted to a 0-based
// exclusive end position.
type EndColumnMode string

const (
	// EndColumnDecrement subtracts one from the end column, like the line and
	// start columns. This is what the editor integration always did.
	EndColumnDecrement EndColumnMode = "decrement"
	// EndColumnVerbatim keeps the tool's end column as is, widening the
	// highlighted match by one character compared to EndColumnDecrement.
	EndColumnVerbatim EndColumnMode = "verbatim"
)

// UnmarshalText implements encoding.TextUnmarshaler so the mode can be read
// straight from config files and flags.
func (m *EndColumnMode) UnmarshalText(text []byte) error {
	switch mode := EndColumnMode(strings.ToLower(strings.TrimSpace(string(text)))); mode {
	case "":
		*m = EndColumnDecrement
	case EndColumnDecrement, EndColumnVerbatim:
		*m = mode
	default:
		return fmt.Errorf("unknown end column mode %q (expected decrement or verbatim)", string(text))
	}
	return nil
}

func (m EndColumnMode) String() string {
	if m == "" {
		return string(EndColumnDecrement)
	}
	return string(m)
}

func (m EndColumnMode) end(col int) int {
	if m == EndColumnVerbatim {
		return col
	}
	return col - 1
}

// Range returns the 0-based location of the match within its file.
func (r MatchRecord) Range(mode EndColumnMode) Range {
	line := r.LineNumber - 1
	return Range{
		StartLine:   line,
		StartColumn: r.StartColumn - 1,
		EndLine:     line,
		EndColumn:   mode.end(r.EndColumn),
	}
}

// PreviewRange returns the location of the match within PreviewText, which
// is always a single line.
func (r MatchRecord) PreviewRange(mode EndColumnMode) Range {
	return Range{
		StartColumn: r.StartColumn - 1,
		EndColumn:   mode.end(r.EndColumn),
	}
}

func (r MatchRecord) String() string {
	return fmt.Sprintf("%s:%d:%d:%d", r.FilePath, r.LineNumber, r.StartColumn, r.EndColumn)
}
