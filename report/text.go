package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/qgrepcode/qgrepcode"
)

const (
	ellipsis = "..."
	// leading context kept before the match when a preview is shortened
	contextWidth = 20
)

var matchStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#f05c07"))

// TextReporter prints one record per line as path:line:column: preview,
// with the match highlighted inside the preview.
type TextReporter struct {
	EndColumn qgrepcode.EndColumnMode
	// PreviewWidth is the maximum display width of a preview, 0 for no limit.
	PreviewWidth int
	NoColor      bool
}

var _ qgrepcode.Reporter = (*TextReporter)(nil)

func (r *TextReporter) Write(w io.WriteCloser, records []qgrepcode.MatchRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, "%s:%d:%d: %s\n",
			rec.FilePath, rec.LineNumber, rec.StartColumn, r.preview(rec)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (r *TextReporter) preview(rec qgrepcode.MatchRecord) string {
	text := []rune(rec.PreviewText)
	pr := rec.PreviewRange(r.EndColumn)
	start := clamp(pr.StartColumn, 0, len(text))
	end := clamp(pr.EndColumn, start, len(text))

	before := string(text[:start])
	match := string(text[start:end])
	after := string(text[end:])

	if r.PreviewWidth > 0 && runewidth.StringWidth(rec.PreviewText) > r.PreviewWidth {
		before = strings.TrimLeft(before, " \t")
		if runewidth.StringWidth(before) > contextWidth {
			before = ellipsis + keepRight(before, contextWidth)
		}
		remaining := r.PreviewWidth - runewidth.StringWidth(before) - runewidth.StringWidth(match)
		if remaining < len(ellipsis) {
			remaining = len(ellipsis)
		}
		after = runewidth.Truncate(after, remaining, ellipsis)
	}

	if !r.NoColor && match != "" {
		match = matchStyle.Render(match)
	}
	return before + match + after
}

// keepRight returns the longest suffix of s whose display width is at most
// width.
func keepRight(s string, width int) string {
	runes := []rune(s)
	w := 0
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > width {
			break
		}
		w += rw
		i--
	}
	return string(runes[i:])
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
