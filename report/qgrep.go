package report

import (
	"bufio"
	"io"

	"github.com/qgrepcode/qgrepcode"
	"github.com/qgrepcode/qgrepcode/result"
)

// QgrepReporter writes records back in the search tool's own line format,
// one per line.
type QgrepReporter struct {
}

var _ qgrepcode.Reporter = (*QgrepReporter)(nil)

func (r *QgrepReporter) Write(w io.WriteCloser, records []qgrepcode.MatchRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := bw.WriteString(result.FormatLine(rec) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
