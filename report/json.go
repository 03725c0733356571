package report

import (
	"encoding/json"
	"io"

	"github.com/qgrepcode/qgrepcode"
)

type JsonReporter struct {
	EndColumn qgrepcode.EndColumnMode
}

var _ qgrepcode.Reporter = (*JsonReporter)(nil)

type jsonRecord struct {
	Path        string          `json:"path"`
	Line        int             `json:"line"`
	StartColumn int             `json:"startColumn"`
	EndColumn   int             `json:"endColumn"`
	Preview     string          `json:"preview"`
	Range       qgrepcode.Range `json:"range"`
}

func (r *JsonReporter) Write(w io.WriteCloser, records []qgrepcode.MatchRecord) error {
	out := make([]jsonRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, jsonRecord{
			Path:        rec.FilePath,
			Line:        rec.LineNumber,
			StartColumn: rec.StartColumn,
			EndColumn:   rec.EndColumn,
			Preview:     rec.PreviewText,
			Range:       rec.Range(r.EndColumn),
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")
	return encoder.Encode(out)
}
