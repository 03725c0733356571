package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/qgrepcode/qgrepcode"
)

type CsvReporter struct {
}

var _ qgrepcode.Reporter = (*CsvReporter)(nil)

func (r *CsvReporter) Write(w io.WriteCloser, records []qgrepcode.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	var (
		cw  = csv.NewWriter(w)
		err error
	)
	columns := []string{"File",
		"Line",
		"StartColumn",
		"EndColumn",
		"Preview",
	}
	if err = cw.Write(columns); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{rec.FilePath,
			strconv.Itoa(rec.LineNumber),
			strconv.Itoa(rec.StartColumn),
			strconv.Itoa(rec.EndColumn),
			rec.PreviewText,
		}
		if err = cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
