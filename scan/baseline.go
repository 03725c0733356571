package scan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/qgrepcode/qgrepcode"
)

// Baseline holds the records of an earlier json report. Records found in
// the baseline are not reported again.
type Baseline map[qgrepcode.MatchRecord]struct{}

// baselineRecord is the subset of a json report record that identifies it.
type baselineRecord struct {
	Path        string `json:"path"`
	Line        int    `json:"line"`
	StartColumn int    `json:"startColumn"`
	EndColumn   int    `json:"endColumn"`
	Preview     string `json:"preview"`
}

func (b Baseline) IsNew(rec qgrepcode.MatchRecord) bool {
	_, known := b[rec]
	return !known
}

func LoadBaseline(baselinePath string) (Baseline, error) {
	bytes, err := os.ReadFile(baselinePath)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", baselinePath, err)
	}

	var previous []baselineRecord
	err = json.Unmarshal(bytes, &previous)
	if err != nil {
		return nil, fmt.Errorf("the format of the file %s is not supported: %w", baselinePath, err)
	}

	baseline := make(Baseline, len(previous))
	for _, r := range previous {
		baseline[qgrepcode.MatchRecord{
			FilePath:    r.Path,
			LineNumber:  r.Line,
			StartColumn: r.StartColumn,
			EndColumn:   r.EndColumn,
			PreviewText: r.Preview,
		}] = struct{}{}
	}
	return baseline, nil
}

// AddBaseline loads the json report at baselinePath into p. An empty path
// clears the baseline.
func (p *Pipeline) AddBaseline(baselinePath string) error {
	if baselinePath == "" {
		p.Baseline = nil
		return nil
	}
	baseline, err := LoadBaseline(baselinePath)
	if err != nil {
		return err
	}
	p.Baseline = baseline
	return nil
}
