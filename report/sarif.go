package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/qgrepcode/qgrepcode"
	"github.com/qgrepcode/qgrepcode/version"
)

const (
	driver  = "qgrepcode"
	matchID = "qgrep-match"
)

// SarifReporter writes records as SARIF 2.1.0 results of a single rule.
type SarifReporter struct {
	EndColumn qgrepcode.EndColumnMode
}

var _ qgrepcode.Reporter = (*SarifReporter)(nil)

func (r *SarifReporter) Write(w io.WriteCloser, records []qgrepcode.MatchRecord) error {
	sarif := Sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    r.getRuns(records),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")
	return encoder.Encode(sarif)
}

func (r *SarifReporter) getRuns(records []qgrepcode.MatchRecord) []Runs {
	return []Runs{
		{
			Tool:    getTool(),
			Results: r.getResults(records),
		},
	}
}

func getTool() Tool {
	return Tool{
		Driver: Driver{
			Name:            driver,
			SemanticVersion: version.Version,
			InformationUri:  "https://github.com/qgrepcode/qgrepcode",
			Rules: []Rules{
				{
					ID: matchID,
					Description: ShortDescription{
						Text: "qgrep search match",
					},
				},
			},
		},
	}
}

func (r *SarifReporter) getResults(records []qgrepcode.MatchRecord) []Results {
	results := []Results{}
	for _, rec := range records {
		results = append(results, Results{
			Message: Message{
				Text: fmt.Sprintf("match in %s at line %d", rec.FilePath, rec.LineNumber),
			},
			RuleId:    matchID,
			Locations: r.getLocation(rec),
		})
	}
	return results
}

// getLocation converts the 0-based record range to SARIF's 1-based region.
func (r *SarifReporter) getLocation(rec qgrepcode.MatchRecord) []Locations {
	rng := rec.Range(r.EndColumn)
	return []Locations{
		{
			PhysicalLocation: PhysicalLocation{
				ArtifactLocation: ArtifactLocation{
					URI: strings.ReplaceAll(rec.FilePath, "\\", "/"),
				},
				Region: Region{
					StartLine:   rng.StartLine + 1,
					StartColumn: rng.StartColumn + 1,
					EndLine:     rng.EndLine + 1,
					EndColumn:   rng.EndColumn + 1,
					Snippet: Snippet{
						Text: rec.PreviewText,
					},
				},
			},
		},
	}
}

type Sarif struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Runs `json:"runs"`
}

type Runs struct {
	Tool    Tool      `json:"tool"`
	Results []Results `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name            string  `json:"name"`
	SemanticVersion string  `json:"semanticVersion"`
	InformationUri  string  `json:"informationUri"`
	Rules           []Rules `json:"rules"`
}

type Rules struct {
	ID          string           `json:"id"`
	Description ShortDescription `json:"shortDescription"`
}

type ShortDescription struct {
	Text string `json:"text"`
}

type Results struct {
	Message   Message     `json:"message"`
	RuleId    string      `json:"ruleId"`
	Locations []Locations `json:"locations"`
}

type Message struct {
	Text string `json:"text"`
}

type Locations struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

type Region struct {
	StartLine   int     `json:"startLine"`
	StartColumn int     `json:"startColumn"`
	EndLine     int     `json:"endLine"`
	EndColumn   int     `json:"endColumn"`
	Snippet     Snippet `json:"snippet"`
}

type Snippet struct {
	Text string `json:"text"`
}
