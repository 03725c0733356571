// Package report writes match records as text, JSON, CSV, SARIF or in the
// search tool's own line format.
package report

import (
	"fmt"

	"github.com/qgrepcode/qgrepcode"
	"github.com/qgrepcode/qgrepcode/config"
)

// New returns the reporter for the configured format.
func New(cfg config.Config) (qgrepcode.Reporter, error) {
	switch cfg.Report.Format {
	case "", "text":
		return &TextReporter{
			EndColumn:    cfg.EndColumn,
			PreviewWidth: cfg.Report.PreviewWidth,
			NoColor:      cfg.Report.NoColor,
		}, nil
	case "json":
		return &JsonReporter{EndColumn: cfg.EndColumn}, nil
	case "csv":
		return &CsvReporter{}, nil
	case "qgrep":
		return &QgrepReporter{}, nil
	case "sarif":
		return &SarifReporter{EndColumn: cfg.EndColumn}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", cfg.Report.Format)
}
