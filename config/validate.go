package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/qgrepcode/qgrepcode"
	"github.com/qgrepcode/qgrepcode/lines"
	"github.com/qgrepcode/qgrepcode/regexp"
)

// ReportFormats lists the values accepted for report.format.
var ReportFormats = []string{"text", "json", "csv", "qgrep", "sarif"}

// Validate checks enumerations, encodings and bounds.
func (c *Config) Validate() error {
	if _, err := lines.LookupEncoding(c.Encoding); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.EndColumn {
	case "", qgrepcode.EndColumnDecrement, qgrepcode.EndColumnVerbatim:
	default:
		return fmt.Errorf("config: unknown end_column %q", c.EndColumn)
	}
	switch c.OnMalformed {
	case MalformedSkip, MalformedWarn, MalformedAbort:
	default:
		return fmt.Errorf("config: unknown on_malformed %q", c.OnMalformed)
	}
	if !slices.Contains(regexp.Engines(), c.Engine) {
		return fmt.Errorf("config: unknown engine %q", c.Engine)
	}
	if c.MaxResults < 0 {
		return errors.New("config: max_results must not be negative")
	}
	if c.Concurrency < 1 {
		return errors.New("config: concurrency must be at least 1")
	}
	if !slices.Contains(ReportFormats, c.Report.Format) {
		return fmt.Errorf("config: unknown report format %q", c.Report.Format)
	}
	if c.Report.PreviewWidth < 0 {
		return errors.New("config: report.preview_width must not be negative")
	}
	return nil
}
