package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/qgrepcode/qgrepcode"
	"github.com/qgrepcode/qgrepcode/config"
	"github.com/qgrepcode/qgrepcode/filter"
	"github.com/qgrepcode/qgrepcode/logging"
	"github.com/qgrepcode/qgrepcode/report"
	"github.com/qgrepcode/qgrepcode/scan"
	"github.com/qgrepcode/qgrepcode/sources"
)

func newParseCmd() *cobra.Command {
	parseCmd := &cobra.Command{
		Use:   "parse [inputs...]",
		Short: "parse captured qgrep search output (\"-\" or no input reads stdin)",
		RunE:  runParse,
	}
	parseCmd.Flags().StringP("report-path", "r", "-", "report file (use \"-\" for stdout)")
	parseCmd.Flags().StringP("report-format", "f", "text", "output format (text, json, csv, qgrep, sarif)")
	parseCmd.Flags().StringP("ignore-path", "i", ".", "path to a "+scan.IgnoreFileName+" file or the directory holding one")
	parseCmd.Flags().StringP("baseline-path", "b", "", "path to a json report; records already in it are not reported")
	parseCmd.Flags().String("where", "", "CEL expression over path, line, start, end and preview selecting the records to report")
	parseCmd.Flags().String("encoding", config.Default().Encoding, "encoding of the search output")
	parseCmd.Flags().String("end-column", string(qgrepcode.EndColumnDecrement), "end column conversion (decrement, verbatim)")
	parseCmd.Flags().Int("max-results", 0, "stop after this many records (default \"0\", no limit)")
	parseCmd.Flags().String("on-malformed", string(config.MalformedWarn), "what to do with lines that do not parse (skip, warn, abort)")
	parseCmd.Flags().Int("concurrency", config.Default().Concurrency, "number of inputs read at once")
	parseCmd.Flags().Int("preview-width", config.Default().Report.PreviewWidth, "maximum preview width of the text report, 0 for no limit")
	parseCmd.Flags().Bool("no-color", false, "turn off color in the text report")
	return parseCmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var f *filter.Filter
	if where, _ := cmd.Flags().GetString("where"); where != "" {
		if f, err = filter.Compile(where); err != nil {
			return err
		}
	}

	reporter, err := report.New(cfg)
	if err != nil {
		return err
	}

	srcs, closeSources, err := sources.OpenAll(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSources(); err != nil {
			logging.Warn().Err(err).Msg("closing inputs")
		}
	}()

	p := scan.NewPipeline(cfg, f)
	ignorePath, _ := cmd.Flags().GetString("ignore-path")
	p.Ignore = scan.LoadIgnoreFiles(ignorePath)
	baselinePath, _ := cmd.Flags().GetString("baseline-path")
	if err := p.AddBaseline(baselinePath); err != nil {
		return err
	}
	start := time.Now()
	var records []qgrepcode.MatchRecord
	err = p.RunAll(cmd.Context(), srcs, func(source string, rec qgrepcode.MatchRecord) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return err
	}
	summary(p.Stats(), start)

	reportPath, _ := cmd.Flags().GetString("report-path")
	w, err := reportWriter(cmd, reportPath)
	if err != nil {
		return err
	}
	if err := reporter.Write(w, records); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func summary(stats scan.Stats, start time.Time) {
	logging.Info().Msgf("%d records parsed from %s in %s",
		stats.Records, bytesConvert(stats.Bytes), FormatDuration(time.Since(start)))
	if stats.Malformed > 0 {
		logging.Warn().Msgf("%d malformed lines skipped", stats.Malformed)
	}
	if stats.Ignored > 0 {
		logging.Debug().Msgf("%d records ignored", stats.Ignored)
	}
	if stats.Known > 0 {
		logging.Info().Msgf("%d records already in the baseline", stats.Known)
	}
	if stats.Filtered > 0 {
		logging.Debug().Msgf("%d records filtered out", stats.Filtered)
	}
	if stats.LimitHit {
		logging.Warn().Msg("result limit hit, more results exist")
	}
}
