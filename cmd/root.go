package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/qgrepcode/qgrepcode/config"
	"github.com/qgrepcode/qgrepcode/logging"
	"github.com/qgrepcode/qgrepcode/regexp"
	"github.com/qgrepcode/qgrepcode/version"
)

const configDescription = `config file path
order of precedence:
1. --config/-c
2. env var QGREPCODE_CONFIG
3. env var QGREPCODE_CONFIG_TOML with the file content
4. ./.qgrepcode.toml
If none of the four options are used, then qgrepcode will use the default config`

const (
	BYTE     = 1.0
	KILOBYTE = BYTE * 1000
	MEGABYTE = KILOBYTE * 1000
	GIGABYTE = MEGABYTE * 1000
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "qgrepcode",
		Short:         "qgrepcode reads qgrep search output and prepares qgrep queries",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initLog(cmd); err != nil {
				return err
			}
			// Set the timeout for all the commands
			if timeout, err := cmd.Flags().GetInt("timeout"); err != nil {
				return err
			} else if timeout > 0 {
				ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeout)*time.Second)
				cmd.SetContext(ctx)
				cobra.OnFinalize(cancel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", configDescription)
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().Int("timeout", 0, "set a timeout for qgrepcode commands in seconds (default \"0\", no timeout is set)")
	rootCmd.PersistentFlags().String("engine", "", "regex engine (ecmascript, stdlib, re2)")

	rootCmd.AddCommand(newParseCmd(), newQueryCmd(), newVersionCmd())
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if strings.Contains(err.Error(), "unknown flag") {
			// exit code 126: Command invoked cannot execute
			os.Exit(126)
		}
		logging.Fatal().Msg(err.Error())
	}
}

func initLog(cmd *cobra.Command) error {
	ll, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}

	logLevel := zerolog.InfoLevel
	switch strings.ToLower(ll) {
	case "trace":
		logLevel = zerolog.TraceLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "err", "error":
		logLevel = zerolog.ErrorLevel
	case "fatal":
		logLevel = zerolog.FatalLevel
	default:
		logging.Warn().Msgf("unknown log level: %s", ll)
	}
	logging.Logger = logging.Logger.Level(logLevel)
	return nil
}

// loadConfig resolves the config file, applies the flags that were set on
// the command line and selects the regex engine.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, source, err := config.Load(cfgPath, ".")
	if err != nil {
		return config.Config{}, fmt.Errorf("unable to load config: %w", err)
	}
	logging.Debug().Str("source", source).Msg("loaded config")

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("encoding") {
		cfg.Encoding, _ = flags.GetString("encoding")
	}
	if flags.Changed("end-column") {
		v, _ := flags.GetString("end-column")
		if err := cfg.EndColumn.UnmarshalText([]byte(v)); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("max-results") {
		cfg.MaxResults, _ = flags.GetInt("max-results")
	}
	if flags.Changed("on-malformed") {
		v, _ := flags.GetString("on-malformed")
		if err := cfg.OnMalformed.UnmarshalText([]byte(v)); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("report-format") {
		cfg.Report.Format, _ = flags.GetString("report-format")
	}
	if flags.Changed("preview-width") {
		cfg.Report.PreviewWidth, _ = flags.GetInt("preview-width")
	}
	if flags.Changed("no-color") {
		cfg.Report.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("project") {
		cfg.Query.Project, _ = flags.GetString("project")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	regexp.SetEngine(cfg.Engine)
	logging.Debug().Msgf("using %s regex engine", regexp.Version())
	return cfg, nil
}

// reportWriter opens the report destination; "-" or "" is the command's
// output.
func reportWriter(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func bytesConvert(bytes uint64) string {
	unit := ""
	value := float32(bytes)

	switch {
	case bytes >= GIGABYTE:
		unit = "GB"
		value = value / GIGABYTE
	case bytes >= MEGABYTE:
		unit = "MB"
		value = value / MEGABYTE
	case bytes >= KILOBYTE:
		unit = "KB"
		value = value / KILOBYTE
	case bytes >= BYTE:
		unit = "bytes"
	case bytes == 0:
		return "0"
	}

	stringValue := strings.TrimSuffix(
		fmt.Sprintf("%.2f", value), ".00",
	)

	return fmt.Sprintf("%s %s", stringValue, unit)
}

func FormatDuration(d time.Duration) string {
	scale := 100 * time.Second
	// look for the max scale that is smaller than d
	for scale > d {
		scale = scale / 10
	}
	return d.Round(scale / 100).String()
}
