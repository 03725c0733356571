package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qgrepcode/qgrepcode/query"
	"github.com/qgrepcode/qgrepcode/regexp"
)

func newQueryCmd() *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query <pattern>",
		Short: "print the pattern and command line qgrep is given for a search",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}
	queryCmd.Flags().BoolP("regex", "e", false, "treat the pattern as a regular expression")
	queryCmd.Flags().BoolP("word", "w", false, "match whole words only")
	queryCmd.Flags().BoolP("case-sensitive", "s", false, "match case")
	queryCmd.Flags().StringP("project", "p", "", "qgrep project to search")
	queryCmd.Flags().StringArray("sample", nil, "text to try the processed pattern on, can be repeated")
	return queryCmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	q := query.Query{Pattern: args[0]}
	q.IsRegExp, _ = flags.GetBool("regex")
	q.IsWordMatch, _ = flags.GetBool("word")
	q.IsCaseSensitive, _ = flags.GetBool("case-sensitive")

	processed, err := query.Process(q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	argv := query.ToolArgs(cfg.Query.Project, q, processed)
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = strconv.Quote(a)
	}
	fmt.Fprintf(out, "%-8s %s\n", "pattern:", processed.Pattern)
	fmt.Fprintf(out, "%-8s %t\n", "regex:", processed.IsRegex)
	fmt.Fprintf(out, "%-8s %s\n", "argv:", strings.Join(quoted, " "))

	samples, _ := flags.GetStringArray("sample")
	if len(samples) == 0 {
		return nil
	}

	// literal searches are matched as escaped text locally
	expr := processed.Pattern
	if !processed.IsRegex {
		expr = query.EscapeRegExpCharacters(expr)
	}
	re, err := regexp.Compile(expr, regexp.Options{IgnoreCase: !q.IsCaseSensitive})
	if err != nil {
		return err
	}
	for _, sample := range samples {
		fmt.Fprintf(out, "%-8s %q %v\n", "sample:", sample, re.FindAllStringIndex(sample, -1))
	}
	return nil
}
