package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qgrepcode/qgrepcode"
	"github.com/qgrepcode/qgrepcode/config"
)

const expectPath = "../testdata/expected/"

var lineEndingReplacer = strings.NewReplacer("\r\n", "\n", "\r", "")

var simpleRecords = []qgrepcode.MatchRecord{
	{FilePath: `C:\src\main.cpp`, LineNumber: 12, StartColumn: 3, EndColumn: 7, PreviewText: "int main() {"},
	{FilePath: "/home/x/y.txt", LineNumber: 1, StartColumn: 1, EndColumn: 1},
	{FilePath: "src/a.go", LineNumber: 40, StartColumn: 10, EndColumn: 14, PreviewText: `m := map[string]int{"a:b": 1}`},
}

// writeReport runs reporter into a temp file and returns what was written.
func writeReport(t *testing.T, reporter qgrepcode.Reporter, records []qgrepcode.MatchRecord) string {
	t.Helper()
	tmpfile, err := os.Create(filepath.Join(t.TempDir(), "report"))
	require.NoError(t, err)
	defer tmpfile.Close()

	require.NoError(t, reporter.Write(tmpfile, records))
	got, err := os.ReadFile(tmpfile.Name())
	require.NoError(t, err)
	return lineEndingReplacer.Replace(string(got))
}

func readExpected(t *testing.T, name string) string {
	t.Helper()
	want, err := os.ReadFile(filepath.Join(expectPath, "report", name))
	require.NoError(t, err)
	return lineEndingReplacer.Replace(string(want))
}

func TestNew(t *testing.T) {
	tests := []struct {
		format string
		want   qgrepcode.Reporter
	}{
		{"text", &TextReporter{EndColumn: qgrepcode.EndColumnVerbatim, PreviewWidth: 50, NoColor: true}},
		{"json", &JsonReporter{EndColumn: qgrepcode.EndColumnVerbatim}},
		{"csv", &CsvReporter{}},
		{"qgrep", &QgrepReporter{}},
		{"sarif", &SarifReporter{EndColumn: qgrepcode.EndColumnVerbatim}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg := config.Default()
			cfg.EndColumn = qgrepcode.EndColumnVerbatim
			cfg.Report = config.Report{Format: tt.format, PreviewWidth: 50, NoColor: true}

			got, err := New(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	cfg := config.Default()
	cfg.Report.Format = "junit"
	_, err := New(cfg)
	assert.ErrorContains(t, err, `unknown report format "junit"`)
}

func TestWriteQgrep(t *testing.T) {
	got := writeReport(t, &QgrepReporter{}, simpleRecords)
	assert.Equal(t, readExpected(t, "qgrep_simple.txt"), got)
}
