package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qgrepcode/qgrepcode"
)

func TestWriteText(t *testing.T) {
	got := writeReport(t, &TextReporter{NoColor: true}, simpleRecords)
	assert.Equal(t,
		"C:\\src\\main.cpp:12:3: int main() {\n"+
			"/home/x/y.txt:1:1: \n"+
			"src/a.go:40:10: m := map[string]int{\"a:b\": 1}\n",
		got)
}

func TestTextPreview(t *testing.T) {
	long := strings.Repeat("x", 30) + "MATCH" + strings.Repeat("y", 30)
	tests := []struct {
		name     string
		reporter TextReporter
		rec      qgrepcode.MatchRecord
		want     string
	}{
		{
			name:     "fits",
			reporter: TextReporter{PreviewWidth: 100, NoColor: true},
			rec:      qgrepcode.MatchRecord{StartColumn: 31, EndColumn: 36, PreviewText: long},
			want:     long,
		},
		{
			name:     "shortened around the match",
			reporter: TextReporter{PreviewWidth: 40, NoColor: true},
			rec:      qgrepcode.MatchRecord{StartColumn: 31, EndColumn: 36, PreviewText: long},
			want:     "..." + strings.Repeat("x", 20) + "MATCH" + strings.Repeat("y", 9) + "...",
		},
		{
			name:     "leading indentation dropped when shortened",
			reporter: TextReporter{PreviewWidth: 10, NoColor: true},
			rec:      qgrepcode.MatchRecord{StartColumn: 3, EndColumn: 5, PreviewText: "\t\tif err != nil {"},
			want:     "if err ...",
		},
		{
			name:     "columns past the end are clamped",
			reporter: TextReporter{NoColor: true},
			rec:      qgrepcode.MatchRecord{StartColumn: 10, EndColumn: 20, PreviewText: "short"},
			want:     "short",
		},
		{
			name:     "wide characters",
			reporter: TextReporter{PreviewWidth: 8, NoColor: true},
			rec:      qgrepcode.MatchRecord{StartColumn: 1, EndColumn: 3, PreviewText: "日本語のテキスト"},
			want:     "日本...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reporter.preview(tt.rec))
		})
	}
}
