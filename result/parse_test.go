package result

import (
	"errors"
	"testing"

	"github.com/qgrepcode/qgrepcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want qgrepcode.MatchRecord
	}{
		{
			name: "drive letter path",
			line: `C:\foo\bar.txt:12:3:7:some preview text`,
			want: qgrepcode.MatchRecord{
				FilePath:    `C:\foo\bar.txt`,
				LineNumber:  12,
				StartColumn: 3,
				EndColumn:   7,
				PreviewText: "some preview text",
			},
		},
		{
			name: "empty preview",
			line: "/home/x/y.txt:1:1:1:",
			want: qgrepcode.MatchRecord{FilePath: "/home/x/y.txt", LineNumber: 1, StartColumn: 1, EndColumn: 1},
		},
		{
			name: "preview with colons",
			line: "src/a.go:40:10:14:\tm := map[string]int{\"a:b\": 1}",
			want: qgrepcode.MatchRecord{
				FilePath:    "src/a.go",
				LineNumber:  40,
				StartColumn: 10,
				EndColumn:   14,
				PreviewText: "\tm := map[string]int{\"a:b\": 1}",
			},
		},
		{
			name: "drive letter with colons in preview",
			line: `D:\x.cpp:7:1:5:std::string s;`,
			want: qgrepcode.MatchRecord{
				FilePath:    `D:\x.cpp`,
				LineNumber:  7,
				StartColumn: 1,
				EndColumn:   5,
				PreviewText: "std::string s;",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.line, FormatLine(got))
		})
	}
}

func TestParseLineMalformed(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{name: "no colons", line: "no-colons-here", reason: "found 0"},
		{name: "empty", line: "", reason: "found 0"},
		{name: "too few fields", line: "/a/b.txt:1:2:", reason: "found 3"},
		{name: "drive letter hides a separator", line: `C:\a.txt:1:2:3`, reason: "found 3"},
		{name: "single character path reads as a drive letter", line: "a:3:2:4:abc", reason: "found 3"},
		{name: "line number not numeric", line: "/a:x:1:2:pre", reason: `line number "x"`},
		{name: "start column not numeric", line: "/a:1:1.5:2:pre", reason: `start column "1.5"`},
		{name: "end column empty", line: "/a:1:1::pre", reason: `end column ""`},
		{name: "zero line number", line: "/a:0:1:2:pre", reason: "line number 0"},
		{name: "negative column", line: "/a:1:-3:2:pre", reason: "start column -3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedLine)

			var mle *MalformedLineError
			require.True(t, errors.As(err, &mle))
			assert.Equal(t, tt.line, mle.Line)
			assert.Contains(t, mle.Reason, tt.reason)
		})
	}
}
