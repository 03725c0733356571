package lines

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	unicodeenc "golang.org/x/text/encoding/unicode"
)

// feed writes every chunk to a fresh decoder and ends it.
func feed(t *testing.T, d *Decoder, chunks ...[]byte) []string {
	t.Helper()
	var got []string
	for _, c := range chunks {
		out, err := d.Write(c)
		require.NoError(t, err)
		got = append(got, out...)
	}
	out, err := d.End()
	require.NoError(t, err)
	return append(got, out...)
}

func TestLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single unterminated", input: "abc", want: []string{"abc"}},
		{name: "single terminated", input: "abc\n", want: []string{"abc"}},
		{name: "crlf", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "blank lines kept", input: "a\n\nb", want: []string{"a", "", "b"}},
		{name: "surrounding whitespace", input: "  a \t\n\tb  ", want: []string{"a", "b"}},
		{name: "mid line carriage return", input: "x\ry\n", want: []string{"x\ry"}},
		{name: "only newline", input: "\n", want: []string{""}},
		{name: "next line character kept", input: "\u0085a\u0085\n", want: []string{"\u0085a\u0085"}},
		{name: "byte order mark", input: "\uFEFFfirst\nsecond", want: []string{"first", "second"}},
		{name: "multibyte", input: "żółw:1\n€uro\n", want: []string{"żółw:1", "€uro"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lines([]byte(tt.input)))
		})
	}
}

func TestDecoderWriteEmitsCompletedLines(t *testing.T) {
	d := NewDecoder()

	out, err := d.Write([]byte("C:\\a.txt:1:1:2:he"))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "C:\\a.txt:1:1:2:he", d.Remainder())

	out, err = d.Write([]byte("llo\r\n/b:2:1:1:x\n/c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"C:\\a.txt:1:1:2:hello", "/b:2:1:1:x"}, out)
	assert.Equal(t, "/c", d.Remainder())

	out, err = d.Write(nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = d.Write([]byte("\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/c"}, out)
	assert.Empty(t, d.Remainder())

	out, err = d.End()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDecoderChunkBoundaries(t *testing.T) {
	input := []byte("src/main.go:10:5:9:func main() {\r\n" +
		"C:\\dir\\naïve.txt:2:1:4:naïve café ☕\n" +
		"\n" +
		"/tmp/x:3:2:3:emoji 🙂 here\r\n" +
		"trailing line without newline")
	want := Lines(input)
	require.Len(t, want, 5)

	t.Run("every two-way split", func(t *testing.T) {
		for i := 1; i < len(input); i++ {
			got := feed(t, NewDecoder(), input[:i], input[i:])
			require.Equal(t, want, got, "split at %d", i)
		}
	})

	t.Run("one byte at a time", func(t *testing.T) {
		chunks := make([][]byte, len(input))
		for i := range input {
			chunks[i] = input[i : i+1]
		}
		assert.Equal(t, want, feed(t, NewDecoder(), chunks...))
	})

	t.Run("random splits", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		for iter := 0; iter < 200; iter++ {
			var chunks [][]byte
			for rest := input; len(rest) > 0; {
				n := 1 + rng.Intn(len(rest))
				chunks = append(chunks, rest[:n])
				rest = rest[n:]
			}
			require.Equal(t, want, feed(t, NewDecoder(), chunks...))
		}
	})
}

func TestDecoderSplitMultibyteCharacter(t *testing.T) {
	for _, r := range []string{"é", "€", "🙂"} {
		b := []byte(r + "\n")
		for i := 1; i < len(r); i++ {
			got := feed(t, NewDecoder(), b[:i], b[i:])
			assert.Equal(t, []string{r}, got, "%q split at %d", r, i)
		}
	}
}

func TestDecoderInvalidBytes(t *testing.T) {
	got := feed(t, NewDecoder(), []byte{'a', 0xff, 'b', '\n', 'c'})
	assert.Equal(t, []string{"a\uFFFDb", "c"}, got)
}

func TestDecoderEndFlushesPartialCharacter(t *testing.T) {
	got := feed(t, NewDecoder(), []byte{'a', 0xE2, 0x82})
	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0], "a"))
	assert.Contains(t, got[0], "\uFFFD")
}

func TestDecoderAfterEnd(t *testing.T) {
	d := NewDecoder()
	_, err := d.End()
	require.NoError(t, err)

	_, err = d.Write([]byte("late\n"))
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = d.End()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDecoderUTF16(t *testing.T) {
	enc := unicodeenc.UTF16(unicodeenc.LittleEndian, unicodeenc.IgnoreBOM)
	encoded, err := enc.NewEncoder().Bytes([]byte("first line\r\nsecond line\r\nthird ☕"))
	require.NoError(t, err)

	chunks := make([][]byte, len(encoded))
	for i := range encoded {
		chunks[i] = encoded[i : i+1]
	}
	got := feed(t, NewDecoder(WithEncoding(enc)), chunks...)
	assert.Equal(t, []string{"first line", "second line", "third ☕"}, got)
}

func TestLookupEncoding(t *testing.T) {
	enc, err := LookupEncoding("windows-1252")
	require.NoError(t, err)
	assert.Equal(t, []string{"€10"}, feed(t, NewDecoder(WithEncoding(enc)), []byte{0x80, '1', '0', '\n'}))

	enc, err = LookupEncoding("")
	require.NoError(t, err)
	assert.Equal(t, unicodeenc.UTF8, enc)

	_, err = LookupEncoding("no-such-charset")
	assert.Error(t, err)
}
