package regexp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEngine(t *testing.T, name string) {
	t.Helper()
	prev := Version()
	SetEngine(name)
	t.Cleanup(func() { SetEngine(prev) })
}

func TestEnginesAgreeOnByteOffsets(t *testing.T) {
	for _, name := range Engines() {
		t.Run(name, func(t *testing.T) {
			withEngine(t, name)

			re, err := Compile(`b+`, Options{})
			require.NoError(t, err)
			assert.Equal(t, name, re.Engine())
			// é and € are multi-byte, so rune and byte offsets differ.
			assert.Equal(t, [][]int{{2, 4}, {7, 8}}, re.FindAllStringIndex("ébb€b", -1))
			assert.Equal(t, [][]int{{2, 4}}, re.FindAllStringIndex("ébb€b", 1))
			assert.Nil(t, re.FindAllStringIndex("ébb€b", 0))
			assert.Nil(t, re.FindAllStringIndex("none", -1))
		})
	}
}

func TestCompileOptions(t *testing.T) {
	for _, name := range Engines() {
		t.Run(name, func(t *testing.T) {
			withEngine(t, name)

			re, err := Compile(`^foo$`, Options{IgnoreCase: true, Multiline: true})
			require.NoError(t, err)
			assert.True(t, re.MatchString("bar\nFOO\nbaz"))
			assert.Equal(t, "^foo$", re.String())
			assert.Equal(t, "im", re.Flags())

			re, err = Compile(`^foo$`, Options{})
			require.NoError(t, err)
			assert.False(t, re.MatchString("bar\nFOO\nbaz"))
		})
	}
}

func TestECMAScriptLookaround(t *testing.T) {
	withEngine(t, ECMAScript)

	re, err := Compile(`(?<=\n)x(?!y)`, Options{})
	require.NoError(t, err)
	assert.True(t, re.MatchString("a\nxz"))
	assert.False(t, re.MatchString("a\nxy"))
	assert.False(t, re.MatchString("ax"))

	// lookbehind is not RE2 syntax
	withEngine(t, Stdlib)
	_, err = Compile(`(?<=\n)x`, Options{})
	assert.Error(t, err)
}

func TestECMAScriptSubmatch(t *testing.T) {
	withEngine(t, ECMAScript)

	re := MustCompile(`(\w+)@(\w+)`)
	assert.Equal(t, 2, re.NumSubexp())
	assert.Equal(t, []string{"me@host", "me", "host"}, re.FindStringSubmatch("mail me@host now"))
	assert.Equal(t, "me@host", re.FindString("mail me@host now"))
	assert.Equal(t, "mail host@me now", re.ReplaceAllString("mail me@host now", "$2@$1"))
	assert.Nil(t, re.FindStringSubmatch("nothing"))
}

func TestFlags(t *testing.T) {
	re, err := Compile(`a`, Options{Global: true, IgnoreCase: true, Unicode: true})
	require.NoError(t, err)
	assert.Equal(t, "giu", re.Flags())
}

func TestSetEngineUnknown(t *testing.T) {
	assert.Panics(t, func() { SetEngine("pcre") })
	assert.Panics(t, func() { MustCompile(`(`) })
}
