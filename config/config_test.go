package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qgrepcode/qgrepcode"
)

const sampleTOML = `
encoding = "windows-1252"
end_column = "Verbatim"
max_results = 500
on_malformed = "abort"
engine = "re2"
concurrency = 2

[report]
format = "json"
preview_width = 80
no_color = true

[query]
project = "engine"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML))
	require.NoError(t, err)
	assert.Equal(t, Config{
		Encoding:    "windows-1252",
		EndColumn:   qgrepcode.EndColumnVerbatim,
		MaxResults:  500,
		OnMalformed: MalformedAbort,
		Engine:      "re2",
		Concurrency: 2,
		Report:      Report{Format: "json", PreviewWidth: 80, NoColor: true},
		Query:       Query{Project: "engine"},
	}, cfg)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("max_results = 10\n[query]\nproject = \"p\"\n"))
	require.NoError(t, err)

	want := Default()
	want.MaxResults = 10
	want.Query.Project = "p"
	assert.Equal(t, want, cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad toml", content: "max_results = [", wantErr: "parse config"},
		{name: "unknown key", content: "colour = true", wantErr: "decode config"},
		{name: "bad policy", content: `on_malformed = "maybe"`, wantErr: "unknown malformed line policy"},
		{name: "bad end column", content: `end_column = "x"`, wantErr: "unknown end column mode"},
		{name: "invalid value", content: "concurrency = 0", wantErr: "concurrency must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(local, []byte("max_results = 1\n"), 0o600))
	explicit := filepath.Join(dir, "explicit.toml")
	require.NoError(t, os.WriteFile(explicit, []byte("max_results = 2\n"), 0o600))
	fromEnv := filepath.Join(dir, "env.toml")
	require.NoError(t, os.WriteFile(fromEnv, []byte("max_results = 3\n"), 0o600))

	t.Setenv(EnvPath, "")
	t.Setenv(EnvTOML, "")

	cfg, src, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, local, src)
	assert.Equal(t, 1, cfg.MaxResults)

	t.Setenv(EnvTOML, "max_results = 4\n")
	cfg, src, err = Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, EnvTOML, src)
	assert.Equal(t, 4, cfg.MaxResults)

	t.Setenv(EnvPath, fromEnv)
	cfg, src, err = Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, fromEnv, src)
	assert.Equal(t, 3, cfg.MaxResults)

	cfg, src, err = Load(explicit, dir)
	require.NoError(t, err)
	assert.Equal(t, explicit, src)
	assert.Equal(t, 2, cfg.MaxResults)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv(EnvTOML, "")

	cfg, src, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "default", src)
	assert.Equal(t, Default(), cfg)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
