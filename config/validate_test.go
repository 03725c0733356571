package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "unknown encoding",
			mutate:  func(c *Config) { c.Encoding = "klingon" },
			wantErr: `unknown encoding "klingon"`,
		},
		{
			name:    "unknown end column mode",
			mutate:  func(c *Config) { c.EndColumn = "sideways" },
			wantErr: `unknown end_column "sideways"`,
		},
		{
			name:    "unknown malformed policy",
			mutate:  func(c *Config) { c.OnMalformed = "ignore" },
			wantErr: `unknown on_malformed "ignore"`,
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.Engine = "pcre" },
			wantErr: `unknown engine "pcre"`,
		},
		{
			name:    "negative max results",
			mutate:  func(c *Config) { c.MaxResults = -1 },
			wantErr: "max_results must not be negative",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: "concurrency must be at least 1",
		},
		{
			name:    "unknown report format",
			mutate:  func(c *Config) { c.Report.Format = "junit" },
			wantErr: `unknown report format "junit"`,
		},
		{
			name:    "negative preview width",
			mutate:  func(c *Config) { c.Report.PreviewWidth = -5 },
			wantErr: "preview_width must not be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
