package harvest_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := harvest.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"upr.edu.cu"}, cfg.AllowedDomains)
	assert.Len(t, cfg.Seeds, 3)
	assert.ElementsMatch(t, harvest.DefaultDenyExtensions, cfg.DenyExtensions)
	assert.Equal(t, "data.json", cfg.Output)
}

func TestDefaultConfig_DenyExtensionsAreCopied(t *testing.T) {
	t.Parallel()

	cfg := harvest.DefaultConfig()
	cfg.DenyExtensions[0] = "changed"

	assert.Equal(t, "rar", harvest.DefaultDenyExtensions[0])
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(c *harvest.Config)
	}{
		{"no domains", func(c *harvest.Config) { c.AllowedDomains = nil }},
		{"no seeds", func(c *harvest.Config) { c.Seeds = nil }},
		{"seed without scheme", func(c *harvest.Config) { c.Seeds = []string{"www.upr.edu.cu"} }},
		{"ftp seed", func(c *harvest.Config) { c.Seeds = []string{"ftp://upr.edu.cu/"} }},
		{"negative concurrency", func(c *harvest.Config) { c.Concurrency = -1 }},
		{"negative depth", func(c *harvest.Config) { c.MaxDepth = -2 }},
		{"negative rate", func(c *harvest.Config) { c.RequestsPerSecond = -1 }},
		{"unknown format", func(c *harvest.Config) { c.Format = "xml" }},
		{"unknown fetcher", func(c *harvest.Config) { c.Fetcher = "rod" }},
		{"empty output", func(c *harvest.Config) { c.Output = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := harvest.DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
		})
	}
}

func TestConfig_Validate_NegativeMaxPagesMeansUnbounded(t *testing.T) {
	t.Parallel()

	cfg := harvest.DefaultConfig()
	cfg.MaxPages = -1

	assert.NoError(t, cfg.Validate())
}
