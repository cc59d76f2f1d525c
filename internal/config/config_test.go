package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariants(t *testing.T) {
	t.Run("snr is the default", func(t *testing.T) {
		cfg, err := ForVariant("")
		require.NoError(t, err)
		assert.Equal(t, VariantSNR, cfg.Variant)
		assert.Equal(t, []string{"Modulation", "SNR_dB", "BER"}, cfg.RequiredColumns())
		assert.Equal(t, 1e-9, cfg.Bounds.FloorBER)
		assert.Equal(t, 0.1, cfg.Bounds.LowerScale)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("noise variance swaps column and labels only", func(t *testing.T) {
		cfg, err := ForVariant("noise")
		require.NoError(t, err)
		def := DefaultConfig()
		assert.Equal(t, []string{"Modulation", "NoiseVariance", "BER"}, cfg.RequiredColumns())
		assert.Equal(t, "BER vs. Noise Variance", cfg.Chart.Title)
		assert.Equal(t, def.Bounds, cfg.Bounds)
		assert.Equal(t, def.Chart.Palette, cfg.Chart.Palette)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := ForVariant("evm")
		assert.Error(t, err)
	})
}

func TestDefaultPaletteIsACopy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chart.Palette[0] = "#000000"
	assert.Equal(t, "#00FFFF", BrightPalette[0])
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		fallback string
		want     string
	}{
		{"explicit fallback wins", "../build/a.csv", "/tmp/b.csv", "/tmp/b.csv"},
		{"derived from build dir", "../build/simulation_results_snr.csv", "", filepath.Join("..", "simulation_results_snr.csv")},
		{"nested output dir", filepath.Join("out", "build", "r.csv"), "", filepath.Join("out", "r.csv")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Input.PrimaryPath = tt.primary
			cfg.Input.FallbackPath = tt.fallback
			assert.Equal(t, tt.want, cfg.Fallback())
		})
	}
	assert.Equal(t, "", DeriveFallback(""))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays only the given keys", func(t *testing.T) {
		path := filepath.Join(dir, "ok.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
input:
  primary_path: results/build/ber.csv
bounds:
  floor_ber: 1.0e-12
chart:
  theme: default
  palette: ["#112233"]
output:
  save: true
  path: out.png
`), 0o644))

		cfg, err := Load(path, NoiseVarianceConfig())
		require.NoError(t, err)
		assert.Equal(t, "results/build/ber.csv", cfg.Input.PrimaryPath)
		assert.Equal(t, "NoiseVariance", cfg.Input.XColumn)
		assert.Equal(t, 1e-12, cfg.Bounds.FloorBER)
		assert.Equal(t, 0.1, cfg.Bounds.LowerScale)
		assert.Equal(t, "default", cfg.Chart.Theme)
		assert.Equal(t, []string{"#112233"}, cfg.Chart.Palette)
		assert.True(t, cfg.Output.Save)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		path := filepath.Join(dir, "typo.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bounds:\n  flor_ber: 1\n"), 0o644))
		_, err := Load(path, DefaultConfig())
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.yaml"), DefaultConfig())
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero floor", func(c *Config) { c.Bounds.FloorBER = 0 }},
		{"negative scale", func(c *Config) { c.Bounds.LowerScale = -1 }},
		{"zero safety minimum", func(c *Config) { c.Bounds.LowerMin = 0 }},
		{"upper below minimum", func(c *Config) { c.Bounds.Upper = 1e-8 }},
		{"empty palette", func(c *Config) { c.Chart.Palette = nil }},
		{"zero dpi", func(c *Config) { c.Chart.DPI = 0 }},
		{"zero width", func(c *Config) { c.Chart.WidthInches = 0 }},
		{"bad legend corner", func(c *Config) { c.Chart.LegendPosition = "center" }},
		{"save without path", func(c *Config) { c.Output.Save = true; c.Output.Path = "" }},
		{"no primary path", func(c *Config) { c.Input.PrimaryPath = "" }},
		{"no x column", func(c *Config) { c.Input.XColumn = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
