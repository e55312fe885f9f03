package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Business.Name = "Studio LLC"
	cfg.Business.LogoPath = "logo.png"
	cfg.Invoice.Currency = "€"
	cfg.Invoice.TaxRate = "8.25"
	cfg.Export.Format = "xlsx"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Your Company Name", cfg.Business.Name)
	assert.Equal(t, "billing@yourcompany.com", cfg.Business.Email)
	assert.Equal(t, "123 Main St, City, Country", cfg.Business.Address)
	assert.Empty(t, cfg.Business.LogoPath)
	assert.Equal(t, "$", cfg.Invoice.Currency)
	assert.Equal(t, "Thank you for your business!", cfg.Invoice.Notes)
	assert.Equal(t, "INV", cfg.Invoice.NumberPrefix)
	assert.Equal(t, 30, cfg.Invoice.DueDays)
	assert.Equal(t, "pdf", cfg.Export.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Acme\ninvoice:\n  currency: GBP\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", cfg.Business.Name)
	assert.Equal(t, "billing@yourcompany.com", cfg.Business.Email)
	assert.Equal(t, "GBP", cfg.Invoice.Currency)
	assert.Equal(t, 30, cfg.Invoice.DueDays)
}

func TestLoad_UnknownCurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("invoice:\n  currency: CHF\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHF")
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Your Company Name")
	assert.Contains(t, contents, "number_prefix: INV")
	assert.Contains(t, contents, "due_days: 30")
	assert.NotContains(t, contents, "logo_path")
}

func TestSessionDefaults(t *testing.T) {
	cfg := Default()
	cfg.Invoice.Currency = "INR"
	d := cfg.SessionDefaults()

	assert.Equal(t, "Your Company Name", d.BillFrom)
	assert.Equal(t, "INR", d.Currency)
	assert.Equal(t, "INV", d.NumberPrefix)
	assert.Equal(t, 30, d.DueDays)
	assert.Empty(t, d.InvoiceNumber)
}
