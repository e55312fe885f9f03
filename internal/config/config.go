// Package config loads and saves invoicer.yaml.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/invoicer-dev/invoicer/internal/id"
	"github.com/invoicer-dev/invoicer/internal/invoice"
	"github.com/invoicer-dev/invoicer/internal/model"
)

// FileName is the default config file name.
const FileName = "invoicer.yaml"

// Config represents the top-level invoicer.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Invoice  InvoiceConfig  `yaml:"invoice"`
	Export   ExportConfig   `yaml:"export"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig is the "bill from" party printed on every invoice.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Address  string `yaml:"address"`
	LogoPath string `yaml:"logo_path,omitempty"`
}

// InvoiceConfig seeds new invoices.
type InvoiceConfig struct {
	Currency     string `yaml:"currency"` // symbol or ISO code
	Notes        string `yaml:"notes"`
	TaxRate      string `yaml:"tax_rate"`
	DiscountRate string `yaml:"discount_rate"`
	NumberPrefix string `yaml:"number_prefix"`
	DueDays      int    `yaml:"due_days"`
}

// ExportConfig controls where and how invoices are written.
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // pdf or xlsx
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Load reads an invoicer.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, ok := model.ResolveCurrency(cfg.Invoice.Currency); !ok {
		return nil, fmt.Errorf("parsing config: unknown currency %q", cfg.Invoice.Currency)
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to Default when the file does not
// exist. Any other error is returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with placeholder business details.
func Default() *Config {
	return &Config{
		Business: BusinessConfig{
			Name:    "Your Company Name",
			Email:   "billing@yourcompany.com",
			Address: "123 Main St, City, Country",
		},
		Invoice: InvoiceConfig{
			Currency:     model.DefaultCurrencySymbol,
			Notes:        "Thank you for your business!",
			TaxRate:      "0",
			DiscountRate: "0",
			NumberPrefix: id.DefaultInvoicePrefix,
			DueDays:      30,
		},
		Export: ExportConfig{
			Dir:    ".",
			Format: "pdf",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// SessionDefaults maps the config onto the seed for a new invoice session.
func (c *Config) SessionDefaults() invoice.Defaults {
	return invoice.Defaults{
		NumberPrefix:    c.Invoice.NumberPrefix,
		DueDays:         c.Invoice.DueDays,
		BillFrom:        c.Business.Name,
		BillFromEmail:   c.Business.Email,
		BillFromAddress: c.Business.Address,
		Notes:           c.Invoice.Notes,
		Currency:        c.Invoice.Currency,
		TaxRate:         c.Invoice.TaxRate,
		DiscountRate:    c.Invoice.DiscountRate,
	}
}
