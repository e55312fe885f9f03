package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invoicer-dev/invoicer/internal/config"
	"github.com/invoicer-dev/invoicer/internal/model"
)

type initOptions struct {
	name     string
	email    string
	address  string
	currency string
	force    bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default invoicer.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			path, err := runInit(absDir, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "business name")
	cmd.Flags().StringVar(&opts.email, "email", "", "business billing email")
	cmd.Flags().StringVar(&opts.address, "address", "", "business address")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "default currency symbol or code")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(dir string, opts initOptions) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !opts.force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	if opts.name != "" {
		cfg.Business.Name = opts.name
	}
	if opts.email != "" {
		cfg.Business.Email = opts.email
	}
	if opts.address != "" {
		cfg.Business.Address = opts.address
	}
	if opts.currency != "" {
		c, ok := model.ResolveCurrency(opts.currency)
		if !ok {
			return "", fmt.Errorf("unknown currency %q", opts.currency)
		}
		cfg.Invoice.Currency = c.Symbol
	}

	if err := config.Save(path, cfg); err != nil {
		return "", err
	}
	return path, nil
}
