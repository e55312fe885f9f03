package commands

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/invoicer-dev/invoicer/internal/export"
	"github.com/invoicer-dev/invoicer/internal/id"
	"github.com/invoicer-dev/invoicer/internal/invoice"
	"github.com/invoicer-dev/invoicer/internal/tui"
)

func newEditCommand(g *globalOptions) *cobra.Command {
	var itemsFile string
	var logFile string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit an invoice interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, g, itemsFile, logFile)
		},
	}

	cmd.Flags().StringVar(&itemsFile, "items", "", "CSV file of line items to start with")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (the terminal is busy)")

	return cmd
}

func runEdit(cmd *cobra.Command, g *globalOptions, itemsFile, logFile string) error {
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	cfg, logger, err := g.load(logOut)
	if err != nil {
		return err
	}
	s := invoice.NewSession(cfg.SessionDefaults(), invoice.WithLogger(logger))

	items, err := collectItems(itemsFile, nil, id.NewItemID)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		if err := s.ReplaceItems(items); err != nil {
			return err
		}
	}

	editor := tui.NewEditor(s, tui.Options{
		Exporters: export.DefaultRegistry(cfg.Business.LogoPath),
		ExportDir: cfg.Export.Dir,
		Logger:    logger,
	})
	p := tea.NewProgram(editor, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}
