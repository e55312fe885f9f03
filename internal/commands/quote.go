package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/invoicer-dev/invoicer/internal/export"
	"github.com/invoicer-dev/invoicer/internal/exportlog"
	"github.com/invoicer-dev/invoicer/internal/id"
	"github.com/invoicer-dev/invoicer/internal/importer"
	"github.com/invoicer-dev/invoicer/internal/invoice"
	"github.com/invoicer-dev/invoicer/internal/lineitem"
	"github.com/invoicer-dev/invoicer/internal/model"
	"github.com/invoicer-dev/invoicer/internal/render"
)

type quoteOptions struct {
	fields    map[string]*string
	items     []string
	itemsFile string
	markPaid  bool
	currency  string
	format    string
	outDir    string
}

// quoteFieldFlags maps flag names onto the header and rate fields they set.
var quoteFieldFlags = []struct {
	flag  string
	field invoice.Field
	usage string
}{
	{"number", invoice.FieldInvoiceNumber, "invoice number (generated when omitted)"},
	{"issue-date", invoice.FieldIssueDate, "issue date (default today)"},
	{"due-date", invoice.FieldDueDate, "due date (default today + due_days)"},
	{"bill-to", invoice.FieldBillTo, "customer name"},
	{"bill-to-email", invoice.FieldBillToEmail, "customer email"},
	{"bill-to-address", invoice.FieldBillToAddress, "customer address"},
	{"bill-from", invoice.FieldBillFrom, "business name (default from config)"},
	{"bill-from-email", invoice.FieldBillFromEmail, "business email (default from config)"},
	{"bill-from-address", invoice.FieldBillFromAddress, "business address (default from config)"},
	{"notes", invoice.FieldNotes, "notes printed at the bottom"},
	{"tax", invoice.FieldTaxRate, "tax rate in percent"},
	{"discount", invoice.FieldDiscountRate, "discount rate in percent"},
	{"paid", invoice.FieldAmountPaid, "amount already paid"},
}

func newQuoteCommand(g *globalOptions) *cobra.Command {
	opts := quoteOptions{fields: make(map[string]*string, len(quoteFieldFlags))}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Build an invoice from flags, print it and optionally export it",
		Example: `  invoicer quote --bill-to "Acme Corp" --bill-to-email ap@acme.test \
    --bill-to-address "1 Market St" --item "Design|Landing page|450|2" --tax 8.25
  invoicer quote --items items.csv --mark-paid --export pdf --out exports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, g, opts)
		},
	}

	for _, f := range quoteFieldFlags {
		opts.fields[f.flag] = cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().StringArrayVar(&opts.items, "item", nil, `line item as "name|description|price|quantity" (repeatable)`)
	cmd.Flags().StringVar(&opts.itemsFile, "items", "", "CSV file of line items ("+importer.Header+")")
	cmd.Flags().BoolVar(&opts.markPaid, "mark-paid", false, "set the amount paid to the total")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "currency symbol or code")
	cmd.Flags().StringVar(&opts.format, "export", "", "review and export as pdf or xlsx")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "export directory (default from config)")

	return cmd
}

func runQuote(cmd *cobra.Command, g *globalOptions, opts quoteOptions) error {
	cfg, logger, err := g.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s := invoice.NewSession(cfg.SessionDefaults(), invoice.WithLogger(logger))

	items, err := collectItems(opts.itemsFile, opts.items, id.NewItemID)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		if err := s.ReplaceItems(items); err != nil {
			return err
		}
	}

	for _, f := range quoteFieldFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		if err := s.EditField(f.field, *opts.fields[f.flag]); err != nil {
			return err
		}
	}
	if opts.currency != "" {
		if err := s.ChangeCurrency(opts.currency); err != nil {
			return err
		}
	}
	if opts.markPaid {
		if err := s.MarkAsPaid(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.format == "" {
		fmt.Fprint(out, render.Text(render.Build(s.State().Draft())))
		return nil
	}

	registry := export.DefaultRegistry(cfg.Business.LogoPath)
	e := registry.Get(opts.format)
	if e == nil {
		return fmt.Errorf("unknown export format %q (want one of %s)", opts.format, strings.Join(registry.Formats(), ", "))
	}

	snap, err := s.RequestReview()
	if err != nil {
		return fmt.Errorf("invoice not ready for export: %w", err)
	}
	preview := render.Build(snap)
	fmt.Fprint(out, render.Text(preview))

	dir := opts.outDir
	if dir == "" {
		dir = cfg.Export.Dir
	}
	path, err := export.Save(cmd.Context(), e, preview, dir)
	if err != nil {
		return err
	}
	if err := exportlog.Append(dir, exportlog.NewEntry(time.Now(), preview, e.Format(), path)); err != nil {
		logger.WithError(err).Warn("writing export log")
	}
	fmt.Fprintf(out, "\nSaved %s\n", path)
	return nil
}

// collectItems reads items from a CSV file and then from --item values, in
// that order.
func collectItems(file string, values []string, newID id.Generator) ([]model.LineItem, error) {
	var items []model.LineItem
	if file != "" {
		fromFile, err := importer.ReadItemsFile(file, newID)
		if err != nil {
			return nil, err
		}
		items = append(items, fromFile...)
	}
	for _, value := range values {
		item, err := parseItemFlag(value, newID())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// parseItemFlag reads "name|description|price|quantity". Trailing parts may be
// omitted; omitted price and quantity keep the new-row defaults.
func parseItemFlag(value, itemID string) (model.LineItem, error) {
	parts := strings.Split(value, "|")
	if len(parts) > 4 {
		return model.LineItem{}, fmt.Errorf("parsing --item %q: want at most 4 parts separated by |", value)
	}
	fields := []lineitem.Field{lineitem.FieldName, lineitem.FieldDescription, lineitem.FieldPrice, lineitem.FieldQuantity}
	item := lineitem.New(itemID)
	for i, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			item = lineitem.Set(item, fields[i], v)
		}
	}
	return item, nil
}
