package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/invoicer-dev/invoicer/internal/render"
)

// SheetName is the worksheet that holds the invoice.
const SheetName = "Invoice"

// XLSX renders the invoice into a single worksheet.
type XLSX struct{}

func (x *XLSX) Format() string    { return "xlsx" }
func (x *XLSX) Extension() string { return "xlsx" }

// Export writes the workbook to w.
func (x *XLSX) Export(ctx context.Context, pv render.Preview, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	rows := [][]any{
		{pv.BillFrom.Name},
		{"Invoice #", pv.InvoiceNumber},
		{"Amount Due", pv.AmountDue},
		{},
		{"Billed to", pv.BillTo.Name, "Billed From", pv.BillFrom.Name},
		{"", pv.BillTo.Address, "", pv.BillFrom.Address},
		{"", pv.BillTo.Email, "", pv.BillFrom.Email},
		{"Issue Date", pv.IssueDate},
		{"Due Date", pv.DueDate},
		{"Payment Status", strings.ToUpper(string(pv.Status))},
		{},
		{"ITEM", "QTY", "PRICE", "AMOUNT"},
	}
	boldRows := map[int]bool{1: true, 12: true}
	for _, r := range pv.Rows {
		rows = append(rows, []any{r.ItemLabel(), r.Quantity, r.Price, r.Amount})
	}
	rows = append(rows, []any{})
	for _, l := range pv.Summary {
		rows = append(rows, []any{"", "", l.Label, l.Value})
	}
	if pv.Notes != "" {
		rows = append(rows, []any{}, []any{pv.Notes})
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		rowNum := i + 1
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("setting %s: %w", cell, err)
			}
		}
		if boldRows[rowNum] && len(row) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(row), rowNum)
			if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", rowNum), last, bold); err != nil {
				return fmt.Errorf("styling row %d: %w", rowNum, err)
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "D", 16); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
