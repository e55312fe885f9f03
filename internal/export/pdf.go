package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	"github.com/invoicer-dev/invoicer/internal/render"
)

const (
	pageMargin   = 36.0
	lineHeight   = 16.0
	defaultLogoW = 160
	logoName     = "logo"
)

// PDF renders a US Letter portrait invoice.
type PDF struct {
	// LogoPath is an optional image placed in the header. It is resized to
	// LogoWidth pixels wide before embedding.
	LogoPath  string
	LogoWidth int
}

func (p *PDF) Format() string    { return "pdf" }
func (p *PDF) Extension() string { return "pdf" }

// Export writes the PDF document to w.
func (p *PDF) Export(ctx context.Context, pv render.Preview, w io.Writer) error {
	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetTitle("Invoice "+pv.InvoiceNumber, true)
	doc.SetCreator("invoicer", true)
	doc.AddPage()

	// Core fonts are cp1252; the rupee sign has no glyph there.
	tr := doc.UnicodeTranslatorFromDescriptor("")
	txt := func(s string) string { return tr(strings.ReplaceAll(s, "₹", "Rs.")) }

	pageW, _ := doc.GetPageSize()
	width := pageW - 2*pageMargin

	if p.LogoPath != "" {
		logo, err := loadLogo(p.LogoPath, p.LogoWidth)
		if err != nil {
			return err
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader(logoName, opts, logo)
		doc.ImageOptions(logoName, pageMargin, pageMargin, 80, 0, true, opts, 0, "")
		doc.Ln(8)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Header band.
	top := doc.GetY()
	doc.SetFillColor(245, 245, 245)
	doc.Rect(pageMargin, top, width, 56, "F")
	doc.SetXY(pageMargin+12, top+10)
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(width*0.6, 20, txt(pv.BillFrom.Name), "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(width*0.4-24, 20, "Amount Due:", "", 1, "R", false, 0, "")
	doc.SetX(pageMargin + 12)
	doc.SetTextColor(108, 117, 125)
	doc.CellFormat(width*0.6, lineHeight, txt("Invoice #: "+pv.InvoiceNumber), "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(width*0.4-24, lineHeight, txt(pv.AmountDue), "", 1, "R", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.SetY(top + 72)

	// Parties and dates in three columns.
	col := width / 3
	blocks := [][]string{
		{"Billed to:", pv.BillTo.Name, pv.BillTo.Address, pv.BillTo.Email},
		{"Billed From:", pv.BillFrom.Name, pv.BillFrom.Address, pv.BillFrom.Email},
		{"Issue Date: " + pv.IssueDate, "Due Date: " + pv.DueDate, "Payment Status: " + strings.ToUpper(string(pv.Status))},
	}
	y := doc.GetY()
	for i, lines := range blocks {
		doc.SetXY(pageMargin+float64(i)*col, y)
		for j, line := range lines {
			style := ""
			if j == 0 || i == 2 {
				style = "B"
			}
			doc.SetFont("Helvetica", style, 10)
			doc.SetX(pageMargin + float64(i)*col)
			doc.CellFormat(col, 14, txt(line), "", 2, "L", false, 0, "")
		}
	}
	doc.SetY(y + 4*14 + 12)

	// Item table.
	widths := []float64{width * 0.52, width * 0.10, width * 0.19, width * 0.19}
	doc.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"ITEM", "QTY", "PRICE", "AMOUNT"} {
		align := "R"
		if i < 2 {
			align = "L"
		}
		doc.CellFormat(widths[i], 20, h, "B", 0, align, false, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Helvetica", "", 10)
	for _, r := range pv.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc.CellFormat(widths[0], 20, txt(r.ItemLabel()), "B", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 20, r.Quantity, "B", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 20, txt(r.Price), "B", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 20, txt(r.Amount), "B", 1, "R", false, 0, "")
	}
	doc.Ln(6)

	// Totals.
	labelW := widths[0] + widths[1] + widths[2]
	for _, l := range pv.Summary {
		size := 10.0
		if l.Label == render.LabelBalanceDue {
			size = 13
		}
		doc.SetFont("Helvetica", "B", size)
		doc.CellFormat(labelW, 18, l.Label, "", 0, "R", false, 0, "")
		doc.SetFont("Helvetica", "", size)
		doc.CellFormat(widths[3], 18, txt(l.Value), "", 1, "R", false, 0, "")
	}

	if pv.Notes != "" {
		doc.Ln(12)
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(width, 14, txt(pv.Notes), "", "L", true)
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("laying out pdf: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// loadLogo opens an image, scales it to width pixels and re-encodes it as PNG.
func loadLogo(path string, width int) (io.Reader, error) {
	if width <= 0 {
		width = defaultLogoW
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading logo: %w", err)
	}
	img = imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding logo: %w", err)
	}
	return &buf, nil
}
