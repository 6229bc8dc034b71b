package documents

import (
	"bytes"
	"time"

	"github.com/phpdave11/gofpdf"
)

const (
	pageMargin = 10.0
	lineHeight = 6.0
	labelWidth = 45.0
)

// writePDF lays a Document out on A4 pages. Core fonts are used with the
// cp1252 translator so accents and the em-dash placeholder print correctly.
func writePDF(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 15)

	created := doc.GeneratedAt
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(created)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.Template, true)
	if len(doc.Issuer) > 0 {
		pdf.SetAuthor(doc.Issuer[0], true)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(95, 5, tr("Généré le "+created.Format("02/01/2006 15:04")), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(doc.Reference), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// issuer block
	pdf.SetTextColor(0, 0, 0)
	for i, line := range doc.Issuer {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 12)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Title), "B", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, b := range doc.Blocks {
		writeBlock(pdf, tr, b)
	}

	if len(doc.Totals) > 0 {
		pdf.Ln(2)
		for i, row := range doc.Totals {
			style := ""
			if i == len(doc.Totals)-1 {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 10)
			pdf.CellFormat(140, lineHeight, tr(row.Label), "", 0, "R", false, 0, "")
			pdf.CellFormat(50, lineHeight, tr(row.Value), "", 1, "R", false, 0, "")
		}
	}

	if doc.AmountInWords != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, tr(doc.AmountInWords), "", "L", false)
	}

	if len(doc.Footer) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)
		for _, f := range doc.Footer {
			pdf.MultiCell(0, 5, tr(f), "", "L", false)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBlock(pdf *gofpdf.Fpdf, tr func(string) string, b Block) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 236, 245)
	pdf.CellFormat(0, 7, tr(b.Heading), "", 1, "L", true, 0, "")
	pdf.Ln(1)

	for _, row := range b.Rows {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelWidth, lineHeight, tr(row.Label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, lineHeight, tr(row.Value), "", 1, "L", false, 0, "")
	}

	if t := b.Table; t != nil {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		for i, col := range t.Columns {
			pdf.CellFormat(t.Widths[i], 7, tr(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, row := range t.Rows {
			for i, cell := range row {
				align := "L"
				if i < len(t.Align) {
					align = t.Align[i]
				}
				pdf.CellFormat(t.Widths[i], lineHeight, tr(cell), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	pdf.Ln(3)
}
