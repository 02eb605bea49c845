// Package pdf renders printable quotation documents.
package pdf

import (
	"bytes"
	"fmt"
	"image/png"

	"backoffice/internal/domain"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

var sectionTitles = map[domain.Section]string{
	domain.SectionEquipment: "Equipos",
	domain.SectionMaterials: "Materiales",
	domain.SectionLabor:     "Mano de Obra",
}

// BuildQuotation renders a quotation with its tabs and items to PDF. When
// publicURL is non-empty a QR code pointing at the public view is embedded.
func BuildQuotation(q *domain.Quotation, publicURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetMargins(10, 10, 10)

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(190, 10, "COTIZACION")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	title := q.Title
	if q.Folio != "" {
		title = fmt.Sprintf("%s (%s)", q.Title, q.Folio)
	}
	pdf.Cell(130, 6, title)
	pdf.Cell(60, 6, fmt.Sprintf("Version %d", q.Version))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(130, 6, fmt.Sprintf("Fecha: %s", q.CreatedAt.Format("02-Jan-2006")))
	if q.ValidUntil != nil {
		pdf.Cell(60, 6, fmt.Sprintf("Valida hasta: %s", q.ValidUntil.Format("02-Jan-2006")))
	}
	pdf.Ln(10)

	// Items grouped per tab, tabs grouped per section.
	itemsByTab := make(map[int64][]domain.QuotationItem)
	for _, it := range q.Items {
		if it.TabID != nil {
			itemsByTab[*it.TabID] = append(itemsByTab[*it.TabID], it)
		}
	}

	for _, section := range domain.Sections {
		var sectionTotal float64
		printed := false
		for _, tab := range q.Tabs {
			if tab.Section != section {
				continue
			}
			items := itemsByTab[tab.ID]
			if len(items) == 0 {
				continue
			}
			if !printed {
				pdf.SetFont("Arial", "B", 13)
				pdf.Cell(190, 8, sectionTitles[section])
				pdf.Ln(9)
				printed = true
			}

			pdf.SetFont("Arial", "B", 10)
			pdf.Cell(190, 6, tab.Label)
			pdf.Ln(7)

			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(240, 240, 240)
			pdf.CellFormat(95, 7, "Concepto", "1", 0, "L", true, 0, "")
			pdf.CellFormat(20, 7, "Cant.", "1", 0, "C", true, 0, "")
			pdf.CellFormat(35, 7, "P. Unitario", "1", 0, "C", true, 0, "")
			pdf.CellFormat(40, 7, "Importe", "1", 1, "C", true, 0, "")

			pdf.SetFont("Arial", "", 10)
			for _, it := range items {
				label := it.CustomTitle
				if label == "" {
					label = fmt.Sprintf("Concepto #%d", derefInt64(it.ConceptID))
				}
				pdf.CellFormat(95, 7, label, "1", 0, "L", false, 0, "")
				pdf.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
				pdf.CellFormat(35, 7, fmt.Sprintf("$%.2f", it.UnitPrice), "1", 0, "R", false, 0, "")
				pdf.CellFormat(40, 7, fmt.Sprintf("$%.2f", it.Total), "1", 1, "R", false, 0, "")
				sectionTotal += it.Total
			}
			pdf.Ln(3)
		}
		if printed {
			pdf.SetFont("Arial", "B", 10)
			pdf.Cell(150, 7, fmt.Sprintf("Subtotal %s", sectionTitles[section]))
			pdf.CellFormat(40, 7, fmt.Sprintf("$%.2f", sectionTotal), "1", 1, "R", false, 0, "")
			pdf.Ln(4)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(150, 8, "Subtotal")
	pdf.CellFormat(40, 8, fmt.Sprintf("$%.2f", q.Subtotal), "1", 1, "R", false, 0, "")
	pdf.Cell(150, 8, "IVA (16%)")
	pdf.CellFormat(40, 8, fmt.Sprintf("$%.2f", q.Tax), "1", 1, "R", false, 0, "")
	pdf.Cell(150, 8, "Total")
	pdf.CellFormat(40, 8, fmt.Sprintf("$%.2f", q.Total), "1", 1, "R", false, 0, "")

	if q.Terms != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(190, 8, "Terminos y Condiciones")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 5, q.Terms, "", "L", false)
	}

	if publicURL != "" {
		if qrPNG, err := qrCodePNG(publicURL); err == nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("public-qr", opts, bytes.NewReader(qrPNG))
			pdf.ImageOptions("public-qr", 160, 260, 30, 30, false, opts, 0, "")
			pdf.SetXY(10, 282)
			pdf.SetFont("Arial", "", 8)
			pdf.Cell(190, 5, publicURL)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func qrCodePNG(content string) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	img := qr.Image(256)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefInt64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
