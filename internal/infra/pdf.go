package infra

// pdf.go — Liquidation receipt generation using go-pdf/fpdf.
// A4 document with:
//   - Clinic header
//   - Professional and period
//   - Detail table (service date, payment date, amount, rate, commission)
//   - Totals block with the arithmetic-mean rate
//
// The output file is saved to storagePath/liquidacion_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"clinicaja/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboPDF generates the commission liquidation receipt.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateReciboPDF(liq *model.LiquidacionComision, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("liquidacion_%s.pdf", liq.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "ClinicCaja", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Recibo de Liquidación de Comisiones", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Professional / period ────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	nombre := ""
	if liq.Profesional != nil {
		nombre = fmt.Sprintf("%s %s (Mat. %s)", liq.Profesional.Nombre, liq.Profesional.Apellido, liq.Profesional.Matricula)
	}
	pdf.CellFormat(contentW, 6, "Profesional: "+nombre, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Período: %s a %s",
		liq.PeriodoDesde.Format("02/01/2006"), liq.PeriodoHasta.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Liquidación N° "+liq.ID.String(), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Detail table ─────────────────────────────────────────────────────────
	col1 := contentW * 0.18 // service date
	col2 := contentW * 0.22 // payment date
	col3 := contentW * 0.22 // amount
	col4 := contentW * 0.14 // rate
	col5 := contentW * 0.24 // commission

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Fecha serv.", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Fecha pago", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Monto", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "%", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Comisión", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range liq.Detalles {
		pdf.CellFormat(col1, 5, d.FechaServicio.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, d.FechaPago.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+d.MontoServicio.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, d.PorcentajeComision.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, "$"+d.MontoComision.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col1+col2+col3, 6, fmt.Sprintf("Servicios liquidados: %d", liq.TotalServicios), "", 0, "L", false, 0, "")
	pdf.CellFormat(col4+col5, 6, "Bruto: $"+liq.MontoBruto.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2+col3, 6, fmt.Sprintf("Porcentaje promedio: %s%%", liq.PorcentajePromedio.StringFixed(2)), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col4+col5, 6, "TOTAL: $"+liq.MontoComision.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
