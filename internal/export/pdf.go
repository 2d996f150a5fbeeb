// Package export provides functionality for exporting packing results to
// various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/ToteStack/internal/model"
)

// itemColor represents an RGB color for a placed item footprint.
type itemColor struct {
	R, G, B int
}

var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 40.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document containing the packing results. Each
// tote is rendered on its own page as a top-down footprint diagram with an
// item table, followed by a summary page with overall statistics.
func ExportPDF(path string, result model.PackResult) error {
	if len(result.Totes) == 0 {
		return fmt.Errorf("no totes to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, tote := range result.Totes {
		pdf.AddPage()
		renderTotePage(pdf, tote)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderTotePage draws a single tote's top-down layout on the current page.
func renderTotePage(pdf *fpdf.Fpdf, tote *model.Tote) {
	spec := tote.Spec

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Tote %d (%.0f x %.0f x %.0f mm)", tote.ID, spec.MaxLength, spec.MaxWidth, spec.MaxHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Used volume: %.0f mm³ | Remaining: %.0f mm³ | Utilization: %.1f%%",
		len(tote.Items), tote.UsedVolume(), tote.RemainingVolume, tote.UtilizationPercent)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Drawing area for the top-down view
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scaleX := drawWidth / spec.MaxLength
	scaleY := drawHeight / spec.MaxWidth
	scale := math.Min(scaleX, scaleY)

	canvasW := spec.MaxLength * scale
	canvasH := spec.MaxWidth * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Tote floor background
	pdf.SetFillColor(230, 230, 230)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Item footprints, later placements drawn on top
	for i, item := range tote.Items {
		col := itemColors[i%len(itemColors)]
		px := offsetX + float64(item.GridX)*spec.Resolution*scale
		py := offsetY + float64(item.GridY)*spec.Resolution*scale
		pw := item.PlacedDims.Length * scale
		ph := item.PlacedDims.Width * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Label only if the footprint is large enough
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := item.SKU
			zInfo := fmt.Sprintf("z=%.0f", item.ZLevel)

			labelW := pdf.GetStringWidth(label)
			zW := pdf.GetStringWidth(zInfo)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && zW < pw-2 {
				pdf.SetXY(px+(pw-zW)/2, py+ph/2)
				pdf.CellFormat(zW, 4, zInfo, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, spec, scale, offsetX, offsetY, canvasW, canvasH)
	drawItemTable(pdf, tote, offsetY+canvasH+6)
}

// labelFontSize picks a font size that fits the given footprint rectangle.
func labelFontSize(w, h float64) float64 {
	size := math.Min(w/8, h/3)
	if size > 8 {
		size = 8
	}
	if size < 4 {
		size = 4
	}
	return size
}

// drawDimensionAnnotations adds length and width labels outside the tote rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, spec model.ToteSpec, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%.0f mm", spec.MaxLength)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%.0f mm", spec.MaxWidth)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawItemTable renders a compact table of the tote's items in placement order.
func drawItemTable(pdf *fpdf.Fpdf, tote *model.Tote, startY float64) {
	if len(tote.Items) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)

	cols := []struct {
		title string
		width float64
	}{
		{"#", 8},
		{"SKU", 40},
		{"Placed dims (mm)", 45},
		{"Position (mm)", 45},
		{"Util. after placement", 40},
	}

	for _, c := range cols {
		pdf.CellFormat(c.width, 4, c.title, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 7)
	res := tote.Spec.Resolution
	for i, item := range tote.Items {
		// Swatch matching the diagram color
		col := itemColors[i%len(itemColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		x := marginLeft
		pdf.Rect(x+1, pdf.GetY()+0.7, 2.5, 2.5, "F")

		pdf.SetX(x)
		pdf.CellFormat(cols[0].width, 4, fmt.Sprintf("    %d", i+1), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1].width, 4, item.SKU, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2].width, 4, fmt.Sprintf("%.0f x %.0f x %.0f",
			item.PlacedDims.Length, item.PlacedDims.Width, item.PlacedDims.Height), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3].width, 4, fmt.Sprintf("(%.0f, %.0f, %.0f)",
			float64(item.GridX)*res, float64(item.GridY)*res, item.ZLevel), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[4].width, 4, fmt.Sprintf("%.1f%%", item.UtilizationAtPlacement), "", 0, "L", false, 0, "")
		pdf.Ln(4)

		// Cap the table to the page; the summary page has the full counts
		if pdf.GetY() > pageHeight-marginBottom-4 {
			break
		}
	}
}

// renderSummaryPage draws overall run statistics on the current page.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+14)

	lines := []string{
		fmt.Sprintf("Run: %s", result.RunID),
		fmt.Sprintf("Tote spec: %.0f x %.0f x %.0f mm, resolution %.0f mm",
			result.Spec.MaxLength, result.Spec.MaxWidth, result.Spec.MaxHeight, result.Spec.Resolution),
		fmt.Sprintf("Totes used: %d", len(result.Totes)),
		fmt.Sprintf("Items placed: %d", result.ItemsPlaced()),
		fmt.Sprintf("Unplaceable items: %d", len(result.Unplaceable)),
		fmt.Sprintf("Overall utilization: %.1f%%", result.OverallUtilization()),
	}
	for _, line := range lines {
		pdf.SetX(marginLeft)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, line, "", 1, "L", false, 0, "")
	}

	// Per-tote table
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetX(marginLeft)
	pdf.CellFormat(25, 5, "Tote", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 5, "Items", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 5, "Utilization", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, tote := range result.Totes {
		pdf.SetX(marginLeft)
		pdf.CellFormat(25, 5, fmt.Sprintf("%d", tote.ID), "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 5, fmt.Sprintf("%d", len(tote.Items)), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, fmt.Sprintf("%.1f%%", tote.UtilizationPercent), "", 1, "L", false, 0, "")
	}

	// Unplaceable log
	if len(result.Unplaceable) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetX(marginLeft)
		pdf.CellFormat(60, 5, "Unplaceable SKU", "B", 0, "L", false, 0, "")
		pdf.CellFormat(60, 5, "Reason", "B", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, u := range result.Unplaceable {
			pdf.SetX(marginLeft)
			pdf.CellFormat(60, 5, u.SKU, "", 0, "L", false, 0, "")
			pdf.CellFormat(60, 5, string(u.Reason), "", 1, "L", false, 0, "")
			if pdf.GetY() > pageHeight-marginBottom-5 {
				break
			}
		}
	}
}
