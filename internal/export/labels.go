package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/ToteStack/internal/model"
)

// LabelInfo holds the data encoded into each item label's QR code.
type LabelInfo struct {
	SKU    string  `json:"sku"`
	Length float64 `json:"length_mm"`
	Width  float64 `json:"width_mm"`
	Height float64 `json:"height_mm"`
	ToteID int     `json:"tote"`
	X      float64 `json:"x_mm"`
	Y      float64 `json:"y_mm"`
	Z      float64 `json:"z_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels for all placed items.
// Each label carries the SKU, placed dimensions, target tote and position,
// with the same data encoded as JSON in the QR code. Labels are laid out on
// a standard label sheet format (Avery 5160 / 3 columns x 10 rows on US
// Letter).
func ExportLabels(path string, result model.PackResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no items placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.SKU, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	// Generate QR code PNG bytes
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Register QR image with a unique name
	imgName := fmt.Sprintf("qr_%s_%d_%d", info.SKU, info.ToteID, int(info.X*1000+info.Y))
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// SKU (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	// Truncate SKU if too long
	sku := info.SKU
	if pdf.GetStringWidth(sku) > textW {
		for len(sku) > 0 && pdf.GetStringWidth(sku+"...") > textW {
			sku = sku[:len(sku)-1]
		}
		sku += "..."
	}
	pdf.CellFormat(textW, 4.5, sku, "", 1, "L", false, 0, "")

	// Placed dimensions
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f mm", info.Length, info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	// Tote and position info
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	toteInfo := fmt.Sprintf("Tote %d @ (%.0f, %.0f, %.0f)", info.ToteID, info.X, info.Y, info.Z)
	pdf.CellFormat(textW, 3, toteInfo, "", 1, "L", false, 0, "")

	// Reset text color
	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information from a packing result for
// use in testing or alternative export formats.
func CollectLabelInfos(result model.PackResult) []LabelInfo {
	var labels []LabelInfo
	for _, rec := range result.Records {
		labels = append(labels, LabelInfo{
			SKU:    rec.SKU,
			Length: rec.PlacedDims.Length,
			Width:  rec.PlacedDims.Width,
			Height: rec.PlacedDims.Height,
			ToteID: rec.ToteID,
			X:      rec.X,
			Y:      rec.Y,
			Z:      rec.Z,
		})
	}
	return labels
}
