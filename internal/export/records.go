package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/piwi3910/ToteStack/internal/model"
)

// recordHeader is the column order of the placement-record CSV hand-off.
var recordHeader = []string{
	"tote_id",
	"tote_length_mm", "tote_width_mm", "tote_height_mm",
	"sku",
	"orig_length_mm", "orig_width_mm", "orig_height_mm",
	"placed_length_mm", "placed_width_mm", "placed_height_mm",
	"x_mm", "y_mm", "z_mm",
	"tote_utilization_percent",
}

// WriteRecordsCSV writes the flat per-item placement records as CSV, one
// row per placed item in tote order then placement order.
func WriteRecordsCSV(path string, result model.PackResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create records file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(recordHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	ff := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	for _, r := range result.Records {
		row := []string{
			strconv.Itoa(r.ToteID),
			ff(r.ToteDims.Length), ff(r.ToteDims.Width), ff(r.ToteDims.Height),
			r.SKU,
			ff(r.OriginalDims.Length), ff(r.OriginalDims.Width), ff(r.OriginalDims.Height),
			ff(r.PlacedDims.Length), ff(r.PlacedDims.Width), ff(r.PlacedDims.Height),
			ff(r.X), ff(r.Y), ff(r.Z),
			ff(r.UtilizationPercent),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write record for %q: %w", r.SKU, err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteResultJSON writes the full packing result, including tote summaries
// with their height maps and the unplaceable log, as indented JSON.
func WriteResultJSON(path string, result model.PackResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}
