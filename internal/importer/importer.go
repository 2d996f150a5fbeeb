// Package importer provides CSV and Excel import functionality for item
// lists. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/ToteStack/internal/model"
)

// ImportResult holds the results of an import operation. Inputs keep the
// row-level quantity; Items is the expanded stream ready for the engine.
type ImportResult struct {
	Inputs   []model.ItemInput
	Items    []model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	SKU      int
	Length   int
	Width    int
	Height   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"sku":      {"sku", "id", "item", "case", "name", "label", "description"},
	"length":   {"length", "len", "l", "x", "depth"},
	"width":    {"width", "w", "y"},
	"height":   {"height", "h", "z"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
}

// DetectCSVDelimiter reads the file content and determines the most likely
// CSV delimiter. It tries comma, semicolon, tab, and pipe. The delimiter
// that produces the most consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each
// column role. Returns the mapping and true if a header was detected, or a
// default positional mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		SKU:      -1,
		Length:   -1,
		Width:    -1,
		Height:   -1,
		Quantity: -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "sku":
						if mapping.SKU == -1 {
							mapping.SKU = i
						}
					case "length":
						if mapping.Length == -1 {
							mapping.Length = i
						}
					case "width":
						if mapping.Width == -1 {
							mapping.Width = i
						}
					case "height":
						if mapping.Height == -1 {
							mapping.Height = i
						}
					case "quantity":
						if mapping.Quantity == -1 {
							mapping.Quantity = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		// Fall back to positional mapping: SKU, Length, Width, Height, Quantity
		return ColumnMapping{
			SKU:      0,
			Length:   1,
			Width:    2,
			Height:   3,
			Quantity: 4,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts an ItemInput from a row using the given column mapping.
// Returns the input, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) (model.ItemInput, string, string) {
	sku := getCell(row, mapping.SKU)
	if sku == "" {
		sku = fmt.Sprintf("Item %d", itemCount+1)
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.ItemInput{}, fmt.Sprintf("%s: Missing length value", rowLabel), ""
	}
	length, err := strconv.ParseFloat(lengthStr, 64)
	if err != nil {
		return model.ItemInput{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), ""
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.ItemInput{}, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return model.ItemInput{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.ItemInput{}, fmt.Sprintf("%s: Missing height value", rowLabel), ""
	}
	height, err := strconv.ParseFloat(heightStr, 64)
	if err != nil {
		return model.ItemInput{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), ""
	}

	if length <= 0 || width <= 0 || height <= 0 {
		return model.ItemInput{}, fmt.Sprintf("%s: Length, width, and height must be positive", rowLabel), ""
	}

	// Quantity is optional; default to 1 when the column is absent or empty
	qty := 1
	var warning string
	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			warning = fmt.Sprintf("%s: Invalid quantity '%s', defaulting to 1", rowLabel, qtyStr)
			qty = 1
		}
	}

	return model.ItemInput{
		SKU:      sku,
		Length:   length,
		Width:    width,
		Height:   height,
		Quantity: qty,
	}, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// importFromRows converts raw rows into an ImportResult, detecting the
// header and expanding quantities into the flat item stream.
func importFromRows(rows [][]string, rowWord string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	dataRows := rows
	if hasHeader {
		dataRows = rows[1:]
	} else {
		result.Warnings = append(result.Warnings, "No header row detected, using positional columns (SKU, Length, Width, Height, Quantity)")
	}

	for i, row := range dataRows {
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowWord, i+1)
		if hasHeader {
			rowLabel = fmt.Sprintf("%s %d", rowWord, i+2)
		}

		input, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Inputs))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Inputs = append(result.Inputs, input)
	}

	result.Items = model.ExpandInputs(result.Inputs)
	return result
}

// ImportCSV imports items from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports items from a CSV reader with a specific
// delimiter. This is useful for testing or when the delimiter is already
// known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports items from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read sheet '%s': %v", sheets[0], err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// Import dispatches to the CSV or Excel importer based on file extension.
func Import(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}
