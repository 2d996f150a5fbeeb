package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectCSVDelimiter(t *testing.T) {
	cases := []struct {
		name     string
		data     string
		expected rune
	}{
		{"comma", "sku,length,width,height\nA,100,200,300\n", ','},
		{"semicolon", "sku;length;width;height\nA;100;200;300\n", ';'},
		{"tab", "sku\tlength\twidth\theight\nA\t100\t200\t300\n", '\t'},
		{"pipe", "sku|length|width|height\nA|100|200|300\n", '|'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectCSVDelimiter([]byte(tc.data)))
		})
	}
}

func TestDetectColumns_HeaderAliases(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"SKU", "Len", "W", "H", "Qty"})
	require.True(t, hasHeader)
	assert.Equal(t, 0, mapping.SKU)
	assert.Equal(t, 1, mapping.Length)
	assert.Equal(t, 2, mapping.Width)
	assert.Equal(t, 3, mapping.Height)
	assert.Equal(t, 4, mapping.Quantity)
}

func TestDetectColumns_ReorderedHeader(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"Quantity", "Height", "Width", "Length", "Item"})
	require.True(t, hasHeader)
	assert.Equal(t, 4, mapping.SKU)
	assert.Equal(t, 3, mapping.Length)
	assert.Equal(t, 2, mapping.Width)
	assert.Equal(t, 1, mapping.Height)
	assert.Equal(t, 0, mapping.Quantity)
}

func TestDetectColumns_NoHeaderFallsBackToPositional(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"CASE-17", "120", "80", "60", "2"})
	assert.False(t, hasHeader)
	assert.Equal(t, 0, mapping.SKU)
	assert.Equal(t, 1, mapping.Length)
	assert.Equal(t, 4, mapping.Quantity)
}

func TestImportCSVFromReader_ExpandsQuantities(t *testing.T) {
	csvData := "sku,length,width,height,qty\nCASE-A,300,200,150,3\nCASE-B,120,90,60,1\n"

	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Inputs, 2)
	assert.Equal(t, 3, result.Inputs[0].Quantity)

	// Stream expands to 4 concrete items, quantities collapsed to units.
	require.Len(t, result.Items, 4)
	assert.Equal(t, "CASE-A", result.Items[0].SKU)
	assert.Equal(t, "CASE-A", result.Items[2].SKU)
	assert.Equal(t, "CASE-B", result.Items[3].SKU)
}

func TestImportCSVFromReader_MissingQuantityDefaultsToOne(t *testing.T) {
	csvData := "sku,length,width,height\nCASE-A,300,200,150\n"

	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.Inputs[0].Quantity)
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	csvData := "sku,length,width,height,qty\n" +
		"OK,300,200,150,1\n" +
		"NO-LENGTH,,200,150,1\n" +
		"BAD-WIDTH,300,abc,150,1\n" +
		"NEGATIVE,-10,200,150,1\n"

	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	assert.Len(t, result.Errors, 3)
	require.Len(t, result.Inputs, 1)
	assert.Equal(t, "OK", result.Inputs[0].SKU)
}

func TestImportCSVFromReader_BadQuantityWarnsAndDefaults(t *testing.T) {
	csvData := "sku,length,width,height,qty\nCASE-A,300,200,150,oops\n"

	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "oops")
	assert.Equal(t, 1, result.Inputs[0].Quantity)
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	content := "sku;length;width;height;qty\nEURO-1;600;400;300;2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result := ImportCSV(path)

	require.Empty(t, result.Errors)
	assert.NotEmpty(t, result.Warnings, "non-comma delimiter should be reported")
	require.Len(t, result.Items, 2)
	assert.Equal(t, 600.0, result.Items[0].OriginalDims.Length)
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	result := ImportCSV(path)
	assert.NotEmpty(t, result.Errors)
	assert.Empty(t, result.Items)
}

func TestImportExcel_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"SKU", "Length", "Width", "Height", "Quantity"},
		{"XL-1", 500, 400, 300, 1},
		{"XL-2", 200, 150, 100, 2},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result := ImportExcel(path)

	require.Empty(t, result.Errors)
	require.Len(t, result.Inputs, 2)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "XL-2", result.Items[2].SKU)
}

func TestImport_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("sku,length,width,height\nA,100,100,100\n"), 0644))

	result := Import(csvPath)
	require.Empty(t, result.Errors)
	assert.Len(t, result.Items, 1)
}
