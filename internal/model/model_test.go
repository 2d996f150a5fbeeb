package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem_OrientationsAreAllSixPermutations(t *testing.T) {
	item := NewItem("A", 100, 200, 300)

	expected := [6]Dims{
		{100, 200, 300},
		{100, 300, 200},
		{200, 100, 300},
		{200, 300, 100},
		{300, 100, 200},
		{300, 200, 100},
	}
	assert.Equal(t, expected, item.Orientations)
	assert.Equal(t, 100.0*200*300, item.Volume)
}

func TestNewItem_ClampsDegenerateDimensions(t *testing.T) {
	// Non-positive dimensions are clamped to 1mm rather than rejected,
	// uniformly across original dims and every orientation.
	item := NewItem("WEIRD", 0, -5, 200)

	assert.Equal(t, Dims{Length: 1, Width: 1, Height: 200}, item.OriginalDims)
	assert.Equal(t, 200.0, item.Volume)
	for _, o := range item.Orientations {
		assert.GreaterOrEqual(t, o.Length, 1.0)
		assert.GreaterOrEqual(t, o.Width, 1.0)
		assert.GreaterOrEqual(t, o.Height, 1.0)
	}
}

func TestNewItem_VolumeFlooredAtOne(t *testing.T) {
	item := NewItem("DOT", -1, -1, -1)
	assert.Equal(t, 1.0, item.Volume)
}

func TestExpandInputs_QuantityExpansion(t *testing.T) {
	items := ExpandInputs([]ItemInput{
		{SKU: "A", Length: 100, Width: 100, Height: 100, Quantity: 3},
		{SKU: "B", Length: 200, Width: 200, Height: 200}, // zero quantity = 1
	})

	require.Len(t, items, 4)
	assert.Equal(t, "A", items[0].SKU)
	assert.Equal(t, "A", items[2].SKU)
	assert.Equal(t, "B", items[3].SKU)
	// Each expanded item gets its own identity.
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestToteSpec_GridDimensions(t *testing.T) {
	spec := ToteSpec{MaxLength: 1000, MaxWidth: 1000, MaxHeight: 1000, Resolution: 100}
	assert.Equal(t, 10, spec.GridDimX())
	assert.Equal(t, 10, spec.GridDimY())
	assert.Equal(t, 1e9, spec.MaxVolume())

	// Partial cells round up.
	spec = ToteSpec{MaxLength: 650, MaxWidth: 401, MaxHeight: 400, Resolution: 100}
	assert.Equal(t, 7, spec.GridDimX())
	assert.Equal(t, 5, spec.GridDimY())
}

func TestToteSpec_Validate(t *testing.T) {
	assert.NoError(t, DefaultToteSpec().Validate())

	bad := []ToteSpec{
		{MaxLength: 0, MaxWidth: 400, MaxHeight: 400, Resolution: 10},
		{MaxLength: 600, MaxWidth: 400, MaxHeight: -400, Resolution: 10},
		{MaxLength: 600, MaxWidth: 400, MaxHeight: 400, Resolution: 0},
	}
	for _, spec := range bad {
		assert.Error(t, spec.Validate())
	}
}

func TestNewTote_StartsEmpty(t *testing.T) {
	spec := ToteSpec{MaxLength: 1000, MaxWidth: 1000, MaxHeight: 1000, Resolution: 100}
	tote := NewTote(1, spec)

	require.Len(t, tote.HeightMap, 10)
	for _, row := range tote.HeightMap {
		require.Len(t, row, 10)
		for _, h := range row {
			assert.Equal(t, 0.0, h)
		}
	}
	assert.Equal(t, spec.MaxVolume(), tote.RemainingVolume)
	assert.Equal(t, 0.0, tote.Utilization())
}

func TestTote_CloneIsDeep(t *testing.T) {
	spec := ToteSpec{MaxLength: 1000, MaxWidth: 1000, MaxHeight: 1000, Resolution: 100}
	tote := NewTote(1, spec)
	tote.HeightMap[2][3] = 150
	tote.Items = append(tote.Items, NewItem("A", 100, 100, 100))

	clone := tote.Clone()
	tote.HeightMap[2][3] = 999
	tote.Items = append(tote.Items, NewItem("B", 100, 100, 100))

	assert.Equal(t, 150.0, clone.HeightMap[2][3])
	assert.Len(t, clone.Items, 1)
}

func TestPackResult_OverallUtilization(t *testing.T) {
	spec := ToteSpec{MaxLength: 1000, MaxWidth: 1000, MaxHeight: 1000, Resolution: 100}
	full := NewTote(1, spec)
	full.RemainingVolume = 0
	full.Items = append(full.Items, NewItem("A", 1000, 1000, 1000))
	empty := NewTote(2, spec)

	result := PackResult{Totes: []*Tote{full, empty}}
	assert.InDelta(t, 50.0, result.OverallUtilization(), 1e-9)
	assert.Equal(t, 1, result.ItemsPlaced())

	assert.Equal(t, 0.0, PackResult{}.OverallUtilization())
}

func TestAppConfig_ApplyToSpec(t *testing.T) {
	config := DefaultAppConfig()
	config.DefaultMaxLength = 800
	config.DefaultResolution = 25

	var spec ToteSpec
	config.ApplyToSpec(&spec)
	assert.Equal(t, 800.0, spec.MaxLength)
	assert.Equal(t, 25.0, spec.Resolution)
	assert.NoError(t, spec.Validate())
}

func TestAppConfig_AddRecentProject(t *testing.T) {
	config := DefaultAppConfig()

	config.AddRecentProject("/data/a.json")
	config.AddRecentProject("/data/b.json")
	assert.Equal(t, []string{"/data/b.json", "/data/a.json"}, config.RecentProjects)

	// Re-saving an existing project moves it to the front, no duplicate.
	config.AddRecentProject("/data/a.json")
	assert.Equal(t, []string{"/data/a.json", "/data/b.json"}, config.RecentProjects)

	// The list is capped and the oldest entries fall off the end.
	for i := 0; i < 15; i++ {
		config.AddRecentProject(fmt.Sprintf("/data/run%02d.json", i))
	}
	assert.Len(t, config.RecentProjects, 10)
	assert.Equal(t, "/data/run14.json", config.RecentProjects[0])
	assert.NotContains(t, config.RecentProjects, "/data/a.json")
}
