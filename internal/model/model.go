package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Dims represents the length, width and height of a cuboid in mm.
type Dims struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Volume returns the cuboid volume in mm³.
func (d Dims) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// clamped returns the dims with every axis floored at 1mm.
// Zero or negative input dimensions are treated leniently rather than
// rejected; the clamp is applied uniformly to original dims and all
// orientations so the two never disagree.
func (d Dims) clamped() Dims {
	return Dims{
		Length: math.Max(1, d.Length),
		Width:  math.Max(1, d.Width),
		Height: math.Max(1, d.Height),
	}
}

// ItemInput is a raw item request as it arrives from an import source:
// one SKU with its as-given dimensions and a repeat count.
type ItemInput struct {
	SKU      string  `json:"sku"`
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Quantity int     `json:"quantity"`
}

// Item is a single physical case to be packed. The placement fields are
// zero until the engine commits the item into a tote, and are written at
// most once.
type Item struct {
	ID           string  `json:"id"`
	SKU          string  `json:"sku"`
	OriginalDims Dims    `json:"original_dims"`
	Volume       float64 `json:"volume"`

	// Orientations holds the six orthogonal permutations of the original
	// dims in fixed enumeration order. The array (not slice) keeps Item
	// copies fully independent.
	Orientations [6]Dims `json:"orientations"`

	// Placement fields, written by Commit exactly once.
	Placed                 bool    `json:"placed"`
	PlacedDims             Dims    `json:"placed_dims"`
	GridX                  int     `json:"grid_x"`
	GridY                  int     `json:"grid_y"`
	ZLevel                 float64 `json:"z_level"`
	UtilizationAtPlacement float64 `json:"utilization_at_placement"` // tote % right after this commit
}

// NewItem builds an item from raw dimensions. Non-positive dimensions are
// clamped to 1mm and the volume is floored at 1mm³.
func NewItem(sku string, length, width, height float64) Item {
	d := Dims{Length: length, Width: width, Height: height}.clamped()
	return Item{
		ID:           uuid.New().String()[:8],
		SKU:          sku,
		OriginalDims: d,
		Volume:       math.Max(1, d.Volume()),
		Orientations: [6]Dims{
			{d.Length, d.Width, d.Height},
			{d.Length, d.Height, d.Width},
			{d.Width, d.Length, d.Height},
			{d.Width, d.Height, d.Length},
			{d.Height, d.Length, d.Width},
			{d.Height, d.Width, d.Length},
		},
	}
}

// ExpandInputs turns raw item inputs into the flat ordered item stream the
// engine consumes, expanding each input by its quantity. A quantity below 1
// is treated as 1.
func ExpandInputs(inputs []ItemInput) []Item {
	var items []Item
	for _, in := range inputs {
		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			items = append(items, NewItem(in.SKU, in.Length, in.Width, in.Height))
		}
	}
	return items
}

// UnplaceableReason classifies why an item could not be packed.
type UnplaceableReason string

const (
	ReasonTooLargeByVolume     UnplaceableReason = "too-large-by-volume"
	ReasonTooLargeByDimensions UnplaceableReason = "too-large-by-dimensions"
	ReasonNoFitInFreshTote     UnplaceableReason = "no-fit-in-fresh-tote"
)

// UnplaceableItem is a log entry for an item that could not be packed.
// Unplaceable items are expected outcomes, not errors; the run continues.
type UnplaceableItem struct {
	SKU    string            `json:"sku"`
	Reason UnplaceableReason `json:"reason"`
}

// ToteSpec is the fixed configuration shared by every tote in a run.
type ToteSpec struct {
	MaxLength  float64 `json:"max_length" yaml:"max_length"`   // mm
	MaxWidth   float64 `json:"max_width" yaml:"max_width"`     // mm
	MaxHeight  float64 `json:"max_height" yaml:"max_height"`   // mm
	Resolution float64 `json:"resolution" yaml:"resolution"`   // height-map cell size, mm
}

// DefaultToteSpec returns the standard 600x400x400 tote at 10mm resolution.
func DefaultToteSpec() ToteSpec {
	return ToteSpec{
		MaxLength:  600,
		MaxWidth:   400,
		MaxHeight:  400,
		Resolution: 10,
	}
}

// MaxVolume returns the tote capacity in mm³.
func (s ToteSpec) MaxVolume() float64 {
	return s.MaxLength * s.MaxWidth * s.MaxHeight
}

// GridDimX returns the height-map cell count along the length axis.
func (s ToteSpec) GridDimX() int {
	return int(math.Ceil(s.MaxLength / s.Resolution))
}

// GridDimY returns the height-map cell count along the width axis.
func (s ToteSpec) GridDimY() int {
	return int(math.Ceil(s.MaxWidth / s.Resolution))
}

// Validate rejects specs that would produce a zero-sized grid or divide by
// zero. The engine refuses to run on an invalid spec.
func (s ToteSpec) Validate() error {
	if s.MaxLength <= 0 || s.MaxWidth <= 0 || s.MaxHeight <= 0 {
		return fmt.Errorf("tote dimensions must be positive, got %gx%gx%g",
			s.MaxLength, s.MaxWidth, s.MaxHeight)
	}
	if s.Resolution < 1 {
		return fmt.Errorf("height map resolution must be at least 1mm, got %g", s.Resolution)
	}
	return nil
}

// Tote is one container being packed. It is mutated only by the engine's
// Commit and frozen by Finalize; a finalized snapshot is never mutated.
type Tote struct {
	ID   int      `json:"id"`
	Spec ToteSpec `json:"spec"`

	// HeightMap[x][y] holds the current top surface height in mm at that
	// cell. Cells only ever grow.
	HeightMap [][]float64 `json:"height_map"`

	Items              []Item  `json:"items"` // insertion order = placement order
	RemainingVolume    float64 `json:"remaining_volume"`
	UtilizationPercent float64 `json:"utilization_percent"` // set at finalize
}

// NewTote creates an empty tote with a zeroed height map.
func NewTote(id int, spec ToteSpec) *Tote {
	hm := make([][]float64, spec.GridDimX())
	for x := range hm {
		hm[x] = make([]float64, spec.GridDimY())
	}
	return &Tote{
		ID:              id,
		Spec:            spec,
		HeightMap:       hm,
		RemainingVolume: spec.MaxVolume(),
	}
}

// UsedVolume returns the volume occupied by placed items in mm³.
func (t *Tote) UsedVolume() float64 {
	return t.Spec.MaxVolume() - t.RemainingVolume
}

// Utilization returns the current packed percentage of the tote.
func (t *Tote) Utilization() float64 {
	mv := t.Spec.MaxVolume()
	if mv <= 0 || len(t.Items) == 0 {
		return 0
	}
	return t.UsedVolume() / mv * 100.0
}

// Clone returns a deep copy of the tote. The height map rows and the items
// slice are freshly allocated so the active tote and a finalized snapshot
// never share state.
func (t *Tote) Clone() *Tote {
	hm := make([][]float64, len(t.HeightMap))
	for x := range t.HeightMap {
		hm[x] = make([]float64, len(t.HeightMap[x]))
		copy(hm[x], t.HeightMap[x])
	}
	items := make([]Item, len(t.Items))
	copy(items, t.Items)
	return &Tote{
		ID:                 t.ID,
		Spec:               t.Spec,
		HeightMap:          hm,
		Items:              items,
		RemainingVolume:    t.RemainingVolume,
		UtilizationPercent: t.UtilizationPercent,
	}
}

// PlacementRecord is the flat per-item hand-off record consumed by
// downstream reporting and visualization tools. Positions are absolute mm
// within the tote (grid coordinates scaled by the resolution for x/y).
type PlacementRecord struct {
	ToteID             int     `json:"tote_id"`
	ToteDims           Dims    `json:"tote_dimensions_mm"`
	SKU                string  `json:"case_sku"`
	OriginalDims       Dims    `json:"original_case_dims_mm"`
	PlacedDims         Dims    `json:"placed_case_dims_mm"`
	X                  float64 `json:"x_mm"`
	Y                  float64 `json:"y_mm"`
	Z                  float64 `json:"z_mm"`
	UtilizationPercent float64 `json:"current_tote_utilization_percent"`
}

// PackResult holds the full outcome of one packing run.
type PackResult struct {
	RunID       string            `json:"run_id"`
	Spec        ToteSpec          `json:"spec"`
	Totes       []*Tote           `json:"totes"` // finalized snapshots, in order
	Records     []PlacementRecord `json:"records"`
	Unplaceable []UnplaceableItem `json:"unplaceable"`
}

// ItemsPlaced returns the total number of items committed across all totes.
func (r PackResult) ItemsPlaced() int {
	n := 0
	for _, t := range r.Totes {
		n += len(t.Items)
	}
	return n
}

// OverallUtilization returns packed volume over total tote capacity across
// the whole run, as a percentage.
func (r PackResult) OverallUtilization() float64 {
	var used, capacity float64
	for _, t := range r.Totes {
		used += t.UsedVolume()
		capacity += t.Spec.MaxVolume()
	}
	if capacity == 0 {
		return 0
	}
	return used / capacity * 100.0
}

// Project ties everything together for save/load.
type Project struct {
	Name   string      `json:"name"`
	Spec   ToteSpec    `json:"spec"`
	Items  []ItemInput `json:"items"`
	Result *PackResult `json:"result,omitempty"`
}

// NewProject returns an empty project with the default tote spec.
func NewProject() Project {
	return Project{
		Name:  "Untitled",
		Spec:  DefaultToteSpec(),
		Items: []ItemInput{},
	}
}

// NewRunID returns a short unique identifier for a packing run.
func NewRunID() string {
	return uuid.New().String()[:8]
}
