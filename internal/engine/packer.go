// Package engine implements the height-map tote packing algorithm: a
// greedy, single-pass placement search that drops each item at the lowest
// admissible z-level, plus the driver that manages the tote lifecycle.
package engine

import (
	"math"

	"github.com/piwi3910/ToteStack/internal/model"
)

// Placement describes the best admissible position found for an item in a
// tote, or CanFit=false when no orientation fits anywhere.
type Placement struct {
	CanFit bool
	Dims   model.Dims // chosen orientation
	GridX  int
	GridY  int
	BaseZ  float64 // resting height of the item's underside, mm
}

// footprintCells returns the grid footprint of an oriented item: the cell
// counts along the length and width axes, each floored at one cell.
// Sub-cell slack is accepted internal fragmentation.
func footprintCells(d model.Dims, resolution float64) (int, int) {
	cl := int(math.Ceil(d.Length / resolution))
	cw := int(math.Ceil(d.Width / resolution))
	if cl < 1 {
		cl = 1
	}
	if cw < 1 {
		cw = 1
	}
	return cl, cw
}

// FindPlacement scans all six orientations over every anchor cell and
// returns the candidate with the strictly lowest base z; ties keep the
// first-found candidate (orientation order, then y, then x). The search is
// pure: it never mutates the tote and repeated calls return identical
// results.
func FindPlacement(item model.Item, tote *model.Tote) Placement {
	best := Placement{BaseZ: math.Inf(1)}
	spec := tote.Spec

	for _, dims := range item.Orientations {
		cl, cw := footprintCells(dims, spec.Resolution)

		for y := 0; y+cw <= spec.GridDimY(); y++ {
			for x := 0; x+cl <= spec.GridDimX(); x++ {
				baseZ := 0.0
				for dy := 0; dy < cw; dy++ {
					for dx := 0; dx < cl; dx++ {
						if h := tote.HeightMap[x+dx][y+dy]; h > baseZ {
							baseZ = h
						}
					}
				}
				if baseZ+dims.Height > spec.MaxHeight {
					continue
				}
				if baseZ < best.BaseZ {
					best = Placement{
						CanFit: true,
						Dims:   dims,
						GridX:  x,
						GridY:  y,
						BaseZ:  baseZ,
					}
				}
			}
		}
	}
	return best
}

// Commit records a placement found by FindPlacement: every height-map cell
// under the footprint is raised to the item's new flat top, the item is
// appended to the tote with its placement fields filled in, and the tote's
// volume bookkeeping is updated. Commit follows a successful search and
// cannot fail; there is no rollback path.
func Commit(item model.Item, tote *model.Tote, p Placement) model.Item {
	item.Placed = true
	item.PlacedDims = p.Dims
	item.GridX = p.GridX
	item.GridY = p.GridY
	item.ZLevel = p.BaseZ

	newTop := p.BaseZ + p.Dims.Height
	cl, cw := footprintCells(p.Dims, tote.Spec.Resolution)
	for dy := 0; dy < cw; dy++ {
		for dx := 0; dx < cl; dx++ {
			tote.HeightMap[p.GridX+dx][p.GridY+dy] = newTop
		}
	}

	tote.RemainingVolume -= item.Volume
	tote.Items = append(tote.Items, item)

	// Interim utilization snapshot of the tote right after this commit.
	util := tote.Utilization()
	tote.Items[len(tote.Items)-1].UtilizationAtPlacement = util
	item.UtilizationAtPlacement = util
	return item
}

// Finalize freezes a tote: its final utilization is computed and a deep
// copy is returned. The snapshot shares no height-map rows or items slice
// with the still-mutable tote.
func Finalize(tote *model.Tote) *model.Tote {
	tote.UtilizationPercent = 0
	if tote.Spec.MaxVolume() > 0 && len(tote.Items) > 0 {
		tote.UtilizationPercent = tote.UsedVolume() / tote.Spec.MaxVolume() * 100.0
	}
	return tote.Clone()
}
