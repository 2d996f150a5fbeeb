package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/ToteStack/internal/model"
)

// ErrStopPacking is returned from a StepFunc to cancel a run cooperatively.
// Everything committed before the stop is preserved; the partial result is
// still assembled and returned alongside this error.
var ErrStopPacking = errors.New("stop packing")

// Step is the per-item progress snapshot handed to a StepFunc after each
// processed item.
type Step struct {
	Index       int    // position in the input stream, 0-based
	SKU         string
	Placed      bool
	ToteID      int // tote the item went into; 0 when unplaceable
	Unplaceable *model.UnplaceableItem
	ToteUtil    float64 // interim utilization of the receiving tote
	TotesClosed int     // totes finalized so far
}

// StepFunc observes each processed item. Returning ErrStopPacking halts the
// run after the current item; any other non-nil error aborts with that
// error. A nil StepFunc disables progress reporting.
type StepFunc func(Step) error

// Driver runs the single-pass packing state machine: exactly one tote is
// open at a time, items are processed strictly in input order, and a tote
// that rejects an item is finalized before a fresh one is opened.
type Driver struct {
	spec model.ToteSpec
}

// NewDriver validates the spec and returns a driver. An invalid spec is a
// configuration error: the engine refuses to run rather than construct a
// zero-sized grid.
func NewDriver(spec model.ToteSpec) (*Driver, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tote spec: %w", err)
	}
	return &Driver{spec: spec}, nil
}

// fitsEmptyToteDims reports whether any orientation of the item fits within
// the outer dimensions of an empty tote.
func (d *Driver) fitsEmptyToteDims(item model.Item) bool {
	for _, o := range item.Orientations {
		if o.Length <= d.spec.MaxLength && o.Width <= d.spec.MaxWidth && o.Height <= d.spec.MaxHeight {
			return true
		}
	}
	return false
}

// Run packs the item stream and returns the assembled result. When the
// step callback cancels with ErrStopPacking, the partial result (all totes
// finalized so far plus a snapshot of the open tote) is returned together
// with ErrStopPacking; nothing is ever rolled back.
func (d *Driver) Run(items []model.Item, step StepFunc) (model.PackResult, error) {
	result := model.PackResult{
		RunID: model.NewRunID(),
		Spec:  d.spec,
	}

	nextToteID := 1
	current := model.NewTote(nextToteID, d.spec)

	finish := func() {
		// The last open tote is finalized when it holds items, or when it
		// is tote #1 and nothing has been finalized yet, so every run
		// produces at least one tote summary.
		if len(current.Items) > 0 || (current.ID == 1 && len(result.Totes) == 0) {
			result.Totes = append(result.Totes, Finalize(current))
		}
		result.Records = buildRecords(result.Totes)
	}

	for i, item := range items {
		s := Step{Index: i, SKU: item.SKU}

		switch {
		case item.Volume > d.spec.MaxVolume():
			entry := model.UnplaceableItem{SKU: item.SKU, Reason: model.ReasonTooLargeByVolume}
			result.Unplaceable = append(result.Unplaceable, entry)
			s.Unplaceable = &entry

		case !d.fitsEmptyToteDims(item):
			entry := model.UnplaceableItem{SKU: item.SKU, Reason: model.ReasonTooLargeByDimensions}
			result.Unplaceable = append(result.Unplaceable, entry)
			s.Unplaceable = &entry

		default:
			placement := FindPlacement(item, current)
			// Volumetric gate: a fast-path veto alongside the geometric
			// search. It can only reject; the search stays authoritative.
			if placement.CanFit && item.Volume <= current.RemainingVolume {
				placed := Commit(item, current, placement)
				s.Placed = true
				s.ToteID = current.ID
				s.ToteUtil = placed.UtilizationAtPlacement
				break
			}

			// Current tote is exhausted for this item: freeze it, open a
			// fresh tote and retry exactly once.
			result.Totes = append(result.Totes, Finalize(current))
			nextToteID++
			current = model.NewTote(nextToteID, d.spec)

			placement = FindPlacement(item, current)
			if placement.CanFit && item.Volume <= current.RemainingVolume {
				placed := Commit(item, current, placement)
				s.Placed = true
				s.ToteID = current.ID
				s.ToteUtil = placed.UtilizationAtPlacement
			} else {
				// Does not fit even in a brand-new empty tote. The fresh
				// tote stays open for subsequent items.
				entry := model.UnplaceableItem{SKU: item.SKU, Reason: model.ReasonNoFitInFreshTote}
				result.Unplaceable = append(result.Unplaceable, entry)
				s.Unplaceable = &entry
			}
		}

		s.TotesClosed = len(result.Totes)
		if step != nil {
			if err := step(s); err != nil {
				finish()
				if errors.Is(err, ErrStopPacking) {
					return result, ErrStopPacking
				}
				return result, err
			}
		}
	}

	finish()
	return result, nil
}

// buildRecords flattens finalized totes into the per-item hand-off records:
// grid coordinates are scaled to absolute mm, z is stored directly.
func buildRecords(totes []*model.Tote) []model.PlacementRecord {
	var records []model.PlacementRecord
	for _, tote := range totes {
		for _, item := range tote.Items {
			records = append(records, model.PlacementRecord{
				ToteID: tote.ID,
				ToteDims: model.Dims{
					Length: tote.Spec.MaxLength,
					Width:  tote.Spec.MaxWidth,
					Height: tote.Spec.MaxHeight,
				},
				SKU:                item.SKU,
				OriginalDims:       item.OriginalDims,
				PlacedDims:         item.PlacedDims,
				X:                  float64(item.GridX) * tote.Spec.Resolution,
				Y:                  float64(item.GridY) * tote.Spec.Resolution,
				Z:                  item.ZLevel,
				UtilizationPercent: item.UtilizationAtPlacement,
			})
		}
	}
	return records
}
