package engine

import (
	"fmt"
	"math/rand"

	"github.com/piwi3910/ToteStack/internal/model"
)

// GenerateItems produces a reproducible random item stream bounded by the
// tote spec: dimensions stay at least 100mm (150mm of height) inside the
// tote bounds and at least twice the height-map resolution, so generated
// items are always placeable in an empty tote. The same seed yields the
// same stream.
func GenerateItems(n int, seed int64, spec model.ToteSpec) []model.Item {
	r := rand.New(rand.NewSource(seed))

	maxL := int(spec.MaxLength) - 100
	maxW := int(spec.MaxWidth) - 100
	maxH := int(spec.MaxHeight) - 150
	minDim := int(2 * spec.Resolution)

	randIn := func(lo, hi int) int {
		if hi < lo {
			hi = lo
		}
		return lo + r.Intn(hi-lo+1)
	}

	items := make([]model.Item, 0, n)
	for i := 0; i < n; i++ {
		l := randIn(50, maxL)
		w := randIn(50, maxW)
		h := randIn(50, maxH)
		if l < minDim {
			l = minDim
		}
		if w < minDim {
			w = minDim
		}
		if h < minDim {
			h = minDim
		}
		sku := fmt.Sprintf("SKU%03d", i+1)
		items = append(items, model.NewItem(sku, float64(l), float64(w), float64(h)))
	}
	return items
}
