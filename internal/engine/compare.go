package engine

import (
	"fmt"

	"github.com/piwi3910/ToteStack/internal/model"
)

// ComparisonScenario defines a named tote spec to compare.
type ComparisonScenario struct {
	Name string
	Spec model.ToteSpec
}

// ComparisonResult holds the packing result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario           ComparisonScenario
	Result             model.PackResult
	TotesUsed          int
	ItemsPlaced        int
	OverallUtilization float64
	UnplaceableCount   int
}

// CompareScenarios packs the same item stream against each candidate tote
// spec and returns the results in scenario order. Runs are strictly
// sequential: each run owns its own totes, and the only safe unit of
// parallelism would be across full runs anyway.
func CompareScenarios(scenarios []ComparisonScenario, items []model.Item) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		driver, err := NewDriver(scenario.Spec)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		// Each run gets a fresh copy of the stream so placement fields
		// written by one run never leak into the next.
		stream := make([]model.Item, len(items))
		copy(stream, items)

		result, err := driver.Run(stream, nil)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		results = append(results, ComparisonResult{
			Scenario:           scenario,
			Result:             result,
			TotesUsed:          len(result.Totes),
			ItemsPlaced:        result.ItemsPlaced(),
			OverallUtilization: result.OverallUtilization(),
			UnplaceableCount:   len(result.Unplaceable),
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current spec, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.ToteSpec) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Spec", Spec: base},
	}

	// Scenario: coarser grid (faster search, more internal fragmentation)
	coarse := base
	coarse.Resolution = base.Resolution * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name: fmt.Sprintf("Resolution %.0fmm (double)", coarse.Resolution),
		Spec: coarse,
	})

	// Scenario: finer grid, if the current resolution allows halving
	if base.Resolution >= 2 {
		fine := base
		fine.Resolution = base.Resolution / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name: fmt.Sprintf("Resolution %.0fmm (half)", fine.Resolution),
			Spec: fine,
		})
	}

	// Scenario: 20% taller tote
	tall := base
	tall.MaxHeight = base.MaxHeight * 1.2
	scenarios = append(scenarios, ComparisonScenario{
		Name: fmt.Sprintf("Height %.0fmm (+20%%)", tall.MaxHeight),
		Spec: tall,
	})

	return scenarios
}
