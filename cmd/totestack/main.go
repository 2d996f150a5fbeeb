// ToteStack is a height-map tote packing simulator.
//
// A command line tool that packs a stream of rectangular cases into
// fixed-size totes using a greedy height-map heuristic, and exports the
// resulting placements for downstream reporting.
//
// Build:
//   go build -o totestack ./cmd/totestack
//
// Usage:
//   totestack -items cases.csv -out-csv placements.csv
//   totestack -generate 10 -seed 42 -report report.pdf
//   totestack -spec tote.yaml -items cases.xlsx -compare

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/piwi3910/ToteStack/internal/engine"
	"github.com/piwi3910/ToteStack/internal/export"
	"github.com/piwi3910/ToteStack/internal/importer"
	"github.com/piwi3910/ToteStack/internal/model"
	"github.com/piwi3910/ToteStack/internal/project"
)

func main() {
	var (
		specPath  = flag.String("spec", "", "tote spec file (.json, .yaml); default spec when empty")
		itemsPath = flag.String("items", "", "item list to import (.csv, .xlsx)")
		generate  = flag.Int("generate", 0, "generate N random items instead of importing")
		seed      = flag.Int64("seed", 42, "random seed for -generate")
		outCSV    = flag.String("out-csv", "", "write placement records as CSV")
		outJSON   = flag.String("out-json", "", "write full result as JSON")
		report    = flag.String("report", "", "write packing report PDF")
		labels    = flag.String("labels", "", "write QR item labels PDF")
		saveProj  = flag.String("save-project", "", "save items, spec and result as a project file")
		compare   = flag.Bool("compare", false, "compare the default what-if tote spec scenarios")
		noHistory = flag.Bool("no-history", false, "skip appending this run to the history file")
		quiet     = flag.Bool("quiet", false, "suppress per-item progress output")
	)
	flag.Parse()

	if err := run(*specPath, *itemsPath, *generate, *seed, *outCSV, *outJSON,
		*report, *labels, *saveProj, *compare, *noHistory, *quiet); err != nil {
		fmt.Fprintf(os.Stderr, "totestack: %v\n", err)
		os.Exit(1)
	}
}

func run(specPath, itemsPath string, generate int, seed int64,
	outCSV, outJSON, report, labels, saveProj string, compare, noHistory, quiet bool) error {

	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load app config: %w", err)
	}

	spec := model.DefaultToteSpec()
	config.ApplyToSpec(&spec)
	if specPath != "" {
		spec, err = project.LoadToteSpec(specPath)
		if err != nil {
			return err
		}
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	var inputs []model.ItemInput
	var items []model.Item
	switch {
	case generate > 0:
		items = engine.GenerateItems(generate, seed, spec)
		for _, it := range items {
			inputs = append(inputs, model.ItemInput{
				SKU:      it.SKU,
				Length:   it.OriginalDims.Length,
				Width:    it.OriginalDims.Width,
				Height:   it.OriginalDims.Height,
				Quantity: 1,
			})
		}
	case itemsPath != "":
		imported := importer.Import(itemsPath)
		for _, w := range imported.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		for _, e := range imported.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		if len(imported.Items) == 0 {
			return fmt.Errorf("no importable items in %s", itemsPath)
		}
		inputs = imported.Inputs
		items = imported.Items
	default:
		return fmt.Errorf("nothing to pack: use -items or -generate")
	}

	if compare {
		return runComparison(spec, items)
	}

	driver, err := engine.NewDriver(spec)
	if err != nil {
		return err
	}

	var step engine.StepFunc
	if !quiet {
		step = func(s engine.Step) error {
			switch {
			case s.Placed:
				fmt.Printf("  placed %s in tote %d (utilization %.2f%%)\n", s.SKU, s.ToteID, s.ToteUtil)
			case s.Unplaceable != nil:
				fmt.Printf("  unplaceable %s: %s\n", s.SKU, s.Unplaceable.Reason)
			}
			return nil
		}
		fmt.Printf("Packing %d items into %.0fx%.0fx%.0fmm totes (resolution %.0fmm)\n",
			len(items), spec.MaxLength, spec.MaxWidth, spec.MaxHeight, spec.Resolution)
	}

	result, err := driver.Run(items, step)
	if err != nil {
		return err
	}

	printSummary(result)

	if outCSV != "" {
		if err := export.WriteRecordsCSV(outCSV, result); err != nil {
			return err
		}
	}
	if outJSON != "" {
		if err := export.WriteResultJSON(outJSON, result); err != nil {
			return err
		}
	}
	if report != "" {
		if err := export.ExportPDF(report, result); err != nil {
			return err
		}
	}
	if labels != "" {
		if err := export.ExportLabels(labels, result); err != nil {
			return err
		}
	}
	if saveProj != "" {
		proj := model.Project{Name: "Packing run " + result.RunID, Spec: spec, Items: inputs, Result: &result}
		if err := project.SaveProject(saveProj, proj); err != nil {
			return err
		}
		config.AddRecentProject(saveProj)
		if err := project.SaveAppConfig(project.DefaultConfigPath(), config); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not update app config: %v\n", err)
		}
	}

	if !noHistory {
		historyPath := config.HistoryPath
		if historyPath == "" {
			historyPath = project.DefaultHistoryPath()
		}
		if err := project.AppendRunHistory(historyPath, project.NewHistoryEntry(result)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not append run history: %v\n", err)
		}
	}

	return nil
}

// printSummary writes the per-tote utilization table for a finished run.
func printSummary(result model.PackResult) {
	fmt.Println("\n--- Tote Utilization Summary ---")
	for _, tote := range result.Totes {
		fmt.Printf("Tote ID: %d, Items: %d, Final Utilization: %.2f%%\n",
			tote.ID, len(tote.Items), tote.UtilizationPercent)
	}
	if len(result.Unplaceable) > 0 {
		fmt.Printf("Unplaceable items: %d\n", len(result.Unplaceable))
		for _, u := range result.Unplaceable {
			fmt.Printf("  - SKU: %s, Reason: %s\n", u.SKU, u.Reason)
		}
	}
	fmt.Printf("Overall utilization: %.2f%% across %d tote(s)\n",
		result.OverallUtilization(), len(result.Totes))
}

// runComparison packs the stream against the default what-if scenarios and
// prints a side-by-side table.
func runComparison(spec model.ToteSpec, items []model.Item) error {
	scenarios := engine.BuildDefaultScenarios(spec)
	results, err := engine.CompareScenarios(scenarios, items)
	if err != nil {
		return err
	}

	fmt.Printf("%-28s %8s %8s %12s %12s\n", "Scenario", "Totes", "Placed", "Unplaceable", "Utilization")
	for _, r := range results {
		fmt.Printf("%-28s %8d %8d %12d %11.2f%%\n",
			r.Scenario.Name, r.TotesUsed, r.ItemsPlaced, r.UnplaceableCount, r.OverallUtilization)
	}
	return nil
}
