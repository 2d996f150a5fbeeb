package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/ToteStack/internal/model"
)

const maxHistoryEntries = 200

// RunHistoryEntry is a compact record of one finished packing run.
type RunHistoryEntry struct {
	RunID              string         `json:"run_id"`
	FinishedAt         string         `json:"finished_at"` // RFC3339 UTC
	Spec               model.ToteSpec `json:"spec"`
	TotesUsed          int            `json:"totes_used"`
	ItemsPlaced        int            `json:"items_placed"`
	UnplaceableCount   int            `json:"unplaceable_count"`
	OverallUtilization float64        `json:"overall_utilization"`
}

// NewHistoryEntry summarizes a packing result into a history entry
// timestamped now.
func NewHistoryEntry(result model.PackResult) RunHistoryEntry {
	return RunHistoryEntry{
		RunID:              result.RunID,
		FinishedAt:         time.Now().UTC().Format(time.RFC3339),
		Spec:               result.Spec,
		TotesUsed:          len(result.Totes),
		ItemsPlaced:        result.ItemsPlaced(),
		UnplaceableCount:   len(result.Unplaceable),
		OverallUtilization: result.OverallUtilization(),
	}
}

// LoadRunHistory reads the run history from the given path. A missing file
// yields an empty history with no error.
func LoadRunHistory(path string) ([]RunHistoryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var entries []RunHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return entries, nil
}

// AppendRunHistory adds an entry to the history file, keeping only the most
// recent maxHistoryEntries entries.
func AppendRunHistory(path string, entry RunHistoryEntry) error {
	entries, err := LoadRunHistory(path)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if len(entries) > maxHistoryEntries {
		entries = entries[len(entries)-maxHistoryEntries:]
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
