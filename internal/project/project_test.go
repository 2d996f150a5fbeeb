package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ToteStack/internal/model"
)

func TestSaveLoadProject_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.json")

	proj := model.NewProject()
	proj.Name = "Warehouse batch 7"
	proj.Spec = model.ToteSpec{MaxLength: 1000, MaxWidth: 1000, MaxHeight: 1000, Resolution: 100}
	proj.Items = []model.ItemInput{
		{SKU: "A", Length: 500, Width: 500, Height: 500, Quantity: 2},
	}

	require.NoError(t, SaveProject(path, proj))

	loaded, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, proj.Name, loaded.Name)
	assert.Equal(t, proj.Spec, loaded.Spec)
	assert.Equal(t, proj.Items, loaded.Items)
	assert.Nil(t, loaded.Result)
}

func TestLoadProject_MissingFile(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadToteSpec_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tote.json")
	content := `{"max_length": 600, "max_width": 400, "max_height": 400, "resolution": 10}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	spec, err := LoadToteSpec(path)
	require.NoError(t, err)
	assert.Equal(t, 600.0, spec.MaxLength)
	assert.Equal(t, 10.0, spec.Resolution)
}

func TestLoadToteSpec_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tote.yaml")
	content := "max_length: 1000\nmax_width: 1000\nmax_height: 1000\nresolution: 100\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	spec, err := LoadToteSpec(path)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, spec.MaxLength)
	assert.Equal(t, 100.0, spec.Resolution)
}

func TestLoadToteSpec_InvalidSpecRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tote.yaml")
	content := "max_length: -5\nmax_width: 400\nmax_height: 400\nresolution: 10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadToteSpec(path)
	assert.Error(t, err)
}

func TestSaveToteSpec_YAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tote.yml")
	spec := model.DefaultToteSpec()

	require.NoError(t, SaveToteSpec(path, spec))
	loaded, err := LoadToteSpec(path)
	require.NoError(t, err)
	assert.Equal(t, spec, loaded)
}

func TestLoadAppConfig_MissingFileReturnsDefaults(t *testing.T) {
	config, err := LoadAppConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), config)
}

func TestSaveLoadAppConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.json")
	config := model.DefaultAppConfig()
	config.DefaultMaxHeight = 500
	config.RecentProjects = []string{"/tmp/a.json"}

	require.NoError(t, SaveAppConfig(path, config))
	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestRunHistory_AppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	result := model.PackResult{
		RunID: "abc123",
		Spec:  model.DefaultToteSpec(),
	}
	require.NoError(t, AppendRunHistory(path, NewHistoryEntry(result)))
	require.NoError(t, AppendRunHistory(path, NewHistoryEntry(model.PackResult{RunID: "def456", Spec: model.DefaultToteSpec()})))

	entries, err := LoadRunHistory(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "abc123", entries[0].RunID)
	assert.Equal(t, "def456", entries[1].RunID)
	assert.NotEmpty(t, entries[0].FinishedAt)
}

func TestLoadRunHistory_MissingFile(t *testing.T) {
	entries, err := LoadRunHistory(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	config := model.DefaultAppConfig()
	config.DefaultResolution = 20
	history := []RunHistoryEntry{{RunID: "abc123", TotesUsed: 3}}

	require.NoError(t, ExportAllData(path, config, history))

	backup, err := ImportAllData(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", backup.Version)
	assert.Equal(t, config, backup.Config)
	require.Len(t, backup.History, 1)
	assert.Equal(t, "abc123", backup.History[0].RunID)
}

func TestImportAllData_RejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"config": {}}`), 0644))

	_, err := ImportAllData(path)
	assert.Error(t, err)
}
