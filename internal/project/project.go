package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/ToteStack/internal/model"
)

// SaveProject persists a project to the given path as indented JSON,
// creating parent directories as needed.
func SaveProject(path string, p model.Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// LoadProject reads a project from the given path.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if p.Items == nil {
		p.Items = []model.ItemInput{}
	}
	return p, nil
}

// LoadToteSpec reads a tote spec from a JSON or YAML file, dispatching on
// the file extension, and validates it before returning.
func LoadToteSpec(path string) (model.ToteSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ToteSpec{}, fmt.Errorf("failed to read spec file: %w", err)
	}

	var spec model.ToteSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return model.ToteSpec{}, fmt.Errorf("failed to parse YAML spec: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &spec); err != nil {
			return model.ToteSpec{}, fmt.Errorf("failed to parse JSON spec: %w", err)
		}
	}

	if err := spec.Validate(); err != nil {
		return model.ToteSpec{}, fmt.Errorf("spec file %s: %w", path, err)
	}
	return spec, nil
}

// SaveToteSpec writes a tote spec to a JSON or YAML file, dispatching on
// the file extension.
func SaveToteSpec(path string, spec model.ToteSpec) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(spec)
	default:
		data, err = json.MarshalIndent(spec, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write spec file: %w", err)
	}
	return nil
}
