package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default tote spec applied to new projects
	DefaultMaxLength  float64 `json:"default_max_length"`
	DefaultMaxWidth   float64 `json:"default_max_width"`
	DefaultMaxHeight  float64 `json:"default_max_height"`
	DefaultResolution float64 `json:"default_resolution"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	HistoryPath    string   `json:"history_path"` // run history file, empty = default location
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultToteSpec().
func DefaultAppConfig() AppConfig {
	spec := DefaultToteSpec()
	return AppConfig{
		DefaultMaxLength:  spec.MaxLength,
		DefaultMaxWidth:   spec.MaxWidth,
		DefaultMaxHeight:  spec.MaxHeight,
		DefaultResolution: spec.Resolution,
		RecentProjects:    []string{},
	}
}

// maxRecentProjects caps the recent project list kept in the config file.
const maxRecentProjects = 10

// AddRecentProject moves path to the front of the recent project list,
// dropping any earlier occurrence and trimming the list to its cap.
func (c *AppConfig) AddRecentProject(path string) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentProjects {
		recent = recent[:maxRecentProjects]
	}
	c.RecentProjects = recent
}

// ApplyToSpec copies the default values from AppConfig into a ToteSpec.
// This is used when creating a new project so it inherits the user's saved
// defaults.
func (c AppConfig) ApplyToSpec(s *ToteSpec) {
	s.MaxLength = c.DefaultMaxLength
	s.MaxWidth = c.DefaultMaxWidth
	s.MaxHeight = c.DefaultMaxHeight
	s.Resolution = c.DefaultResolution
}
