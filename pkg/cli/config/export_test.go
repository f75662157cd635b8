package config

// NewProfileForTest creates a Profile with the given path for testing
func NewProfileForTest(path string) *Profile {
	return &Profile{path: path}
}
