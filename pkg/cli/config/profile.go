package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Profile is the optional generation profile loaded from a TOML file. It
// carries per-deployment defaults that apply when a request leaves the
// corresponding field empty.
type Profile struct {
	path string

	DefaultLevel        string `toml:"default_level"`
	DefaultRequirements string `toml:"default_requirements"`
}

// Flags returns CLI flags for profile configuration
func (p *Profile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Path to generation profile TOML file",
			Sources:     cli.EnvVars("GRIMOIRE_PROFILE"),
			Destination: &p.path,
		},
	}
}

// Validate checks if the Profile is valid
func (p *Profile) Validate() error {
	if p.DefaultLevel != "" {
		if err := types.EducationLevel(p.DefaultLevel).Validate(); err != nil {
			return goerr.Wrap(err, "invalid default level in profile")
		}
	}
	return nil
}

// Configure loads the profile file when a path is set. A missing path
// yields an empty profile with built-in defaults.
func (p *Profile) Configure() error {
	if p.path == "" {
		return nil
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return goerr.Wrap(err, "failed to read profile", goerr.V("path", p.path))
	}
	if err := toml.Unmarshal(data, p); err != nil {
		return goerr.Wrap(err, "failed to parse profile", goerr.V("path", p.path))
	}

	return p.Validate()
}

// Level resolves the effective education level for a request value
func (p *Profile) Level(requested string) types.EducationLevel {
	if requested != "" {
		return types.EducationLevel(requested)
	}
	return types.EducationLevel(p.DefaultLevel).OrDefault()
}

// Requirements resolves the effective custom requirements
func (p *Profile) Requirements(requested string) string {
	if requested != "" {
		return requested
	}
	return p.DefaultRequirements
}
