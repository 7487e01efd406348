// Package childconfig derives a deterministic child conversation
// configuration from the parent's, optionally applying a named profile
// loaded from YAML. A child config is always a freshly built value, never a
// mutation of the parent's.
package childconfig

import (
	"os"

	"gopkg.in/yaml.v3"

	"orchestrun/orcherr"
)

// Config is the subset of child-conversation configuration the core cares
// about. Everything else (model choice, tool allowlist, etc.) is opaque to
// the core and simply carried through from the parent or the profile file.
type Config struct {
	Cwd              string            `yaml:"cwd"`
	SandboxExecutable string           `yaml:"sandbox_executable"`
	ReasoningEffort  string            `yaml:"reasoning_effort"`
	Extra            map[string]string `yaml:"extra,omitempty"`
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	clone := c
	if c.Extra != nil {
		clone.Extra = make(map[string]string, len(c.Extra))
		for k, v := range c.Extra {
			clone.Extra[k] = v
		}
	}
	return clone
}

// ProfileSet enumerates the profiles installed for a parent. A profile name
// must be a member of the installed set before it is loaded, rather than
// assumed valid.
type ProfileSet struct {
	// Dir is the directory profile YAML files (named "<profile>.yaml") live
	// in.
	Dir string
	// Names lists the profiles known to be installed, independent of
	// whether their file can still be read from Dir (useful for tests that
	// never touch the filesystem).
	Names []string
}

// Has reports whether name is a member of the installed profile set.
func (p ProfileSet) Has(name string) bool {
	for _, n := range p.Names {
		if n == name {
			return true
		}
	}
	return false
}

// LoadProfile decodes the YAML file for the named profile. It is the only
// place in this package that touches the filesystem.
func (p ProfileSet) LoadProfile(name string) (Config, error) {
	path := p.Dir + "/" + name + ".yaml"
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, orcherr.Wrap(orcherr.KindBadChildConfig, "read profile file", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, orcherr.Wrap(orcherr.KindBadChildConfig, "parse profile yaml", err)
	}
	return cfg, nil
}

// Builder derives child configurations from a parent's.
type Builder struct {
	Profiles ProfileSet
	// DefaultChildProfiles is the parent's declared default profile list,
	// consulted when the caller supplies no profile.
	DefaultChildProfiles []string
}

// Build picks the child config source: an explicitly requested profile, the
// parent's first default child profile, or a clone of the parent config.
// Reasoning effort is forced to low in every branch.
func (b Builder) Build(parent Config, profile string) (Config, error) {
	switch {
	case profile != "":
		if !b.Profiles.Has(profile) {
			return Config{}, orcherr.BadChildConfig("profile \"" + profile + "\" is not installed")
		}
		cfg, err := b.Profiles.LoadProfile(profile)
		if err != nil {
			return Config{}, err
		}
		cfg.Cwd = parent.Cwd
		cfg.SandboxExecutable = parent.SandboxExecutable
		cfg.ReasoningEffort = "low"
		return cfg, nil

	case len(b.DefaultChildProfiles) > 0:
		return b.Build(parent, b.DefaultChildProfiles[0])

	default:
		cfg := parent.Clone()
		cfg.ReasoningEffort = "low"
		return cfg, nil
	}
}
