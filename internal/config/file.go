package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the shape of an optional dmf.yaml project file, parsed
// the same way the teacher's pkg/ext config loads funxy.yaml: a thin
// struct unmarshaled with gopkg.in/yaml.v3 and then folded into a
// *Context.
type FileConfig struct {
	StubRoot string `yaml:"stubRoot"`
	Version  string `yaml:"pythonVersion"`
	Platform string `yaml:"platform"`
	Mode     string `yaml:"mode"`
	Context  int    `yaml:"contextDepth"`
}

// LoadFile reads and parses a dmf.yaml at path. A missing file is not an
// error: callers fall back to DefaultContext() plus environment
// variables.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &fc, nil
}

// Apply merges non-zero fields of fc into ctx, giving the file the
// lowest precedence (callers should apply environment variables and CLI
// flags afterward).
func (fc *FileConfig) Apply(ctx *Context) {
	if fc == nil {
		return
	}
	if fc.StubRoot != "" {
		ctx.StubRoot = fc.StubRoot
	}
	if fc.Version != "" {
		var major, minor int
		if _, err := fmt.Sscanf(fc.Version, "%d.%d", &major, &minor); err == nil {
			ctx.LanguageVersion = LanguageVersion{Major: major, Minor: minor}
		}
	}
	if fc.Platform != "" {
		ctx.Platform = fc.Platform
	}
	if fc.Mode != "" {
		ctx.Mode = Mode(fc.Mode)
	}
	if fc.Context > 0 {
		ctx.ContextDepth = fc.Context
	}
}

// ApplyEnv overlays DMF_STUB_ROOT / DMF_PY_VERSION / DMF_PLATFORM /
// DMF_MODE environment variables onto ctx, taking precedence over the
// file config but not over explicit CLI flags.
func ApplyEnv(ctx *Context, getenv func(string) string) {
	if v := getenv("DMF_STUB_ROOT"); v != "" {
		ctx.StubRoot = v
	}
	if v := getenv("DMF_PY_VERSION"); v != "" {
		var major, minor int
		if _, err := fmt.Sscanf(v, "%d.%d", &major, &minor); err == nil {
			ctx.LanguageVersion = LanguageVersion{Major: major, Minor: minor}
		}
	}
	if v := getenv("DMF_PLATFORM"); v != "" {
		ctx.Platform = v
	}
	if v := getenv("DMF_MODE"); v != "" {
		ctx.Mode = Mode(v)
	}
}
