package engine

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lemma-lang/lemma/parse"
)

// ResourceLimits bounds how much work one engine will accept, per spec.md
// §5: a source's byte size and expression nesting depth (checked at parse
// time), a single fact value's byte size, and one evaluate call's
// wall-clock budget. Engine.Invert is not bounded by the time budget.
type ResourceLimits struct {
	MaxFileSizeBytes    int    `yaml:"max_file_size_bytes"`
	MaxExpressionDepth  int    `yaml:"max_expression_depth"`
	MaxFactValueBytes   int    `yaml:"max_fact_value_bytes"`
	MaxEvaluationTimeMs uint64 `yaml:"max_evaluation_time_ms"`
}

// DefaultResourceLimits returns the generous-but-bounded defaults spec.md's
// resource model is built around: real documents use a tiny fraction of
// each of these.
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		MaxFileSizeBytes:    5 * 1024 * 1024,
		MaxExpressionDepth:  100,
		MaxFactValueBytes:   1024,
		MaxEvaluationTimeMs: 1000,
	}
}

func (l ResourceLimits) parseLimits() parse.Limits {
	return parse.Limits{
		MaxFileSizeBytes:   l.MaxFileSizeBytes,
		MaxExpressionDepth: l.MaxExpressionDepth,
		MaxFactValueBytes:  l.MaxFactValueBytes,
	}
}

// LimitsPath returns the XDG config path a ResourceLimits file would live
// at, mirroring how the teacher locates its own configuration directory.
func LimitsPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("lemma", "limits.yaml"))
}

// LoadResourceLimits reads and unmarshals a ResourceLimits YAML file.
// Programmatic construction via DefaultResourceLimits remains the primary
// path; this is a convenience for callers that want the file-backed one.
func LoadResourceLimits(path string) (ResourceLimits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResourceLimits{}, err
	}
	limits := DefaultResourceLimits()
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return ResourceLimits{}, errors.Wrap(err, "yaml.Unmarshal")
	}
	return limits, nil
}

// SaveResourceLimits writes limits to path as YAML, creating its parent
// directory if necessary.
func SaveResourceLimits(path string, limits ResourceLimits) error {
	data, err := yaml.Marshal(limits)
	if err != nil {
		return errors.Wrap(err, "yaml.Marshal")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "os.MkdirAll")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "os.WriteFile")
	}
	return nil
}
