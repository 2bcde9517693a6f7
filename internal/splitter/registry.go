package splitter

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// BuilderFunc creates a stage from generic config parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.SentenceStage, error)

// Registry maps stage names to their builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new stage registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a stage builder. name should match the stage's Name().
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a stage by name with the given config.
func (r *Registry) Build(name string, cfg map[string]any) (driven.SentenceStage, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown sentence stage: %s", name)
	}
	return builder(cfg)
}

// BuildPipeline creates a pipeline from stage names and per-stage config.
func (r *Registry) BuildPipeline(names []string, cfgs map[string]map[string]any) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range names {
		stage, err := r.Build(name, cfgs[name])
		if err != nil {
			return nil, err
		}
		p.Add(stage)
	}
	return p, nil
}

// Has returns true if a stage with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered stage names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
