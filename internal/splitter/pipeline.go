// Package splitter turns raw document text into sentences by running it
// through an ordered pipeline of stages.
package splitter

import (
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.SentenceSplitter = (*Pipeline)(nil)

// Pipeline chains SentenceStages and runs them in order.
// The first stage receives the whole text as a single element.
type Pipeline struct {
	stages []driven.SentenceStage
}

// NewPipeline creates a pipeline with the given stages, executed in order.
func NewPipeline(stages ...driven.SentenceStage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Split runs text through every stage.
func (p *Pipeline) Split(text string) []string {
	if text == "" {
		return nil
	}
	out := []string{text}
	for _, stage := range p.stages {
		out = stage.Process(out)
		if len(out) == 0 {
			return nil
		}
	}
	return out
}

// Add appends a stage to the pipeline.
func (p *Pipeline) Add(stage driven.SentenceStage) {
	p.stages = append(p.stages, stage)
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}
