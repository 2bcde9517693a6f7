package driven

// SentenceSplitter splits raw text into ordered sentences.
type SentenceSplitter interface {
	Split(text string) []string
}

// SentenceStage is one step of a sentence splitting pipeline. A stage may
// split, rewrite or drop the sentences it receives.
type SentenceStage interface {
	// Name returns the stage name for logging and configuration.
	Name() string

	// Process transforms the sentences produced by the previous stage.
	Process(sentences []string) []string
}
