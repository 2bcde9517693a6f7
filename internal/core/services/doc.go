// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// CorpusIndex owns the in-memory corpus and serializes every write to it.
// IngestService and CheckService are thin orchestrators on top of it.
package services
