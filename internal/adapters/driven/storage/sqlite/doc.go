// Package sqlite provides the SQLite implementation of driven.CorpusStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The corpus is stored in three tables: documents, the flat
// sentence list with one embedding BLOB per row, and a key/value table for
// corpus-wide metadata such as the embedding model and dimension.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.overlap/data/corpus.db
//
// # Atomicity
//
// Append writes a whole batch inside one transaction, so an interrupted or
// failed ingestion leaves the previously persisted corpus untouched.
package sqlite
