package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// Metadata keys in corpus_meta.
const (
	metaFormatVersion = "format_version"
	metaModel         = "embedding_model"
	metaDimensions    = "dimensions"
)

// FormatVersion is the corpus serialization version this store reads and writes.
const FormatVersion = "1"

var _ driven.CorpusStore = (*Store)(nil)

// Load reads the whole corpus in position order and checks its alignment.
func (s *Store) Load(ctx context.Context) (*domain.CorpusSnapshot, error) {
	snap := &domain.CorpusSnapshot{}

	meta, err := s.meta(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if v := meta[metaFormatVersion]; v != "" && v != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported corpus format %s", domain.ErrCorpusInconsistent, v)
	}
	snap.Model = meta[metaModel]
	if v, ok := meta[metaDimensions]; ok {
		if snap.Dims, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("%w: bad dimensions %q", domain.ErrCorpusInconsistent, v)
		}
	}

	if snap.Documents, err = s.loadDocuments(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, document_ordinal, ordinal, text, embedding
		FROM sentences ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sentences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			position int
			ref      domain.SentenceRef
			text     string
			blob     []byte
		)
		if err := rows.Scan(&position, &ref.Document, &ref.Ordinal, &text, &blob); err != nil {
			return nil, fmt.Errorf("scanning sentence: %w", err)
		}
		if position != len(snap.Sentences) {
			return nil, fmt.Errorf("%w: sentence position %d, want %d",
				domain.ErrCorpusInconsistent, position, len(snap.Sentences))
		}
		if !validBlob(blob) {
			return nil, fmt.Errorf("%w: sentence %d has a %d byte embedding",
				domain.ErrCorpusInconsistent, position, len(blob))
		}
		snap.Sentences = append(snap.Sentences, text)
		snap.Refs = append(snap.Refs, ref)
		snap.Embeddings = append(snap.Embeddings, bytesToFloat32Slice(blob))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sentences: %w", err)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, id, source, sentence_count, failure, ingested_at
		FROM documents ORDER BY ordinal
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var (
			doc        domain.Document
			ingestedAt string
		)
		if err := rows.Scan(&doc.Ordinal, &doc.ID, &doc.Source, &doc.SentenceCount,
			&doc.Failure, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, ingestedAt); err == nil {
			doc.IngestedAt = t
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) meta(ctx context.Context, q querier) (map[string]string, error) {
	rows, err := q.QueryContext(ctx, "SELECT key, value FROM corpus_meta")
	if err != nil {
		return nil, fmt.Errorf("querying corpus metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning corpus metadata: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// Append writes the batch in a single transaction.
func (s *Store) Append(ctx context.Context, batch *domain.CorpusAppend) error {
	if batch == nil || batch.Empty() {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		meta, err := s.meta(ctx, tx)
		if err != nil {
			return err
		}
		if v, ok := meta[metaDimensions]; ok && batch.Dimensions > 0 && v != strconv.Itoa(batch.Dimensions) {
			return fmt.Errorf("%w: batch has %d dimensions, corpus has %s",
				domain.ErrDimensionMismatch, batch.Dimensions, v)
		}

		var next int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM sentences`).Scan(&next); err != nil {
			return fmt.Errorf("reading next position: %w", err)
		}
		if err := insertDocuments(ctx, tx, batch.Documents); err != nil {
			return err
		}
		if err := insertSentences(ctx, tx, next, batch.Sentences); err != nil {
			return err
		}

		for key, value := range map[string]string{
			metaDimensions: dimensionsValue(batch.Dimensions),
			metaModel:      batch.Model,
		} {
			if value == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO corpus_meta (key, value) VALUES (?, ?)`, key, value); err != nil {
				return fmt.Errorf("saving corpus %s: %w", key, err)
			}
		}
		return nil
	})
}

func dimensionsValue(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func insertDocuments(ctx context.Context, tx *sql.Tx, docs []domain.Document) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (ordinal, id, source, sentence_count, failure, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing document insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if _, err := stmt.ExecContext(ctx, doc.Ordinal, doc.ID, doc.Source, doc.SentenceCount,
			doc.Failure, doc.IngestedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("saving document %s: %w", doc.Source, err)
		}
	}
	return nil
}

// insertSentences requires positions to continue the corpus without gaps.
func insertSentences(ctx context.Context, tx *sql.Tx, next int, sentences []domain.Sentence) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sentences (position, document_ordinal, ordinal, text, embedding)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing sentence insert: %w", err)
	}
	defer stmt.Close()

	for i, sent := range sentences {
		if sent.Position != next+i {
			return fmt.Errorf("%w: sentence position %d, want %d",
				domain.ErrCorpusInconsistent, sent.Position, next+i)
		}
		if _, err := stmt.ExecContext(ctx, sent.Position, sent.Ref.Document, sent.Ref.Ordinal,
			sent.Text, float32SliceToBytes(sent.Embedding)); err != nil {
			return fmt.Errorf("saving sentence %d: %w", sent.Position, err)
		}
	}
	return nil
}
