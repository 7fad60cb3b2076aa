package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL creates the crawl schema. Safe to run on every start; both the
// crawler and the query service apply it so either can come up first.
const schemaSQL = `CREATE TABLE IF NOT EXISTS documents (
    id SERIAL PRIMARY KEY,
    url TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS words (
    id SERIAL PRIMARY KEY,
    word TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS document_word_frequency (
    document_id INT REFERENCES documents(id),
    word_id INT REFERENCES words(id),
    frequency INT NOT NULL,
    PRIMARY KEY (document_id, word_id)
);`

// Store is the PostgreSQL repository behind both the crawler's writes and
// the query service's reads. All workers share the one pool; concurrent
// first-inserts of the same url or word are resolved by the unique
// constraints, not by application locking.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to PostgreSQL and bootstraps the schema.
func Open(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// UpsertDocument inserts url if unseen and returns the row id. Repeated
// calls return the originally assigned id.
func (s *Store) UpsertDocument(ctx context.Context, url string) (int64, error) {
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO documents (url) VALUES ($1) ON CONFLICT (url) DO NOTHING`, url); err != nil {
		return 0, err
	}
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM documents WHERE url = $1`, url).Scan(&id)
	return id, err
}

// UpsertWord inserts word if unseen and returns the row id.
func (s *Store) UpsertWord(ctx context.Context, word string) (int64, error) {
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO words (word) VALUES ($1) ON CONFLICT (word) DO NOTHING`, word); err != nil {
		return 0, err
	}
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM words WHERE word = $1`, word).Scan(&id)
	return id, err
}

// InsertFrequency records how often a word occurs in a document. An
// existing row for the pair stays untouched.
func (s *Store) InsertFrequency(ctx context.Context, documentID, wordID int64, frequency int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO document_word_frequency (document_id, word_id, frequency)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (document_id, word_id) DO NOTHING`,
		documentID, wordID, frequency)
	return err
}

// DocumentMatch is one document returned by a keyword lookup.
type DocumentMatch struct {
	ID  int64
	URL string
}

// SearchDocuments returns the documents containing any of the given words.
// Words are stored lowercase; callers lowercase their terms to match.
func (s *Store) SearchDocuments(ctx context.Context, words []string) ([]DocumentMatch, error) {
	if len(words) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT d.id, d.url
		 FROM documents d
		 JOIN document_word_frequency dwf ON d.id = dwf.document_id
		 JOIN words w ON dwf.word_id = w.id
		 WHERE w.word = ANY($1)
		 ORDER BY d.id`, words)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []DocumentMatch
	for rows.Next() {
		var m DocumentMatch
		if err := rows.Scan(&m.ID, &m.URL); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
