package indexer

import (
	"context"
	"fmt"

	"webspider/internal/metrics"
)

// Store is the narrow slice of the relational schema the indexer writes.
// All three writes are insert-if-absent: conflicting rows are left alone.
type Store interface {
	UpsertDocument(ctx context.Context, url string) (int64, error)
	UpsertWord(ctx context.Context, word string) (int64, error)
	InsertFrequency(ctx context.Context, documentID, wordID int64, frequency int) error
}

// Indexer turns fetched pages into word-frequency rows.
type Indexer struct {
	store Store
}

func New(store Store) *Indexer {
	return &Indexer{store: store}
}

// IndexPage persists the word frequencies of one page. Each upsert commits
// on its own: a failure abandons the remaining writes for the page and
// leaves the earlier ones in place. Re-indexing a URL never changes the
// frequencies recorded the first time around.
func (ix *Indexer) IndexPage(ctx context.Context, pageURL, doc string) error {
	counts := Tokenize(doc)

	docID, err := ix.store.UpsertDocument(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", pageURL, err)
	}
	for _, word := range sortedTokens(counts) {
		wordID, err := ix.store.UpsertWord(ctx, word)
		if err != nil {
			return fmt.Errorf("upsert word %q: %w", word, err)
		}
		if err := ix.store.InsertFrequency(ctx, docID, wordID, counts[word]); err != nil {
			return fmt.Errorf("frequency for %s word %q: %w", pageURL, word, err)
		}
	}
	metrics.PagesIndexed.Inc()
	return nil
}
