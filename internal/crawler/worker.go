package crawler

import (
	"context"
	"log/slog"
	"sync/atomic"

	"webspider/internal/fetcher"
	"webspider/internal/frontier"
	"webspider/internal/metrics"
	"webspider/internal/parser"
)

// PageFetcher retrieves one page. Implemented by fetcher.Fetcher;
// substituted by counting fakes in tests.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (fetcher.Result, error)
}

// PageIndexer persists the word frequencies of one page.
type PageIndexer interface {
	IndexPage(ctx context.Context, url, doc string) error
}

// pool coordinates the workers draining the frontier. active counts
// outstanding jobs (queued plus in-flight); the worker that brings it to
// zero closes the queue so the others exit.
type pool struct {
	queue    *frontier.Queue
	visited  *frontier.Visited // nil disables URL dedup
	fetch    PageFetcher
	index    PageIndexer
	maxDepth int

	active  atomic.Int64
	indexed atomic.Int64
}

func newPool(queue *frontier.Queue, visited *frontier.Visited, fetch PageFetcher, index PageIndexer, maxDepth int) *pool {
	return &pool{
		queue:    queue,
		visited:  visited,
		fetch:    fetch,
		index:    index,
		maxDepth: maxDepth,
	}
}

// seed enqueues the start URL at depth zero.
func (p *pool) seed(url string) {
	p.enqueue(frontier.Job{URL: url, Depth: 0})
}

func (p *pool) enqueue(j frontier.Job) {
	p.active.Add(1)
	p.queue.Enqueue(j)
}

// run is one worker's loop: dequeue, process, repeat until the queue
// closes. Jobs past the depth bound are discarded after dequeue, so the
// queue drains over-depth items instead of refusing them.
func (p *pool) run(ctx context.Context) {
	for {
		job, ok := p.queue.Dequeue()
		if !ok {
			return
		}
		p.process(ctx, job)
		if p.active.Add(-1) == 0 {
			p.queue.Close()
		}
	}
}

func (p *pool) process(ctx context.Context, job frontier.Job) {
	if job.Depth > p.maxDepth {
		return
	}
	// URLs are marked visited only once they pass the depth check, so an
	// over-depth discovery never suppresses a later legal-depth fetch of
	// the same page.
	if p.visited != nil && !p.visited.MarkIfNew(job.URL) {
		return
	}

	res, err := p.fetch.Fetch(ctx, job.URL)
	if err != nil {
		metrics.FetchErrors.Inc()
		slog.Warn("fetch failed", "url", job.URL, "error", err)
		return
	}
	if res.Ignored || res.Body == "" {
		return
	}

	if err := p.index.IndexPage(ctx, job.URL, res.Body); err != nil {
		slog.Error("index failed", "url", job.URL, "error", err)
	} else {
		p.indexed.Add(1)
	}

	// Links resolve against the URL the job was queued under, not the
	// redirect target, so pages keep the address they were discovered by.
	// Children go in even at maxDepth; the next dequeue's depth check
	// discards them. The Has check only trims jobs for pages already
	// fetched; marking stays with the depth-checked side.
	for _, link := range parser.ExtractLinks(res.Body, job.URL) {
		if p.visited != nil && p.visited.Has(link) {
			continue
		}
		p.enqueue(frontier.Job{URL: link, Depth: job.Depth + 1})
	}
}
