package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"webspider/internal/fetcher"
	"webspider/internal/frontier"
	"webspider/internal/indexer"
	"webspider/internal/storage"
)

// Run executes one crawl: it wires storage, frontier, fetcher and indexer
// together, starts the worker pool on the seed URL and blocks until the
// frontier drains or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()

	// ----- Storage -----------------------------------------------------------
	store, err := storage.Open(ctx, opts.DatabaseURL)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer store.Close()

	// ----- Frontier / visited set -------------------------------------------
	queue := frontier.NewQueue()
	var visited *frontier.Visited
	if opts.Dedupe {
		visited = frontier.NewVisited()
	}

	fetch := fetcher.New(opts.UserAgent, opts.FetchTimeout, opts.MaxRPS)
	index := indexer.New(store)
	p := newPool(queue, visited, fetch, index, opts.MaxDepth)

	// ----- Metrics server ----------------------------------------------------
	if opts.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(opts.MetricsAddr, mux); err != nil {
				slog.Error("metrics server", "error", err)
			}
		}()
	}

	// cancellation closes the queue; workers finish their current job and exit
	go func() {
		<-ctx.Done()
		queue.Close()
	}()

	slog.Info("crawl starting", "seed", opts.Seed, "maxDepth", opts.MaxDepth, "workers", opts.Workers)
	start := time.Now()
	p.seed(opts.Seed)

	// ----- Workers -----------------------------------------------------------
	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.run(ctx)
		}()
	}

	// ----- Progress ticker ---------------------------------------------------
	ticker := time.NewTicker(time.Minute)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				slog.Info("progress",
					"indexed", p.indexed.Load(),
					"queued", queue.Size(),
					"elapsed", time.Since(start).Round(time.Second))
			}
		}
	}()

	wg.Wait()
	close(done)

	slog.Info("crawl finished",
		"indexed", p.indexed.Load(),
		"queued_total", queue.TotalQueued(),
		"elapsed", time.Since(start).Round(time.Second))
	return nil
}
