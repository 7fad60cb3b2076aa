package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"webspider/internal/crawler"
)

func main() {
	seed := flag.String("seed", "https://www.wikipedia.org/", "initial URL to start crawling from")
	depth := flag.Int("depth", 2, "maximum link distance from the seed")
	workers := flag.Int("workers", 4, "number of parallel fetchers")
	timeout := flag.Int("fetchTimeout", 15, "per-request timeout (sec)")
	ua := flag.String("userAgent", "WebSpider/1.0", "HTTP User-Agent string")
	rps := flag.Float64("maxRPS", 0, "global max requests/sec (0 = unlimited)")
	dedupe := flag.Bool("dedupe", true, "fetch each discovered URL at most once")
	metricsAddr := flag.String("metricsAddr", ":2112", "prometheus listen address (empty = disabled)")

	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := crawler.Options{
		Seed:         *seed,
		MaxDepth:     *depth,
		Workers:      *workers,
		UserAgent:    *ua,
		FetchTimeout: time.Duration(*timeout) * time.Second,
		MaxRPS:       *rps,
		Dedupe:       *dedupe,
		MetricsAddr:  *metricsAddr,
		DatabaseURL:  dsn,
	}

	if err := crawler.Run(ctx, opts); err != nil {
		log.Fatal(err)
	}
}
