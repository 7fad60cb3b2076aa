package crawler

import "time"

type Options struct {
	Seed         string
	MaxDepth     int
	Workers      int
	UserAgent    string
	FetchTimeout time.Duration
	MaxRPS       float64 // global requests/sec across all workers, 0 = unlimited
	Dedupe       bool    // fetch each discovered URL at most once
	MetricsAddr  string  // prometheus listen address, "" = disabled
	DatabaseURL  string
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 15 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = "WebSpider/1.0"
	}
	if o.MaxDepth < 0 {
		o.MaxDepth = 0
	}
	return o
}
