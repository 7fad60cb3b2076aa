package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spider_pages_fetched_total",
		Help: "Total number of pages successfully fetched",
	})
	BytesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spider_bytes_fetched_total",
		Help: "Total bytes downloaded",
	})
	PagesIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spider_pages_indexed_total",
		Help: "Total number of pages whose word frequencies were persisted",
	})
	FetchErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spider_fetch_errors_total",
		Help: "Total number of failed fetch attempts",
	})
)

func init() {
	prometheus.MustRegister(PagesFetched, BytesFetched, PagesIndexed, FetchErrors)
}
