// Package websearch serves keyword lookups against the crawl schema. The
// handler is stateless: each request tokenizes its query, runs one
// read-only lookup and renders a page.
package websearch

import (
	"context"
	"net/http"

	"webspider/internal/storage"
)

// SearchStore is the read side of the crawl schema.
type SearchStore interface {
	SearchDocuments(ctx context.Context, words []string) ([]storage.DocumentMatch, error)
}

type Server struct {
	router *http.ServeMux
	store  SearchStore
}

func NewServer(store SearchStore) *Server {
	s := &Server{
		router: http.NewServeMux(),
		store:  store,
	}
	s.router.HandleFunc("/", s.handleSearch)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s)
}
