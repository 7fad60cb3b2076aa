package fetcher_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webspider/internal/fetcher"
)

func newFetcher() *fetcher.Fetcher {
	return fetcher.New("WebSpider-test/1.0", 5*time.Second, 0)
}

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the body and sends the user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.Header.Get("User-Agent"))
			fmt.Fprint(w, "<html>hello</html>")
		}))
		defer srv.Close()

		res, err := newFetcher().Fetch(context.Background(), srv.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, "<html>hello</html>", res.Body)
		assert.Equal(t, srv.URL+"/page", res.FinalURL)
		assert.False(t, res.Ignored)
		assert.Equal(t, "WebSpider-test/1.0", gotUA.Load())
	})

	t.Run("bare host defaults to target slash", func(t *testing.T) {
		t.Parallel()

		var gotPath atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath.Store(r.URL.Path)
			fmt.Fprint(w, "root")
		}))
		defer srv.Close()

		// strip the scheme so only the host:port remains
		host := strings.TrimPrefix(srv.URL, "http://")
		res, err := newFetcher().Fetch(context.Background(), host)
		require.NoError(t, err)
		assert.Equal(t, "root", res.Body)
		assert.Equal(t, "/", gotPath.Load())
	})

	t.Run("ignored target is a no-op, not an error", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer srv.Close()

		res, err := newFetcher().Fetch(context.Background(), srv.URL+"/print/view")
		require.NoError(t, err)
		assert.True(t, res.Ignored)
		assert.Empty(t, res.Body)
		assert.Zero(t, hits.Load(), "no request should be made for an ignored target")
	})

	t.Run("follows a relative redirect", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "moved here")
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		res, err := newFetcher().Fetch(context.Background(), srv.URL+"/old")
		require.NoError(t, err)
		assert.Equal(t, "moved here", res.Body)
		assert.Equal(t, srv.URL+"/new", res.FinalURL)
	})

	t.Run("redirect loop stops after five hops", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			http.Redirect(w, r, srv.URL+"/loop", http.StatusMovedPermanently)
		}))
		defer srv.Close()

		_, err := newFetcher().Fetch(context.Background(), srv.URL+"/loop")
		require.Error(t, err)
		var rle *fetcher.RedirectLimitError
		require.ErrorAs(t, err, &rle)
		assert.Equal(t, 5, rle.Hops)
		// initial request plus five followed redirects
		assert.Equal(t, int64(6), hits.Load())
	})

	t.Run("3xx without Location returns the body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusMultipleChoices)
			fmt.Fprint(w, "choices")
		}))
		defer srv.Close()

		res, err := newFetcher().Fetch(context.Background(), srv.URL+"/x")
		require.NoError(t, err)
		assert.Equal(t, "choices", res.Body)
	})

	t.Run("non-2xx statuses still return the body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "not here")
		}))
		defer srv.Close()

		res, err := newFetcher().Fetch(context.Background(), srv.URL+"/missing")
		require.NoError(t, err)
		assert.Equal(t, "not here", res.Body)
	})

	t.Run("accepts a certificate that would fail verification", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "secure-ish")
		}))
		defer srv.Close()

		res, err := newFetcher().Fetch(context.Background(), srv.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, "secure-ish", res.Body)
	})

	t.Run("connection reset mid-read keeps the partial body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, buf, err := hj.Hijack()
			require.NoError(t, err)
			// promise more bytes than will arrive, then reset the
			// connection so the client sees ECONNRESET, not EOF
			buf.WriteString("HTTP/1.1 200 OK\r\nContent-Length: 1000\r\n\r\npartial content")
			require.NoError(t, buf.Flush())
			if tc, ok := conn.(*net.TCPConn); ok {
				_ = tc.SetLinger(0)
			}
			conn.Close()
		}))
		defer srv.Close()

		res, err := newFetcher().Fetch(context.Background(), srv.URL+"/page")
		require.NoError(t, err, "a reset mid-read is swallowed, not propagated")
		assert.Equal(t, "partial content", res.Body)
	})

	t.Run("connect failure propagates", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listening anymore

		_, err := newFetcher().Fetch(context.Background(), srv.URL+"/page")
		require.Error(t, err)
	})
}
