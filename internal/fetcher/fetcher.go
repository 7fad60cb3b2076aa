package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"webspider/internal/metrics"
	"webspider/internal/parser"
)

const (
	// maxRedirects bounds a 3xx chain; the hop past this count aborts.
	maxRedirects = 5

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 1 << 20
)

// Result is the outcome of one fetch. Ignored marks a deliberate skip
// (target matched the link filter), not a failure. FinalURL is whatever
// URL was actually read after redirects.
type Result struct {
	Body     string
	FinalURL string
	Ignored  bool
}

// RedirectLimitError reports a redirect chain longer than maxRedirects.
type RedirectLimitError struct {
	URL  string
	Hops int
}

func (e *RedirectLimitError) Error() string {
	return fmt.Sprintf("redirect limit exceeded after %d hops for %s", e.Hops, e.URL)
}

// Fetcher performs single-page GETs over a shared HTTP client. Redirects
// are followed by an explicit bounded loop rather than the client's own
// policy, so Location resolution matches the crawl's URL resolver.
//
// TLS certificate verification is disabled on purpose: the crawl reaches
// hosts with broken chains, and verifying would change which sites get
// indexed.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter // nil when unthrottled
}

func New(userAgent string, timeout time.Duration, maxRPS float64) *Fetcher {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	var limiter *rate.Limiter
	if maxRPS > 0 {
		burst := int(math.Ceil(maxRPS))
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(maxRPS), burst)
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
		limiter:   limiter,
	}
}

// Fetch retrieves rawURL, following up to maxRedirects 3xx hops. The body
// of the final response comes back regardless of its status code. A
// connection reset mid-read yields whatever partial body arrived, as a
// success; other I/O errors propagate.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	current := rawURL
	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			slog.Warn("redirect limit exceeded", "url", rawURL)
			return Result{}, &RedirectLimitError{URL: rawURL, Hops: hops - 1}
		}

		scheme, host, target := splitURL(current)
		if parser.ShouldIgnore(target) {
			return Result{Ignored: true}, nil
		}
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return Result{}, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, scheme+"://"+host+target, nil)
		if err != nil {
			return Result{}, fmt.Errorf("build request for %s: %w", current, err)
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return Result{}, fmt.Errorf("fetch %s: %w", current, err)
		}

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			if loc := resp.Header.Get("Location"); loc != "" {
				drain(resp.Body)
				if parser.IsAbsolute(loc) {
					current = loc
				} else {
					current = parser.Resolve(current, loc)
				}
				continue
			}
			// 3xx without Location falls through to the body read
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		if err != nil && !isConnAborted(err) {
			return Result{}, fmt.Errorf("read %s: %w", current, err)
		}

		metrics.PagesFetched.Inc()
		metrics.BytesFetched.Add(float64(len(body)))
		return Result{Body: string(body), FinalURL: current}, nil
	}
}

// splitURL breaks a raw URL into scheme, host and request target. A
// missing scheme defaults to http; a bare host gets target "/".
func splitURL(raw string) (scheme, host, target string) {
	scheme = "http"
	rest := raw
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme = raw[:i]
		rest = raw[i+3:]
	}
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		return scheme, rest[:j], rest[j:]
	}
	return scheme, rest, "/"
}

// isConnAborted reports whether err is a reset or aborted connection, the
// cases where a partial body is still worth keeping.
func isConnAborted(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return strings.Contains(err.Error(), "connection reset by peer")
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
	body.Close()
}
