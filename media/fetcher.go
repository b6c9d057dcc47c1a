package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultFetchTimeout = 20 * time.Second
	defaultMaxAttempts  = 3
	defaultRetryDelay   = 250 * time.Millisecond
	defaultMaxImageSize = 20 << 20
)

// Fetcher downloads the body of a media request.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// HTTPFetcher fetches images over HTTP with a browser User-Agent,
// a total timeout per attempt and bounded retries.
// Transport errors and 5xx answers are retried; other non-2xx answers are not.
type HTTPFetcher struct {
	base        *http.Transport
	client      *http.Client
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
	maxSize     int64
}

var _ Fetcher = (*HTTPFetcher)(nil)

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher) error

// WithProxy routes every download through the proxy at rawURL.
// Proxied requests use a fresh connection each time.
func WithProxy(rawURL string) FetcherOption {
	return func(f *HTTPFetcher) error {
		rawURL = strings.TrimSpace(rawURL)
		if rawURL == "" {
			return nil
		}
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("parse proxy url: %w", err)
		}
		f.base.Proxy = http.ProxyURL(u)
		f.base.DisableKeepAlives = true
		return nil
	}
}

// WithTimeout sets the total timeout of one download attempt.
// Default is 20s.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) error {
		if d > 0 {
			f.timeout = d
		}
		return nil
	}
}

// WithRetry sets how many attempts a download gets and the delay before
// the first retry. Default is 3 attempts starting at 250ms.
func WithRetry(maxAttempts int, baseDelay time.Duration) FetcherOption {
	return func(f *HTTPFetcher) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		f.maxAttempts = maxAttempts
		f.retryDelay = baseDelay
		return nil
	}
}

// WithMaxSize caps the accepted image size in bytes. Default is 20MiB.
func WithMaxSize(n int64) FetcherOption {
	return func(f *HTTPFetcher) error {
		if n > 0 {
			f.maxSize = n
		}
		return nil
	}
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts ...FetcherOption) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		base: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConnsPerHost:   8,
		},
		timeout:     defaultFetchTimeout,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		maxSize:     defaultMaxImageSize,
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	f.client = &http.Client{
		Transport: &uaTransport{base: f.base, ua: globalUA},
		Timeout:   f.timeout,
	}
	return f, nil
}

// Fetch downloads req.URL and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	var body []byte
	err := retryWithBackoff(ctx, func() error {
		b, err := f.get(ctx, req.URL)
		if err != nil {
			return err
		}
		body = b
		return nil
	}, f.maxAttempts, f.retryDelay)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// CloseIdleConnections releases pooled connections.
func (f *HTTPFetcher) CloseIdleConnections() {
	f.base.CloseIdleConnections()
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, permanent(err)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("%w: %s: %d", ErrUnexpectedStatus, rawURL, resp.StatusCode)
		if resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, permanent(err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxSize {
		return nil, permanent(fmt.Errorf("%s: image larger than %d bytes", rawURL, f.maxSize))
	}
	if len(body) == 0 {
		return nil, permanent(fmt.Errorf("%s: empty body", rawURL))
	}
	return body, nil
}

// uaTransport sets a browser User-Agent on requests that carry none.
type uaTransport struct {
	base http.RoundTripper
	ua   *uaPool
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.ua.random())
	return t.base.RoundTrip(r)
}

type uaPool struct {
	mu  sync.Mutex
	rnd *rand.Rand
	uas []string
}

func (p *uaPool) random() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uas[p.rnd.Intn(len(p.uas))]
}

var globalUA = newUAPool()

func newUAPool() *uaPool {
	return &uaPool{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		uas: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
			"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
		},
	}
}
