// Package elastic implements search.Indexer on Elasticsearch.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/poiesic/itempipe/core"
	"github.com/poiesic/itempipe/search"
)

const alreadyExists = "resource_already_exists_exception"

// Indexer writes movie records into one Elasticsearch index.
type Indexer struct {
	client    *elasticsearch.Client
	transport *http.Transport
	index     string
	logger    *slog.Logger

	closeOnce sync.Once
}

var _ search.Indexer = (*Indexer)(nil)

// Option configures an Indexer.
type Option func(*Indexer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// New creates an Indexer. The client does not contact the cluster until used.
func New(cfg search.Config, opts ...Option) (*Indexer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses(),
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	ix := &Indexer{
		client:    client,
		transport: transport,
		index:     cfg.Index,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Open implements search.Opener.
func Open(ctx context.Context, cfg search.Config) (search.Indexer, error) {
	return New(cfg)
}

// EnsureIndex creates the index when it is missing. An index created
// concurrently by another process counts as success.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	res, err := ix.client.Indices.Exists([]string{ix.index}, ix.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	drain(res)

	switch res.StatusCode {
	case http.StatusOK:
		ix.logger.Debug("index exists", "index", ix.index)
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("%w: exists %s: status %d", search.ErrRequestFailed, ix.index, res.StatusCode)
	}

	res, err = ix.client.Indices.Create(ix.index, ix.client.Indices.Create.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		if strings.Contains(string(body), alreadyExists) {
			return nil
		}
		return fmt.Errorf("%w: create %s: %s", search.ErrRequestFailed, ix.index, strings.TrimSpace(string(body)))
	}

	ix.logger.Info("index created", "index", ix.index)
	return nil
}

// Index writes the record as a JSON document under id.
func (ix *Indexer) Index(ctx context.Context, id string, record *core.Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}

	res, err := ix.client.Index(ix.index, bytes.NewReader(body),
		ix.client.Index.WithDocumentID(id),
		ix.client.Index.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%w: index %s/%s: status %d: %s",
			search.ErrRequestFailed, ix.index, id, res.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// Close releases idle connections. Only the first call does any work.
func (ix *Indexer) Close() error {
	ix.closeOnce.Do(ix.transport.CloseIdleConnections)
	return nil
}

func drain(res *esapi.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()
}
