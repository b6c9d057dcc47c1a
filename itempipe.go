// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package itempipe assembles the configured item-pipeline stages.
//
// Settings name the stages and their connections; NewPipeline turns them
// into an ingestion.Pipeline ready to Open. The document-store backend is
// chosen from the connection string scheme: mongodb:// and mongodb+srv://
// use MongoDB, badger:// an embedded BadgerDB directory.
package itempipe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/itempipe/config"
	"github.com/poiesic/itempipe/ingestion"
	"github.com/poiesic/itempipe/media"
	"github.com/poiesic/itempipe/search"
	"github.com/poiesic/itempipe/search/elastic"
	"github.com/poiesic/itempipe/storage"
	"github.com/poiesic/itempipe/storage/badger"
	"github.com/poiesic/itempipe/storage/mongo"
)

// Option configures how stages are built.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	storeOpener  storage.Opener
	indexOpener  search.Opener
	fetcher      media.Fetcher
	pipelineOpts []ingestion.Option
}

// WithLogger sets the logger handed to every stage and the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStoreOpener replaces scheme-based document-store selection.
func WithStoreOpener(open storage.Opener) Option {
	return func(o *options) {
		o.storeOpener = open
	}
}

// WithIndexOpener replaces the Elasticsearch indexer.
func WithIndexOpener(open search.Opener) Option {
	return func(o *options) {
		o.indexOpener = open
	}
}

// WithFetcher replaces the HTTP image fetcher.
func WithFetcher(fetcher media.Fetcher) Option {
	return func(o *options) {
		o.fetcher = fetcher
	}
}

// WithPipelineOptions passes extra options to ingestion.NewPipeline.
func WithPipelineOptions(opts ...ingestion.Option) Option {
	return func(o *options) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// OpenDocumentStore opens the repository matching the connection string scheme.
func OpenDocumentStore(ctx context.Context, cfg storage.Config) (storage.MovieRepository, error) {
	switch cfg.Scheme() {
	case mongo.Scheme, mongo.SRVScheme:
		return mongo.Open(ctx, cfg)
	case badger.Scheme:
		return badger.Open(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnsupportedScheme, cfg.ConnectionString)
	}
}

// NewStages builds the enabled stages in ITEM_PIPELINES order.
// No connection is made until the stages are opened.
func NewStages(settings *config.Settings, opts ...Option) ([]ingestion.Stage, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	o := &options{
		logger:      slog.Default(),
		storeOpener: OpenDocumentStore,
		indexOpener: elastic.Open,
	}
	for _, opt := range opts {
		opt(o)
	}

	stages := make([]ingestion.Stage, 0, len(settings.ItemPipelines))
	for _, name := range settings.ItemPipelines {
		var (
			stage ingestion.Stage
			err   error
		)
		switch name {
		case config.StageMongoDB:
			stage, err = storage.NewSink(storage.Config{
				ConnectionString: settings.MongoConnectionString,
				Database:         settings.MongoDatabase,
				Collection:       settings.MongoCollection,
			}, o.storeOpener, storage.WithName(name), storage.WithLogger(o.logger))
		case config.StageElasticsearch:
			stage, err = search.NewSink(search.Config{
				ConnectionString: settings.ElasticsearchConnectionString,
				Index:            settings.ElasticsearchIndex,
			}, o.indexOpener, search.WithName(name), search.WithLogger(o.logger))
		case config.StageImages:
			stage, err = newMediaStage(settings, o)
		default:
			err = fmt.Errorf("%w: %q", config.ErrUnknownStage, name)
		}
		if err != nil {
			return nil, fmt.Errorf("build stage %q: %w", name, err)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

func newMediaStage(settings *config.Settings, o *options) (*media.Stage, error) {
	fetcher := o.fetcher
	if fetcher == nil {
		var err error
		fetcher, err = media.NewHTTPFetcher(media.WithProxy(settings.MediaProxy))
		if err != nil {
			return nil, err
		}
	}
	return media.NewStage(settings.ImagesStore,
		media.WithName(config.StageImages),
		media.WithFetcher(fetcher),
		media.WithConcurrency(settings.MediaConcurrency),
		media.WithLogger(o.logger))
}

// NewPipeline builds the configured stages and wraps them in a pipeline
// processing CONCURRENT_ITEMS records at a time.
func NewPipeline(settings *config.Settings, opts ...Option) (*ingestion.Pipeline, error) {
	stages, err := NewStages(settings, opts...)
	if err != nil {
		return nil, err
	}

	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	pipelineOpts := []ingestion.Option{
		ingestion.WithPoolSize(settings.ConcurrentItems),
		ingestion.WithLogger(o.logger),
	}
	return ingestion.NewPipeline(stages, append(pipelineOpts, o.pipelineOpts...)...)
}
