// Package config holds the pipeline settings.
//
// Settings use the scrapy key names so an existing settings module maps
// one to one onto a TOML file:
//
//	MONGODB_CONNECTION_STRING = "mongodb://localhost:27017"
//	MONGODB_DATABASE = "scrapy"
//	MONGODB_COLLECTION = "movies"
//	ELASTICSEARCH_CONNECTION_STRING = "http://localhost:9200"
//	ELASTICSEARCH_INDEX = "movies"
//	IMAGES_STORE = "./images"
//	ITEM_PIPELINES = ["images", "mongodb", "elasticsearch"]
package config

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Stage names accepted in ITEM_PIPELINES.
const (
	StageImages        = "images"
	StageMongoDB       = "mongodb"
	StageElasticsearch = "elasticsearch"
)

const (
	defaultConcurrentItems  = 8
	defaultMediaConcurrency = 4
)

// Settings configures the stages and the host.
type Settings struct {
	MongoConnectionString string `toml:"MONGODB_CONNECTION_STRING"`
	MongoDatabase         string `toml:"MONGODB_DATABASE"`
	MongoCollection       string `toml:"MONGODB_COLLECTION"`

	ElasticsearchConnectionString string `toml:"ELASTICSEARCH_CONNECTION_STRING"`
	ElasticsearchIndex            string `toml:"ELASTICSEARCH_INDEX"`

	ImagesStore      string `toml:"IMAGES_STORE"`
	MediaConcurrency int    `toml:"MEDIA_CONCURRENCY"`
	MediaProxy       string `toml:"MEDIA_PROXY,omitempty"`

	// ItemPipelines lists the enabled stages in processing order.
	ItemPipelines   []string `toml:"ITEM_PIPELINES"`
	ConcurrentItems int      `toml:"CONCURRENT_ITEMS"`
}

// Option configures Settings.
type Option func(*Settings) error

// WithMongo sets the document-store connection.
func WithMongo(connectionString, database, collection string) Option {
	return func(s *Settings) error {
		s.MongoConnectionString = connectionString
		s.MongoDatabase = database
		s.MongoCollection = collection
		return nil
	}
}

// WithElasticsearch sets the search-index connection.
func WithElasticsearch(connectionString, index string) Option {
	return func(s *Settings) error {
		s.ElasticsearchConnectionString = connectionString
		s.ElasticsearchIndex = index
		return nil
	}
}

// WithImagesStore sets the images root directory.
func WithImagesStore(dir string) Option {
	return func(s *Settings) error {
		s.ImagesStore = dir
		return nil
	}
}

// WithPipelines sets the enabled stages in processing order.
func WithPipelines(stages ...string) Option {
	return func(s *Settings) error {
		if len(stages) == 0 {
			return fmt.Errorf("%w: at least one stage is required", ErrInvalidSettings)
		}
		s.ItemPipelines = slices.Clone(stages)
		return nil
	}
}

// WithConcurrentItems sets how many records are processed in parallel.
func WithConcurrentItems(n int) Option {
	return func(s *Settings) error {
		if n < 1 {
			return fmt.Errorf("%w: CONCURRENT_ITEMS must be positive", ErrInvalidSettings)
		}
		s.ConcurrentItems = n
		return nil
	}
}

// WithMediaConcurrency sets how many images of one record download in parallel.
func WithMediaConcurrency(n int) Option {
	return func(s *Settings) error {
		if n < 1 {
			return fmt.Errorf("%w: MEDIA_CONCURRENCY must be positive", ErrInvalidSettings)
		}
		s.MediaConcurrency = n
		return nil
	}
}

// WithMediaProxy routes image downloads through a proxy.
func WithMediaProxy(proxyURL string) Option {
	return func(s *Settings) error {
		s.MediaProxy = proxyURL
		return nil
	}
}

// Default returns the settings used when nothing is configured.
// Connection settings are empty and must be supplied.
func Default() *Settings {
	return &Settings{
		ItemPipelines:    []string{StageImages, StageMongoDB, StageElasticsearch},
		ConcurrentItems:  defaultConcurrentItems,
		MediaConcurrency: defaultMediaConcurrency,
	}
}

// New returns the default settings with opts applied.
func New(opts ...Option) (*Settings, error) {
	s := Default()
	if err := s.Apply(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads a TOML settings file on top of the defaults.
// Unknown keys are rejected so misspelled settings do not go unnoticed.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes TOML settings on top of the defaults.
// Keys absent from data keep their default value.
func Parse(data []byte) (*Settings, error) {
	var file Settings
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	s := Default()
	s.merge(&file)
	return s, nil
}

func (s *Settings) merge(o *Settings) {
	setString(&s.MongoConnectionString, o.MongoConnectionString)
	setString(&s.MongoDatabase, o.MongoDatabase)
	setString(&s.MongoCollection, o.MongoCollection)
	setString(&s.ElasticsearchConnectionString, o.ElasticsearchConnectionString)
	setString(&s.ElasticsearchIndex, o.ElasticsearchIndex)
	setString(&s.ImagesStore, o.ImagesStore)
	setString(&s.MediaProxy, o.MediaProxy)
	if o.ItemPipelines != nil {
		s.ItemPipelines = o.ItemPipelines
	}
	if o.ConcurrentItems != 0 {
		s.ConcurrentItems = o.ConcurrentItems
	}
	if o.MediaConcurrency != 0 {
		s.MediaConcurrency = o.MediaConcurrency
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Apply applies opts in order.
func (s *Settings) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that every enabled stage has what it needs.
func (s *Settings) Validate() error {
	if len(s.ItemPipelines) == 0 {
		return fmt.Errorf("%w: ITEM_PIPELINES is empty", ErrInvalidSettings)
	}
	if s.ConcurrentItems < 1 {
		return fmt.Errorf("%w: CONCURRENT_ITEMS must be positive", ErrInvalidSettings)
	}

	seen := make(map[string]bool, len(s.ItemPipelines))
	for _, stage := range s.ItemPipelines {
		if seen[stage] {
			return fmt.Errorf("%w: %q", ErrDuplicateStage, stage)
		}
		seen[stage] = true

		var missing []string
		switch stage {
		case StageMongoDB:
			missing = blank(map[string]string{
				"MONGODB_CONNECTION_STRING": s.MongoConnectionString,
				"MONGODB_DATABASE":          s.MongoDatabase,
				"MONGODB_COLLECTION":        s.MongoCollection,
			})
		case StageElasticsearch:
			missing = blank(map[string]string{
				"ELASTICSEARCH_CONNECTION_STRING": s.ElasticsearchConnectionString,
				"ELASTICSEARCH_INDEX":             s.ElasticsearchIndex,
			})
		case StageImages:
			missing = blank(map[string]string{"IMAGES_STORE": s.ImagesStore})
			if s.MediaConcurrency < 1 {
				return fmt.Errorf("%w: MEDIA_CONCURRENCY must be positive", ErrInvalidSettings)
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownStage, stage)
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s needs %s", ErrMissingSetting, stage, strings.Join(missing, ", "))
		}
	}
	return nil
}

// Encode renders the settings as TOML.
func (s *Settings) Encode() ([]byte, error) {
	return toml.Marshal(s)
}

func blank(values map[string]string) []string {
	var keys []string
	for k, v := range values {
		if strings.TrimSpace(v) == "" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
