package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSettings = `
MONGODB_CONNECTION_STRING = "mongodb://localhost:27017"
MONGODB_DATABASE = "scrapy"
MONGODB_COLLECTION = "movies"
ELASTICSEARCH_CONNECTION_STRING = "http://localhost:9200"
ELASTICSEARCH_INDEX = "movies"
IMAGES_STORE = "./images"
CONCURRENT_ITEMS = 16
`

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, []string{StageImages, StageMongoDB, StageElasticsearch}, s.ItemPipelines)
	assert.Equal(t, 8, s.ConcurrentItems)
	assert.Equal(t, 4, s.MediaConcurrency)
	assert.ErrorIs(t, s.Validate(), ErrMissingSetting)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSettings), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, "mongodb://localhost:27017", s.MongoConnectionString)
	assert.Equal(t, "scrapy", s.MongoDatabase)
	assert.Equal(t, "movies", s.ElasticsearchIndex)
	assert.Equal(t, "./images", s.ImagesStore)
	assert.Equal(t, 16, s.ConcurrentItems)
	assert.Equal(t, 4, s.MediaConcurrency, "absent keys keep defaults")
	assert.Equal(t, []string{StageImages, StageMongoDB, StageElasticsearch}, s.ItemPipelines)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte(`MONGO_URI = "mongodb://localhost"`))
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestParse_PipelineSubset(t *testing.T) {
	s, err := Parse([]byte(`
ITEM_PIPELINES = ["mongodb"]
MONGODB_CONNECTION_STRING = "badger://:memory:"
MONGODB_DATABASE = "scrapy"
MONGODB_COLLECTION = "movies"
`))
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Equal(t, []string{StageMongoDB}, s.ItemPipelines)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		err  error
	}{
		{
			name: "complete",
			opts: []Option{
				WithMongo("mongodb://localhost", "scrapy", "movies"),
				WithElasticsearch("http://localhost:9200", "movies"),
				WithImagesStore("/tmp/images"),
			},
		},
		{
			name: "search index missing",
			opts: []Option{
				WithMongo("mongodb://localhost", "scrapy", "movies"),
				WithImagesStore("/tmp/images"),
			},
			err: ErrMissingSetting,
		},
		{
			name: "only images",
			opts: []Option{WithPipelines(StageImages), WithImagesStore("/tmp/images")},
		},
		{
			name: "unknown stage",
			opts: []Option{WithPipelines("redis")},
			err:  ErrUnknownStage,
		},
		{
			name: "duplicate stage",
			opts: []Option{WithPipelines(StageImages, StageImages), WithImagesStore("/tmp/images")},
			err:  ErrDuplicateStage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.opts...)
			require.NoError(t, err)
			err = s.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestOptions_RejectInvalid(t *testing.T) {
	_, err := New(WithConcurrentItems(0))
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = New(WithMediaConcurrency(-1))
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = New(WithPipelines())
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestEncodeRoundTrip(t *testing.T) {
	s, err := New(
		WithMongo("mongodb://localhost", "scrapy", "movies"),
		WithPipelines(StageMongoDB),
		WithMediaProxy("http://proxy:3128"),
	)
	require.NoError(t, err)

	data, err := s.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "MONGODB_DATABASE")
	assert.Contains(t, string(data), "scrapy")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}
