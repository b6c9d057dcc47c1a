package itempipe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/poiesic/itempipe/config"
	"github.com/poiesic/itempipe/core"
	"github.com/poiesic/itempipe/ingestion"
	"github.com/poiesic/itempipe/search"
	"github.com/poiesic/itempipe/storage"
	"github.com/poiesic/itempipe/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryIndex struct {
	mu   sync.Mutex
	docs map[string]string
}

func (m *memoryIndex) EnsureIndex(ctx context.Context) error { return nil }

func (m *memoryIndex) Index(ctx context.Context, id string, record *core.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = record.Name
	return nil
}

func (m *memoryIndex) Close() error { return nil }

func TestOpenDocumentStore(t *testing.T) {
	ctx := context.Background()

	repo, err := OpenDocumentStore(ctx, storage.Config{
		ConnectionString: "badger://:memory:",
		Database:         "scrapy",
		Collection:       "movies",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	_, err = OpenDocumentStore(ctx, storage.Config{
		ConnectionString: "redis://localhost:6379",
		Database:         "scrapy",
		Collection:       "movies",
	})
	assert.ErrorIs(t, err, storage.ErrUnsupportedScheme)
}

func TestNewStages_FollowsItemPipelinesOrder(t *testing.T) {
	settings, err := config.New(
		config.WithMongo("badger://:memory:", "scrapy", "movies"),
		config.WithElasticsearch("http://localhost:9200", "movies"),
		config.WithImagesStore(t.TempDir()),
		config.WithPipelines(config.StageMongoDB, config.StageElasticsearch, config.StageImages),
	)
	require.NoError(t, err)

	stages, err := NewStages(settings)
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.Equal(t, "mongodb", stages[0].Name())
	assert.Equal(t, "elasticsearch", stages[1].Name())
	assert.Equal(t, "images", stages[2].Name())
}

func TestNewStages_InvalidSettings(t *testing.T) {
	settings, err := config.New(config.WithPipelines(config.StageElasticsearch))
	require.NoError(t, err)

	_, err = NewStages(settings)
	assert.ErrorIs(t, err, config.ErrMissingSetting)
}

func TestPipelineEndToEnd(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/ok/") {
			w.Write([]byte("jpeg"))
			return
		}
		http.NotFound(w, r)
	}))
	defer images.Close()

	repo, backend, err := badger.NewMemoryRepository("scrapy", "movies")
	require.NoError(t, err)
	defer backend.Close()

	index := &memoryIndex{docs: make(map[string]string)}
	root := t.TempDir()

	settings, err := config.New(
		config.WithMongo("badger://:memory:", "scrapy", "movies"),
		config.WithElasticsearch("http://unused:9200", "movies"),
		config.WithImagesStore(root),
		config.WithConcurrentItems(2),
	)
	require.NoError(t, err)

	p, err := NewPipeline(settings,
		WithStoreOpener(func(ctx context.Context, cfg storage.Config) (storage.MovieRepository, error) {
			return repo, nil
		}),
		WithIndexOpener(func(ctx context.Context, cfg search.Config) (search.Indexer, error) {
			return index, nil
		}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Open(ctx))

	input := strings.Join([]string{
		`{"name":"Parasite","score":8.6,"directors":[{"name":"Bong Joon-ho","image":"` + images.URL + `/ok/bong.jpg"}],"actors":[{"name":"Song Kang-ho","image":"` + images.URL + `/ok/song.jpg"}]}`,
		`{"name":"Inception","score":9.3,"directors":[{"name":"Christopher Nolan","image":"` + images.URL + `/gone/nolan.jpg"}],"actors":[]}`,
		`{"name":""}`,
	}, "\n")

	stats, err := p.Run(ctx, ingestion.DecodeRecords(strings.NewReader(input)))
	require.NoError(t, err)
	require.NoError(t, p.Close(ctx))

	assert.Equal(t, ingestion.Stats{Processed: 1, Dropped: 1, Failed: 1}, stats)

	got, err := repo.GetMovie(ctx, "Parasite")
	require.NoError(t, err)
	assert.Equal(t, 8.6, got.Score)

	_, err = repo.GetMovie(ctx, "Inception")
	assert.ErrorIs(t, err, storage.ErrNotFound, "dropped records never reach later stages")

	assert.Equal(t, map[string]string{search.DocumentID("Parasite"): "Parasite"}, index.docs)

	data, err := os.ReadFile(filepath.Join(root, "Parasite", "actor", "Song Kang-ho.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
	assert.NoDirExists(t, filepath.Join(root, "Inception"))
}
