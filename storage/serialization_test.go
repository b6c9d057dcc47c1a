package storage

import (
	"testing"

	"github.com/poiesic/itempipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRecord(t *testing.T) {
	rec := &core.Record{
		Name:       "Parasite",
		Categories: []string{"Drama", "Thriller"},
		Drama:      "A poor family schemes to become employed by a wealthy family.",
		Score:      8.6,
		Directors:  []core.Person{{Name: "Bong Joon-ho", Image: "http://img/bong.jpg"}},
		Actors:     []core.Person{{Name: "Song Kang-ho", Image: "http://img/song.jpg"}},
	}

	got, err := UnmarshalRecord(MarshalRecord(rec))
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestUnmarshalRecord_Corrupt(t *testing.T) {
	data := MarshalRecord(&core.Record{Name: "Parasite", Categories: []string{"Drama"}})

	_, err := UnmarshalRecord(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestConfig(t *testing.T) {
	cfg := Config{ConnectionString: "MongoDB+SRV://cluster0.example.net", Database: "scrapy", Collection: "movies"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "mongodb+srv", cfg.Scheme())

	assert.Empty(t, Config{ConnectionString: "localhost:27017"}.Scheme())
	assert.ErrorIs(t, Config{Database: "scrapy", Collection: "movies"}.Validate(), ErrInvalidConfig)
}
