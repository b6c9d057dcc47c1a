package core

import (
	"encoding/binary"
	"slices"
	"testing"

	"github.com/mus-format/mus-go/ord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMUS_RoundTrip(t *testing.T) {
	rec := Record{
		Name:       "Inception",
		Categories: []string{"Action", "Sci-Fi"},
		Drama:      "thriller",
		Score:      9.3,
		Directors:  []Person{{Name: "Christopher Nolan", Image: "http://img/nolan.jpg"}},
		Actors: []Person{
			{Name: "Leonardo DiCaprio", Image: "http://img/leo.jpg"},
			{Name: "Elliot Page", Image: "http://img/page.jpg"},
		},
	}

	bs := make([]byte, RecordMUS.Size(rec))
	n := RecordMUS.Marshal(rec, bs)
	require.Equal(t, len(bs), n)

	got, m, err := RecordMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, rec, got)

	skipped, err := RecordMUS.Skip(bs)
	require.NoError(t, err)
	assert.Equal(t, n, skipped)
}

func TestRecordMUS_EmptyLists(t *testing.T) {
	rec := Record{Name: "Empty", Categories: []string{}, Directors: []Person{}}

	bs := make([]byte, RecordMUS.Size(rec))
	RecordMUS.Marshal(rec, bs)

	got, _, err := RecordMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Empty(t, got.Categories)
	assert.Empty(t, got.Directors)
	assert.Empty(t, got.Actors)
}

func TestRecordMUS_OversizedListLength(t *testing.T) {
	bs := make([]byte, ord.String.Size("Inception"))
	ord.String.Marshal("Inception", bs)

	for _, length := range []int{MaxListLength + 1, 1 << 40} {
		corrupt := binary.AppendUvarint(slices.Clone(bs), uint64(length))

		_, _, err := RecordMUS.Unmarshal(corrupt)
		assert.ErrorIs(t, err, ErrListTooLong)
	}
}

func TestRecordMUS_Truncated(t *testing.T) {
	rec := Record{Name: "Inception", Actors: []Person{{Name: "Tom Hardy", Image: "http://img/tom.jpg"}}}

	bs := make([]byte, RecordMUS.Size(rec))
	RecordMUS.Marshal(rec, bs)

	_, _, err := RecordMUS.Unmarshal(bs[:len(bs)-3])
	assert.Error(t, err)

	_, _, err = RecordMUS.Unmarshal(nil)
	assert.Error(t, err)
}
