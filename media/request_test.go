package media

import (
	"slices"
	"testing"

	"github.com/poiesic/itempipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parasite() *core.Record {
	return &core.Record{
		Name: "Parasite",
		Directors: []core.Person{
			{Name: "Bong Joon-ho", Image: "http://img/bong.jpg"},
		},
		Actors: []core.Person{
			{Name: "Song Kang-ho", Image: "http://img/song.jpg"},
			{Name: "Lee Sun-kyun", Image: ""},
			{Name: "Cho Yeo-jeong", Image: "http://img/cho.jpg"},
		},
	}
}

func TestRequests_Order(t *testing.T) {
	reqs := slices.Collect(Requests(parasite()))
	require.Len(t, reqs, 3)

	assert.Equal(t, Request{
		URL:  "http://img/bong.jpg",
		Meta: Meta{MovieName: "Parasite", Role: core.RoleDirector, PersonName: "Bong Joon-ho"},
	}, reqs[0])
	assert.Equal(t, "Song Kang-ho", reqs[1].Meta.PersonName)
	assert.Equal(t, core.RoleActor, reqs[1].Meta.Role)
	assert.Equal(t, "Cho Yeo-jeong", reqs[2].Meta.PersonName)
}

func TestRequests_Restartable(t *testing.T) {
	seq := Requests(parasite())
	assert.Equal(t, slices.Collect(seq), slices.Collect(seq))
}

func TestRequests_EarlyStop(t *testing.T) {
	count := 0
	for range Requests(parasite()) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestRequests_NoPeople(t *testing.T) {
	assert.Empty(t, slices.Collect(Requests(&core.Record{Name: "Koyaanisqatsi"})))
}

func TestFilePath(t *testing.T) {
	tests := []struct {
		meta Meta
		want string
	}{
		{Meta{MovieName: "Parasite", Role: core.RoleActor, PersonName: "Song Kang-ho"}, "Parasite/actor/Song Kang-ho.jpg"},
		{Meta{MovieName: "Inception", Role: core.RoleDirector, PersonName: "Christopher Nolan"}, "Inception/director/Christopher Nolan.jpg"},
	}
	for _, tt := range tests {
		got, err := FilePath(tt.meta)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := FilePath(Meta{MovieName: "Parasite", Role: "..", PersonName: "Song Kang-ho"})
	assert.ErrorIs(t, err, core.ErrInvalidRole)
}

func TestCompleted(t *testing.T) {
	rec := parasite()

	t.Run("one success keeps the record", func(t *testing.T) {
		out, err := Completed(rec, []Result{{Err: assert.AnError}, {Path: "Parasite/actor/Song Kang-ho.jpg"}})
		require.NoError(t, err)
		assert.Same(t, rec, out)
	})

	t.Run("all failed drops", func(t *testing.T) {
		out, err := Completed(rec, []Result{{Err: assert.AnError}, {Err: assert.AnError}})
		assert.Nil(t, out)
		assert.ErrorIs(t, err, ErrNoMedia)
		assert.ErrorIs(t, err, core.ErrDropItem)
	})

	t.Run("no results drops", func(t *testing.T) {
		_, err := Completed(rec, nil)
		assert.ErrorIs(t, err, ErrNoMedia)
	})
}
