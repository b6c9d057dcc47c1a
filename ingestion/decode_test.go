package ingestion

import (
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/itempipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords(t *testing.T) {
	input := `{"name":"Inception","categories":["Sci-Fi"],"drama":"dream heist","score":9.3,"directors":[{"name":"Christopher Nolan","image":"http://img/nolan.jpg"}],"actors":[]}

not json
{"name":"Parasite","score":8.6}
`
	var records []*core.Record
	var errs []error
	for rec, err := range DecodeRecords(strings.NewReader(input)) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}

	require.Len(t, records, 2)
	assert.Equal(t, "Inception", records[0].Name)
	assert.Equal(t, []string{"Sci-Fi"}, records[0].Categories)
	assert.Equal(t, "Christopher Nolan", records[0].Directors[0].Name)
	assert.Equal(t, 8.6, records[1].Score)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMalformedRecord)
	assert.Contains(t, errs[0].Error(), "line 3")
}

func TestDecodeRecords_EarlyStop(t *testing.T) {
	input := "{\"name\":\"A\"}\n{\"name\":\"B\"}\n"
	count := 0
	for range DecodeRecords(strings.NewReader(input)) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestDecodeRecords_ReadError(t *testing.T) {
	var got error
	for _, err := range DecodeRecords(failingReader{}) {
		got = err
	}
	assert.ErrorContains(t, got, "disk on fire")
}
