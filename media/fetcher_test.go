package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Success(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher()
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), Request{URL: srv.URL + "/nolan.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), body)
	assert.Contains(t, gotUA.Load(), "Mozilla/5.0")
}

func TestHTTPFetcher_ClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(WithRetry(3, time.Millisecond))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), Request{URL: srv.URL + "/missing.jpg"})
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPFetcher_ServerErrorRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(WithRetry(3, time.Millisecond))
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), body)
	assert.Equal(t, int32(3), hits.Load())
}

func TestHTTPFetcher_RejectsOversizedAndEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			return
		}
		w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(WithMaxSize(16), WithRetry(1, 0))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), Request{URL: srv.URL + "/big"})
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), Request{URL: srv.URL + "/empty"})
	assert.Error(t, err)
}

func TestHTTPFetcher_Options(t *testing.T) {
	_, err := NewHTTPFetcher(WithRetry(0, time.Millisecond))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = NewHTTPFetcher(WithProxy("://bad"))
	assert.Error(t, err)

	f, err := NewHTTPFetcher(WithProxy("http://proxy.local:8080"), WithTimeout(time.Second))
	require.NoError(t, err)
	assert.True(t, f.base.DisableKeepAlives)
	assert.Equal(t, time.Second, f.client.Timeout)
}
