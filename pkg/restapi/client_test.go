package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var png = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestFetchThumb(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/api/v1/composition/layers/2/clips/3/thumbnail" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v1/", 0)
	assert.Equal(t, srv.URL+"/api/v1/composition/layers/2/clips/3/thumbnail", c.ThumbURL(types.ClipID(2, 3)))

	data, err := c.FetchThumb(context.Background(), types.ClipID(2, 3))
	require.NoError(t, err)
	assert.Equal(t, png, data)

	_, err = c.FetchThumb(context.Background(), types.ClipID(1, 1))
	assert.ErrorContains(t, err, "status 404")
	assert.Equal(t, int32(2), requests.Load())
}

func TestFetchThumbRejectsNonClip(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api/v1", 0)

	_, err := c.FetchThumb(context.Background(), types.ColumnID(1))
	assert.ErrorIs(t, err, ErrNotClip)

	_, err = c.FetchThumb(context.Background(), types.ClipID(0, 1))
	assert.ErrorIs(t, err, ErrNotClip)
}

func TestFetchThumbPaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1)
	_, err := c.FetchThumb(context.Background(), types.ClipID(1, 1))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.FetchThumb(ctx, types.ClipID(1, 2))
	assert.Error(t, err, "second request must wait for the next token")
}
