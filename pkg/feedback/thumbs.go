package feedback

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/cuemby/arenafeed/pkg/log"
	"github.com/cuemby/arenafeed/pkg/metrics"
	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultThumbTimeout bounds a single thumbnail fetch
const DefaultThumbTimeout = 5 * time.Second

// ThumbFetcher retrieves the thumbnail of a clip
type ThumbFetcher interface {
	FetchThumb(ctx context.Context, id types.EntityID) ([]byte, error)
}

// ThumbStore caches thumbnails by entity
type ThumbStore interface {
	PutThumb(id types.EntityID, data []byte) error
	GetThumb(id types.EntityID) ([]byte, error)
}

// Executor runs fn on the goroutine that owns the engines
type Executor interface {
	Submit(fn func())
}

// Thumbs fetches thumbnails in the background and hands completions back to
// the engine goroutine through an Executor.
type Thumbs struct {
	ctx     context.Context
	fetcher ThumbFetcher
	store   ThumbStore
	exec    Executor
	timeout time.Duration
	logger  zerolog.Logger

	// owned by the executor goroutine
	inflight map[string]struct{}
}

// NewThumbs creates a thumbnail loader. Fetches stop when ctx is done.
func NewThumbs(ctx context.Context, fetcher ThumbFetcher, store ThumbStore, exec Executor) *Thumbs {
	return &Thumbs{
		ctx:      ctx,
		fetcher:  fetcher,
		store:    store,
		exec:     exec,
		timeout:  DefaultThumbTimeout,
		logger:   log.WithComponent("thumbs"),
		inflight: make(map[string]struct{}),
	}
}

// Request starts a fetch for id unless one is already running. done is run
// on the executor after a successful fetch has been stored.
func (t *Thumbs) Request(id types.EntityID, done func()) {
	key := id.String()
	if _, busy := t.inflight[key]; busy {
		return
	}
	t.inflight[key] = struct{}{}

	go func() {
		err := t.fetch(id)
		t.exec.Submit(func() {
			delete(t.inflight, key)
			if err != nil {
				return
			}
			if done != nil {
				done()
			}
		})
	}()
}

func (t *Thumbs) fetch(id types.EntityID) error {
	ctx, cancel := context.WithTimeout(t.ctx, t.timeout)
	defer cancel()

	data, err := t.fetcher.FetchThumb(ctx, id)
	if err == nil {
		err = t.store.PutThumb(id, data)
	}
	if err != nil {
		metrics.ThumbFetchesTotal.WithLabelValues("error").Inc()
		t.logger.Warn().Err(err).Str("clip", id.String()).Msg("thumbnail fetch failed")
		return err
	}
	metrics.ThumbFetchesTotal.WithLabelValues("ok").Inc()
	return nil
}

// Base64 returns the cached thumbnail of id, or "" when none is cached
func (t *Thumbs) Base64(id types.EntityID) string {
	if t == nil {
		return ""
	}
	data, err := t.store.GetThumb(id)
	if err != nil || len(data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}
