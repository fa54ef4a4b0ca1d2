package restapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cuemby/arenafeed/pkg/log"
	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrNotClip is returned when a thumbnail is requested for a non-clip entity
var ErrNotClip = errors.New("thumbnails exist only for clips")

const (
	defaultTimeout = 10 * time.Second
	maxThumbBytes  = 4 << 20
)

// Client talks to the remote REST API. Requests are paced by a token
// bucket so a composition reload cannot flood the server with thumbnail
// fetches.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewClient creates a REST client for baseURL, e.g.
// "http://127.0.0.1:8080/api/v1". perSecond <= 0 disables pacing.
func NewClient(baseURL string, perSecond float64) *Client {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(limit, burst),
		logger:  log.WithComponent("restapi"),
	}
}

// ThumbURL returns the thumbnail endpoint of a clip
func (c *Client) ThumbURL(id types.EntityID) string {
	return c.baseURL + "/composition/layers/" + strconv.Itoa(id.Layer) +
		"/clips/" + strconv.Itoa(id.Index) + "/thumbnail"
}

// FetchThumb downloads the PNG thumbnail of a clip
func (c *Client) FetchThumb(ctx context.Context, id types.EntityID) ([]byte, error) {
	if id.Kind != types.KindClip || !id.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrNotClip, id)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := c.ThumbURL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	c.logger.Debug().Str("clip", id.String()).Int("bytes", len(data)).Msg("thumbnail fetched")
	return data, nil
}
