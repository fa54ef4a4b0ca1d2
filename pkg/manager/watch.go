package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/cuemby/arenafeed/pkg/events"
	"github.com/cuemby/arenafeed/pkg/feedback"
	"github.com/cuemby/arenafeed/pkg/log"
	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Watch is one consumer observing a category at fixed parameters
type Watch struct {
	Consumer types.ConsumerID
	Category string
	Params   string
	Options  feedback.Options
}

func (w Watch) logger() *zerolog.Logger {
	l := log.WithConsumer(string(w.Consumer), w.Category)
	return &l
}

// ResultFunc receives a freshly computed value for a watch
type ResultFunc func(w Watch, res feedback.Result)

// Watcher subscribes a set of watches and recomputes them whenever the
// manager reports their category dirty or their consumer rechecked.
type Watcher struct {
	mgr *Manager
	out ResultFunc

	mu      sync.Mutex
	watches []Watch
}

// NewWatcher creates a watcher delivering results to out
func NewWatcher(mgr *Manager, out ResultFunc) *Watcher {
	return &Watcher{mgr: mgr, out: out}
}

// Add subscribes a new consumer for category at params
func (w *Watcher) Add(category, params string, opts feedback.Options) (Watch, error) {
	watch := Watch{
		Consumer: types.ConsumerID(uuid.NewString()),
		Category: category,
		Params:   params,
		Options:  opts,
	}
	if err := w.mgr.Subscribe(category, watch.Consumer, params); err != nil {
		return Watch{}, fmt.Errorf("failed to watch %s(%s): %w", category, params, err)
	}
	watch.logger().Debug().Str("params", params).Msg("watch added")

	w.mu.Lock()
	w.watches = append(w.watches, watch)
	w.mu.Unlock()
	return watch, nil
}

// Watches returns the registered watches
func (w *Watcher) Watches() []Watch {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Watch, len(w.watches))
	copy(out, w.watches)
	return out
}

// Run delivers recomputed values until ctx is cancelled, then unsubscribes
// every watch.
func (w *Watcher) Run(ctx context.Context) error {
	sub := w.mgr.Events()
	defer w.mgr.StopEvents(sub)
	defer w.release()

	for _, watch := range w.Watches() {
		w.emit(watch)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub:
			if !ok {
				return nil
			}
			for _, watch := range w.affected(ev) {
				w.emit(watch)
			}
		}
	}
}

func (w *Watcher) affected(ev *events.Event) []Watch {
	var out []Watch
	for _, watch := range w.Watches() {
		switch ev.Type {
		case events.EventDirty:
			for _, c := range ev.Categories {
				if c == watch.Category {
					out = append(out, watch)
					break
				}
			}
		case events.EventRecheck:
			for _, c := range ev.Consumers {
				if c == watch.Consumer {
					out = append(out, watch)
					break
				}
			}
		}
	}
	return out
}

func (w *Watcher) emit(watch Watch) {
	res, err := w.mgr.Compute(watch.Category, watch.Params, watch.Options)
	if err != nil {
		watch.logger().Warn().Err(err).Msg("failed to compute watch")
		return
	}
	w.out(watch, res)
}

func (w *Watcher) release() {
	for _, watch := range w.Watches() {
		if err := w.mgr.Unsubscribe(watch.Category, watch.Consumer, watch.Params); err != nil {
			watch.logger().Debug().Err(err).Msg("failed to release watch")
		}
	}
}
