package remote

import (
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/cuemby/arenafeed/pkg/metrics"
)

// ErrClosed is returned when the client has been closed
var ErrClosed = errors.New("remote channel closed")

// Channel accepts subscribe/unsubscribe requests for the remote composition.
// Calls are fire-and-forget and idempotent from the caller's perspective.
type Channel interface {
	SubscribePath(path string)
	UnsubscribePath(path string)
	SubscribeParam(id int64)
	UnsubscribeParam(id int64)
}

// ParamPath returns the by-id path used to address a numeric parameter
func ParamPath(id int64) string {
	return "/parameter/by-id/" + strconv.FormatInt(id, 10)
}

// Calls counts the requests passed through a Ledger
type Calls struct {
	SubscribePath    int
	UnsubscribePath  int
	SubscribeParam   int
	UnsubscribeParam int
}

// Ledger forwards requests to an inner channel and keeps the set of
// subscriptions that are currently held remotely.
type Ledger struct {
	mu     sync.Mutex
	inner  Channel
	paths  map[string]struct{}
	params map[int64]struct{}
	calls  Calls
}

// NewLedger wraps inner, which may be nil
func NewLedger(inner Channel) *Ledger {
	return &Ledger{
		inner:  inner,
		paths:  make(map[string]struct{}),
		params: make(map[int64]struct{}),
	}
}

func (l *Ledger) SubscribePath(path string) {
	l.mu.Lock()
	l.calls.SubscribePath++
	l.paths[path] = struct{}{}
	l.updateGauges()
	l.mu.Unlock()

	metrics.RemoteCallsTotal.WithLabelValues("path", "subscribe").Inc()
	if l.inner != nil {
		l.inner.SubscribePath(path)
	}
}

func (l *Ledger) UnsubscribePath(path string) {
	l.mu.Lock()
	l.calls.UnsubscribePath++
	delete(l.paths, path)
	l.updateGauges()
	l.mu.Unlock()

	metrics.RemoteCallsTotal.WithLabelValues("path", "unsubscribe").Inc()
	if l.inner != nil {
		l.inner.UnsubscribePath(path)
	}
}

func (l *Ledger) SubscribeParam(id int64) {
	l.mu.Lock()
	l.calls.SubscribeParam++
	l.params[id] = struct{}{}
	l.updateGauges()
	l.mu.Unlock()

	metrics.RemoteCallsTotal.WithLabelValues("param", "subscribe").Inc()
	if l.inner != nil {
		l.inner.SubscribeParam(id)
	}
}

func (l *Ledger) UnsubscribeParam(id int64) {
	l.mu.Lock()
	l.calls.UnsubscribeParam++
	delete(l.params, id)
	l.updateGauges()
	l.mu.Unlock()

	metrics.RemoteCallsTotal.WithLabelValues("param", "unsubscribe").Inc()
	if l.inner != nil {
		l.inner.UnsubscribeParam(id)
	}
}

// must hold l.mu
func (l *Ledger) updateGauges() {
	metrics.RemoteSubscriptionsActive.WithLabelValues("path").Set(float64(len(l.paths)))
	metrics.RemoteSubscriptionsActive.WithLabelValues("param").Set(float64(len(l.params)))
}

// Calls returns a copy of the call counters
func (l *Ledger) Calls() Calls {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// ResetCalls zeroes the call counters without touching the active sets
func (l *Ledger) ResetCalls() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = Calls{}
}

// ActivePaths returns the held path subscriptions, sorted
func (l *Ledger) ActivePaths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.paths))
	for p := range l.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ActiveParams returns the held parameter subscriptions, sorted
func (l *Ledger) ActiveParams() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]int64, 0, len(l.params))
	for id := range l.params {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Forget clears the active sets, e.g. after the connection was lost and the
// server dropped every subscription.
func (l *Ledger) Forget() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = make(map[string]struct{})
	l.params = make(map[int64]struct{})
	l.updateGauges()
}
