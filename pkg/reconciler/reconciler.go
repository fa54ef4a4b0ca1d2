package reconciler

import (
	"sync"
	"time"

	"github.com/cuemby/arenafeed/pkg/log"
	"github.com/cuemby/arenafeed/pkg/metrics"
	"github.com/cuemby/arenafeed/pkg/types"
)

// Reloader is an engine that can realign itself with the current snapshot
type Reloader interface {
	Kind() types.Kind
	Reload()
}

// Executor runs fn on the goroutine that owns the engines
type Executor interface {
	Submit(fn func())
}

// Reconcile runs one full reconciliation cycle over engines. Every engine
// completes before Reconcile returns.
func Reconcile(engines ...Reloader) {
	// Start timing the reconciliation cycle
	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.ReconciliationDuration)
		metrics.ReconciliationCyclesTotal.Inc()
	}()

	for _, e := range engines {
		e.Reload()
	}

	log.Logger.Debug().
		Int("engines", len(engines)).
		Dur("duration", timer.Duration()).
		Msg("reconciliation cycle complete")
}

// Reconciler periodically resynchronises the engines against the current
// snapshot as a safety net for lost or reordered remote calls.
type Reconciler struct {
	exec     Executor
	engines  []Reloader
	interval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewReconciler creates a new reconciler
func NewReconciler(exec Executor, interval time.Duration, engines ...Reloader) *Reconciler {
	return &Reconciler{
		exec:     exec,
		engines:  engines,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the reconciliation loop. A non-positive interval disables it.
func (r *Reconciler) Start() {
	if r.interval <= 0 {
		return
	}
	go r.run()
}

// Stop stops the reconciler
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// run is the main reconciliation loop
func (r *Reconciler) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.exec.Submit(func() { Reconcile(r.engines...) })
		case <-r.stopCh:
			return
		}
	}
}
