package manager

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/cuemby/arenafeed/pkg/events"
	"github.com/cuemby/arenafeed/pkg/feedback"
	"github.com/cuemby/arenafeed/pkg/log"
	"github.com/cuemby/arenafeed/pkg/metrics"
	"github.com/cuemby/arenafeed/pkg/reconciler"
	"github.com/cuemby/arenafeed/pkg/remote"
	"github.com/cuemby/arenafeed/pkg/state"
	"github.com/cuemby/arenafeed/pkg/storage"
	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/cuemby/arenafeed/pkg/variables"
	"github.com/rs/zerolog"
)

// ErrStopped is returned by calls made after the manager stopped
var ErrStopped = errors.New("manager stopped")

const defaultQueueSize = 1024

// Config holds configuration for creating a Manager
type Config struct {
	FlushInterval   time.Duration
	ResyncInterval  time.Duration
	LayerCategories []string
	QueueSize       int
}

// Deps are the external collaborators of a Manager
type Deps struct {
	// Channel receives remote subscribe/unsubscribe requests
	Channel remote.Channel
	// Store persists thumbnails and output variables; optional
	Store storage.Store
	// Fetcher loads clip thumbnails; ignored without a Store
	Fetcher feedback.ThumbFetcher
}

// Manager owns the composition state and the engines and serialises every
// operation on them through one event loop.
type Manager struct {
	snapshot *state.Snapshot
	params   *state.Parameters
	ledger   *remote.Ledger
	broker   *events.Broker
	vars     *variables.Store
	store    storage.Store

	clips   *feedback.Engine
	columns *feedback.Engine
	decks   *feedback.Engine
	catalog *feedback.Catalog

	reconciler *reconciler.Reconciler

	workCh   chan func()
	doneCh   chan struct{}
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
	logger   zerolog.Logger
}

// NewManager creates a new Manager instance
func NewManager(cfg Config, deps Deps) *Manager {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		snapshot: state.NewSnapshot(),
		params:   state.NewParameters(),
		ledger:   remote.NewLedger(deps.Channel),
		broker:   events.NewBroker(cfg.FlushInterval),
		vars:     variables.NewStore(),
		store:    deps.Store,
		workCh:   make(chan func(), cfg.QueueSize),
		doneCh:   make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		logger:   log.WithComponent("manager"),
	}

	engineDeps := feedback.Deps{
		Channel:   m.ledger,
		Notifier:  m.broker,
		Snapshot:  m.snapshot,
		Params:    m.params,
		Variables: m.vars,
	}
	if deps.Store != nil && deps.Fetcher != nil {
		engineDeps.Thumbs = feedback.NewThumbs(ctx, deps.Fetcher, deps.Store, m)
	}

	m.clips = feedback.NewClipEngine(engineDeps, cfg.LayerCategories)
	m.columns = feedback.NewColumnEngine(engineDeps)
	m.decks = feedback.NewDeckEngine(engineDeps)
	m.catalog = feedback.NewCatalog(m.clips, m.columns, m.decks)
	m.reconciler = reconciler.NewReconciler(m, cfg.ResyncInterval, m.clips, m.columns, m.decks)

	m.vars.OnChange(func(name, value string) {
		m.logger.Debug().Str("variable", name).Str("value", value).Msg("variable changed")
	})

	return m
}

// Run processes queued work until ctx is cancelled
func (m *Manager) Run(ctx context.Context) error {
	m.restoreVariables()
	m.broker.Start()
	m.reconciler.Start()
	m.logger.Info().Msg("manager started")

	for {
		select {
		case <-ctx.Done():
			return m.shutdown()
		case fn := <-m.workCh:
			fn()
		}
	}
}

// Submit queues fn for the event loop. It implements feedback.Executor.
func (m *Manager) Submit(fn func()) {
	select {
	case m.workCh <- fn:
	case <-m.doneCh:
	}
}

// call runs fn on the event loop and waits for it
func (m *Manager) call(fn func()) error {
	done := make(chan struct{})
	m.Submit(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-m.doneCh:
		return ErrStopped
	}
}

// HandleComposition installs a full composition and reconciles every engine
func (m *Manager) HandleComposition(comp *types.Composition) {
	m.Submit(func() {
		gen := m.snapshot.Replace(comp)
		m.params.Load(comp)
		reconciler.Reconcile(m.clips, m.columns, m.decks)

		metrics.UpdateComponent(metrics.ComponentComposition, true, "generation "+strconv.FormatUint(gen, 10))
		m.logger.Info().
			Uint64("generation", gen).
			Int("layers", len(comp.Layers)).
			Int("columns", len(comp.Columns)).
			Int("decks", len(comp.Decks)).
			Msg("composition loaded")
	})
}

// HandleUpdate caches one parameter change and dispatches it to the engines
func (m *Manager) HandleUpdate(update types.Update) {
	m.Submit(func() {
		m.params.Apply(update)
		m.clips.Dispatch(update, false)
		m.columns.Dispatch(update, false)
		m.decks.Dispatch(update, false)
	})
}

// ConnectionChanged records the transport state. A lost connection drops
// every remote subscription; the next composition resubscribes them.
func (m *Manager) ConnectionChanged(connected bool) {
	if connected {
		metrics.UpdateComponent(metrics.ComponentWebsocket, true, "connected")
		return
	}
	metrics.UpdateComponent(metrics.ComponentWebsocket, false, "disconnected")
	m.Submit(m.ledger.Forget)
}

// Subscribe registers consumer for category at params
func (m *Manager) Subscribe(category string, consumer types.ConsumerID, params string) error {
	var err error
	if cerr := m.call(func() { err = m.catalog.Subscribe(category, consumer, params) }); cerr != nil {
		return cerr
	}
	return err
}

// Unsubscribe removes consumer from category at params
func (m *Manager) Unsubscribe(category string, consumer types.ConsumerID, params string) error {
	var err error
	if cerr := m.call(func() { err = m.catalog.Unsubscribe(category, consumer, params) }); cerr != nil {
		return cerr
	}
	return err
}

// Compute returns the current display value of category at params
func (m *Manager) Compute(category, params string, opts feedback.Options) (feedback.Result, error) {
	var (
		res feedback.Result
		err error
	)
	if cerr := m.call(func() { res, err = m.catalog.Compute(category, params, opts) }); cerr != nil {
		return feedback.Result{}, cerr
	}
	return res, err
}

// Catalog returns the category catalog. Its methods must only be called
// from work submitted to the manager.
func (m *Manager) Catalog() *feedback.Catalog {
	return m.catalog
}

// Events subscribes to flushed invalidation batches
func (m *Manager) Events() events.Subscriber {
	return m.broker.Subscribe()
}

// StopEvents cancels an Events subscription
func (m *Manager) StopEvents(sub events.Subscriber) {
	m.broker.Unsubscribe(sub)
}

// Variables returns the named output values
func (m *Manager) Variables() *variables.Store {
	return m.vars
}

// Ledger returns the remote subscription bookkeeping
func (m *Manager) Ledger() *remote.Ledger {
	return m.ledger
}

func (m *Manager) restoreVariables() {
	if m.store == nil {
		return
	}
	values, err := m.store.LoadVariables()
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to restore variables")
		return
	}
	m.vars.SetVariables(values)
}

// shutdown stops the background loops and persists the output variables
func (m *Manager) shutdown() error {
	var err error
	m.stopOnce.Do(func() {
		close(m.doneCh)
		m.cancel()
		m.reconciler.Stop()
		m.broker.Stop()

		if m.store != nil {
			err = m.store.SaveVariables(m.vars.Snapshot())
		}
		m.logger.Info().Msg("manager stopped")
	})
	return err
}
