package feedback

import (
	"regexp"
	"strconv"

	"github.com/cuemby/arenafeed/pkg/events"
	"github.com/cuemby/arenafeed/pkg/log"
	"github.com/cuemby/arenafeed/pkg/metrics"
	"github.com/cuemby/arenafeed/pkg/registry"
	"github.com/cuemby/arenafeed/pkg/remote"
	"github.com/cuemby/arenafeed/pkg/state"
	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/cuemby/arenafeed/pkg/variables"
	"github.com/rs/zerolog"
)

// Addressing selects how a signal is subscribed remotely
type Addressing int

const (
	// ByPath signals are subscribed by their symbolic path
	ByPath Addressing = iota
	// ByParam signals are subscribed by the numeric parameter id resolved
	// from the snapshot. The id may change across reloads.
	ByParam
)

func (a Addressing) String() string {
	if a == ByParam {
		return "param"
	}
	return "path"
}

// Signal is one observable parameter of an entity kind with its own registry
type Signal struct {
	Name       string
	Category   string
	Addressing Addressing
	Suffix     string
}

// Hook runs on every matching update, whether or not anyone observes the key
type Hook func(e *Engine, id types.EntityID, update types.Update)

// Trigger is one dispatch rule. Signals lists the registries consulted to
// decide whether the matched key is observed.
type Trigger struct {
	Suffix  string
	Signals []string
	Hook    Hook
}

// ComputeFunc projects the current state of id into a display value.
// Global categories ignore id.
type ComputeFunc func(e *Engine, id types.EntityID, opts Options) Result

// CategoryDef binds a feedback category to its registry signal. Global
// categories have no signal.
type CategoryDef struct {
	Name    string
	Signal  string
	Compute ComputeFunc
}

// Descriptor is everything that differs between entity kinds
type Descriptor struct {
	Kind             types.Kind
	Signals          []Signal
	Triggers         []Trigger
	Categories       []CategoryDef
	GlobalCategories []string

	// Enumerate lists every entity of the kind present in comp
	Enumerate func(comp *types.Composition) []types.EntityID
	// Lookup returns the snapshot parameter of id at suffix
	Lookup func(comp *types.Composition, id types.EntityID, suffix string) *types.Parameter
	// Scan recomputes the globals from a fresh snapshot
	Scan func(e *Engine, comp *types.Composition)

	// Acquired runs after a signal key was created
	Acquired func(e *Engine, signal string, id types.EntityID)
	// Reloaded runs at the end of every reconciliation
	Reloaded func(e *Engine)
}

// Globals is the composition-wide state of one entity kind.
// A zero EntityID means none.
type Globals struct {
	Selected     types.EntityID
	Connected    types.EntityID
	Previewed    types.EntityID
	SelectedName string
	Last         int
}

// Deps are the collaborators shared by every engine
type Deps struct {
	Channel   remote.Channel
	Notifier  events.Notifier
	Snapshot  *state.Snapshot
	Params    *state.Parameters
	Variables variables.Setter
	Thumbs    *Thumbs
}

type trigger struct {
	Trigger
	pattern *regexp.Regexp
}

// Engine multiplexes consumers of one entity kind onto remote subscriptions
// and projects cached values into feedback results.
//
// Engine is not safe for concurrent use. All calls must come from the
// goroutine that owns the composition state.
type Engine struct {
	desc   *Descriptor
	deps   Deps
	logger zerolog.Logger

	signals    map[string]*Signal
	registries map[string]*registry.Registry
	// last numeric id subscribed per ByParam signal and key
	paramIDs map[string]map[string]int64
	triggers []trigger

	globals Globals
	loaded  bool
}

// NewEngine creates an engine for desc
func NewEngine(desc *Descriptor, deps Deps) *Engine {
	if deps.Variables == nil {
		deps.Variables = discardVariables{}
	}
	if deps.Params == nil {
		deps.Params = state.NewParameters()
	}
	if deps.Snapshot == nil {
		deps.Snapshot = state.NewSnapshot()
	}

	e := &Engine{
		desc:       desc,
		deps:       deps,
		logger:     log.WithKind(string(desc.Kind)),
		signals:    make(map[string]*Signal),
		registries: make(map[string]*registry.Registry),
		paramIDs:   make(map[string]map[string]int64),
	}

	for i := range desc.Signals {
		sig := &desc.Signals[i]
		e.signals[sig.Name] = sig
		e.registries[sig.Name] = registry.New(string(desc.Kind) + "." + sig.Name)
		if sig.Addressing == ByParam {
			e.paramIDs[sig.Name] = make(map[string]int64)
		}
	}

	prefix := pathPattern(desc.Kind)
	for _, t := range desc.Triggers {
		e.triggers = append(e.triggers, trigger{
			Trigger: t,
			pattern: regexp.MustCompile("^" + prefix + "/" + regexp.QuoteMeta(t.Suffix) + "$"),
		})
	}

	return e
}

func pathPattern(kind types.Kind) string {
	switch kind {
	case types.KindClip:
		return `/composition/layers/(\d+)/clips/(\d+)`
	case types.KindColumn:
		return `/composition/columns/(\d+)`
	case types.KindDeck:
		return `/composition/decks/(\d+)`
	}
	return `/composition/unknown`
}

// Kind returns the entity kind served by the engine
func (e *Engine) Kind() types.Kind {
	return e.desc.Kind
}

// Globals returns a copy of the composition-wide state
func (e *Engine) Globals() Globals {
	return e.globals
}

// Loaded reports whether the engine has reconciled at least once
func (e *Engine) Loaded() bool {
	return e.loaded
}

// Registry returns the registry of signal, or nil
func (e *Engine) Registry(signal string) *registry.Registry {
	return e.registries[signal]
}

// Subscribe registers consumer for signal of id. The remote subscription is
// issued only when the key is created. Invalid identities are ignored.
func (e *Engine) Subscribe(signal string, id types.EntityID, consumer types.ConsumerID) {
	sig, reg := e.signals[signal], e.registries[signal]
	if sig == nil || id.Kind != e.desc.Kind || !id.Valid() {
		return
	}

	if reg.Acquire(id, consumer) {
		e.subscribeRemote(sig, id)
		e.updateGauge(sig)
		if e.desc.Acquired != nil {
			e.desc.Acquired(e, signal, id)
		}
	}
}

// Unsubscribe removes consumer from signal of id. The remote unsubscribe is
// issued only when the last consumer leaves.
func (e *Engine) Unsubscribe(signal string, id types.EntityID, consumer types.ConsumerID) {
	sig, reg := e.signals[signal], e.registries[signal]
	if sig == nil || id.Kind != e.desc.Kind || !id.Valid() {
		return
	}

	if reg.Release(id, consumer) {
		e.unsubscribeRemote(sig, id)
		e.updateGauge(sig)
	}
}

// Dispatch processes one inbound update. When reload is set, or nothing has
// been reconciled yet and a snapshot exists, the engine reconciles first.
func (e *Engine) Dispatch(update types.Update, reload bool) {
	if reload || !e.loaded {
		if e.deps.Snapshot.Composition() != nil {
			e.Reload()
		}
	}
	if update.Path == "" {
		return
	}

	for _, t := range e.triggers {
		m := t.pattern.FindStringSubmatch(update.Path)
		if m == nil {
			continue
		}
		id, ok := e.identity(m[1:])
		if !ok {
			continue
		}

		observed := false
		for _, name := range t.Signals {
			if reg := e.registries[name]; reg != nil && reg.IsActive(id) {
				e.deps.Notifier.MarkDirty(e.signals[name].Category)
				observed = true
			}
		}
		if observed {
			metrics.EventsTotal.WithLabelValues(string(e.desc.Kind), "dirty").Inc()
		} else {
			metrics.EventsTotal.WithLabelValues(string(e.desc.Kind), "suppressed").Inc()
		}

		if t.Hook != nil {
			t.Hook(e, id, update)
		}
	}
}

func (e *Engine) identity(captures []string) (types.EntityID, bool) {
	indices := make([]int, 0, len(captures))
	for _, c := range captures {
		n, err := strconv.Atoi(c)
		if err != nil {
			return types.EntityID{}, false
		}
		indices = append(indices, n)
	}
	id, ok := types.EntityFromIndices(e.desc.Kind, indices...)
	if !ok || !id.Valid() {
		return types.EntityID{}, false
	}
	return id, true
}

// Reload reconciles the remote subscriptions against the current snapshot
// and recomputes the globals. Running it repeatedly against the same snapshot
// leaves the same registries and remote subscriptions as running it once.
func (e *Engine) Reload() {
	comp := e.deps.Snapshot.Composition()
	if comp == nil {
		return
	}
	e.loaded = true

	ids := e.desc.Enumerate(comp)
	var resubscribed int

	for i := range e.desc.Signals {
		sig := &e.desc.Signals[i]
		reg := e.registries[sig.Name]

		switch sig.Addressing {
		case ByParam:
			// ids may have changed: drop the old one, resolve the new one
			for _, id := range reg.Keys() {
				e.unsubscribeRemote(sig, id)
				if reg.IsActive(id) {
					e.subscribeRemote(sig, id)
					resubscribed++
				}
			}
		case ByPath:
			for _, id := range ids {
				e.deps.Channel.UnsubscribePath(id.Path(sig.Suffix))
				if reg.IsActive(id) {
					e.deps.Channel.SubscribePath(id.Path(sig.Suffix))
					resubscribed++
				}
			}
		}
		e.updateGauge(sig)
	}

	e.globals = Globals{}
	if e.desc.Scan != nil {
		e.desc.Scan(e, comp)
	}

	dirty := make([]string, 0, len(e.desc.Signals)+len(e.desc.GlobalCategories))
	for _, sig := range e.desc.Signals {
		if e.registries[sig.Name].Len() > 0 {
			dirty = append(dirty, sig.Category)
		}
	}
	dirty = append(dirty, e.desc.GlobalCategories...)
	if len(dirty) > 0 {
		e.deps.Notifier.MarkDirty(dirty...)
	}

	if e.desc.Reloaded != nil {
		e.desc.Reloaded(e)
	}

	e.logger.Debug().
		Int("entities", len(ids)).
		Int("resubscribed", resubscribed).
		Strs("dirty", dirty).
		Msg("reconciled")
}

func (e *Engine) subscribeRemote(sig *Signal, id types.EntityID) {
	switch sig.Addressing {
	case ByPath:
		e.deps.Channel.SubscribePath(id.Path(sig.Suffix))
	case ByParam:
		pid := types.ParamID(e.desc.Lookup(e.deps.Snapshot.Composition(), id, sig.Suffix))
		if pid == 0 {
			// resolved on the next reload
			return
		}
		e.deps.Channel.SubscribeParam(pid)
		e.paramIDs[sig.Name][id.String()] = pid
	}
	e.logger.Debug().Str("signal", sig.Name).Str("key", id.String()).Msg("remote subscribe")
}

func (e *Engine) unsubscribeRemote(sig *Signal, id types.EntityID) {
	switch sig.Addressing {
	case ByPath:
		e.deps.Channel.UnsubscribePath(id.Path(sig.Suffix))
	case ByParam:
		key := id.String()
		pid, ok := e.paramIDs[sig.Name][key]
		if !ok {
			pid = types.ParamID(e.desc.Lookup(e.deps.Snapshot.Composition(), id, sig.Suffix))
		}
		delete(e.paramIDs[sig.Name], key)
		if pid == 0 {
			return
		}
		e.deps.Channel.UnsubscribeParam(pid)
	}
	e.logger.Debug().Str("signal", sig.Name).Str("key", id.String()).Msg("remote unsubscribe")
}

func (e *Engine) updateGauge(sig *Signal) {
	metrics.RegistryKeys.WithLabelValues(string(e.desc.Kind), sig.Name).
		Set(float64(e.registries[sig.Name].Len()))
}

// param returns the value of id at suffix from the cache, falling back to the
// snapshot when the cache has no entry yet.
func (e *Engine) param(id types.EntityID, suffix string) *types.Parameter {
	if p, ok := e.deps.Params.Get(id.Path(suffix)); ok {
		return &p
	}
	if e.desc.Lookup == nil {
		return nil
	}
	return e.desc.Lookup(e.deps.Snapshot.Composition(), id, suffix)
}

// markDirtyIfObserved marks the categories of signals that have any key
func (e *Engine) markDirtyIfObserved(signals ...string) {
	var dirty []string
	for _, name := range signals {
		if reg := e.registries[name]; reg != nil && reg.Len() > 0 {
			dirty = append(dirty, e.signals[name].Category)
		}
	}
	if len(dirty) > 0 {
		e.deps.Notifier.MarkDirty(dirty...)
	}
}

// recheck asks for every consumer of signal at id to be recomputed
func (e *Engine) recheck(signal string, id types.EntityID) {
	reg := e.registries[signal]
	if reg == nil {
		return
	}
	for _, c := range reg.Consumers(id) {
		e.deps.Notifier.RecheckConsumer(c)
	}
}

type discardVariables struct{}

func (discardVariables) SetVariables(map[string]string) {}
