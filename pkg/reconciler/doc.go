/*
Package reconciler realigns the remote subscription set with the composition.

Reconcile is called by the manager whenever a new composition snapshot has
been installed. It runs Reload on every engine in turn, so the reconciliation
is one atomic step from the point of view of the event loop:

	┌──────────────────────────────────────────────┐
	│        Composition replaced (reload)         │
	└──────────────────────┬───────────────────────┘
	                       │
	      ┌────────────────┼────────────────┐
	      ▼                ▼                ▼
	┌───────────┐    ┌───────────┐    ┌───────────┐
	│   clips   │    │  columns  │    │   decks   │
	└─────┬─────┘    └─────┬─────┘    └─────┬─────┘
	      │                │                │
	      ▼                ▼                ▼
	  re-resolve       unsubscribe,     recompute
	  numeric ids      resubscribe      globals
	                   active paths

Reconciling twice against the same snapshot leaves the same registries and the
same remote subscriptions as reconciling once, so the periodic Reconciler can
replay it on a fixed interval to heal subscriptions dropped by the transport.
The periodic loop never touches the engines directly; each cycle is submitted
to the manager's event loop through an Executor.

# Metrics

Each cycle records arenafeed_reconciliation_duration_seconds and increments
arenafeed_reconciliation_cycles_total.
*/
package reconciler
