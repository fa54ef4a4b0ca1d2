/*
Package manager runs the feedback service around a single event loop.

The manager owns the composition snapshot, the parameter cache and the three
feedback engines (clips, columns, decks). Inbound websocket frames, consumer
subscriptions, thumbnail completions and periodic resyncs are all queued as
work items and executed one at a time, so engine state is never touched
concurrently.

	websocket ──► HandleComposition ──┐
	          ──► HandleUpdate ───────┤
	consumers ──► Subscribe/Compute ──┼──► workCh ──► Run loop ──► engines
	thumbnails ─► Submit ─────────────┤                  │
	reconciler ─► Submit ─────────────┘                  ▼
	                                               events.Broker ──► Watcher

A full composition replaces the snapshot and reloads every engine. A
parameter update is cached first and then dispatched to each engine, which
updates its globals, runs hooks and marks the affected categories dirty.
The broker batches dirty categories and the Watcher recomputes the consumers
that observe them.

# Persistence

When a storage.Store is supplied the output variables are restored at start
and saved on shutdown, and clip thumbnails are cached in it.

# Usage

	mgr := manager.NewManager(manager.Config{}, manager.Deps{Channel: client})
	go mgr.Run(ctx)
	go client.Serve(ctx, mgr, time.Second)

	w := manager.NewWatcher(mgr, func(w manager.Watch, res feedback.Result) {
		fmt.Println(w.Category, res.Text)
	})
	w.Add("selectedColumnName", "", feedback.Options{})
	w.Run(ctx)
*/
package manager
