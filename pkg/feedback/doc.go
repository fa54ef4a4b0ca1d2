/*
Package feedback projects the live composition into display values for
feedback consumers.

One Engine serves one entity kind (clip, column or deck). The differences
between kinds live in a Descriptor: the signals with their path suffixes and
remote addressing, the dispatch triggers, and the compute functions of each
category. NewClipEngine, NewColumnEngine and NewDeckEngine build the three
stock engines.

# Subscriptions

Every signal has a reference-counted registry. Engine.Subscribe issues the
remote subscribe only when the first consumer arrives for a key, and
Engine.Unsubscribe issues the remote unsubscribe only when the last one
leaves. Signals addressed ByParam are subscribed by the numeric parameter id
found in the snapshot; the id last subscribed is kept so it can be released
even after the entity disappears.

# Reload

Engine.Reload realigns the remote subscriptions after the snapshot has been
replaced:

	ByParam signals: unsubscribe the old id, resolve and subscribe the new one
	ByPath signals:  unsubscribe every enumerated path, resubscribe if active
	Globals:         last selected/connected entity in traversal order wins
	Dirty:           observed categories plus the global summaries

# Dispatch

Engine.Dispatch matches an update path against anchored patterns. A category
is marked dirty only when its registry holds the matched key; hooks that
maintain the globals run regardless.

Engines are not safe for concurrent use. The manager package serialises every
call on one goroutine.
*/
package feedback
