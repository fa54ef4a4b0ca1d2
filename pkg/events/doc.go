/*
Package events batches feedback invalidations and fans them out to
subscribers.

Engines call MarkDirty when a category needs to be recomputed and
RecheckConsumer when one consumer's value changed for a reason other than a
parameter update (a thumbnail arriving, for example). Both calls only record
the request; the Broker coalesces everything queued during one flush interval
into at most two events:

	MarkDirty("clipInfo") ──┐
	MarkDirty("clipInfo") ──┼──► pending set ──(every interval)──► EventDirty{Categories}
	RecheckConsumer("c1") ──┘                                 └──► EventRecheck{Consumers}

Every event carries a UUID and a timestamp. Subscriber channels are buffered;
a subscriber that falls behind misses events rather than blocking the
broker.

# Usage

	broker := events.NewBroker(50 * time.Millisecond)
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	for ev := range sub {
		switch ev.Type {
		case events.EventDirty:
			// recompute consumers of ev.Categories
		case events.EventRecheck:
			// recompute ev.Consumers
		}
	}

Stop flushes whatever is still pending before the loop exits.
*/
package events
