/*
Package metrics provides Prometheus metrics and health reporting for
arenafeed.

All collectors are package-level variables registered in init and exposed
through Handler on /metrics. Health is tracked per component and served as
JSON on /health and /ready.

# Metrics

arenafeed_remote_calls_total{addressing, op}:
  - Remote subscribe/unsubscribe requests sent
  - addressing: path, param; op: subscribe, unsubscribe

arenafeed_remote_subscriptions_active{addressing}:
  - Remote subscriptions currently held

arenafeed_registry_keys{kind, signal}:
  - Active registry keys per engine signal, e.g. kind="clip",signal="details"

arenafeed_events_total{kind, result}:
  - Inbound updates that matched a trigger
  - result: dirty when a consumer observed the change, suppressed otherwise

arenafeed_reconciliation_duration_seconds:
  - Time to reload every engine after a composition arrives

arenafeed_reconciliation_cycles_total:
  - Completed reconciliation cycles, including periodic resyncs

arenafeed_dirty_batches_total:
  - Dirty-category batches flushed by the events broker

arenafeed_thumb_fetches_total{result}:
  - Thumbnail downloads; result: ok, error

# Timing

	timer := metrics.NewTimer()
	reload()
	timer.ObserveDuration(metrics.ReconciliationDuration)

# Health

	metrics.SetVersion("1.0.0")
	metrics.UpdateComponent(metrics.ComponentWebsocket, true, "connected")

	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())

/health reports every component and answers 503 when any is unhealthy.
/ready answers 200 only once the websocket is connected and a composition has
been loaded.

# Useful queries

  - Suppression ratio: rate(arenafeed_events_total{result="suppressed"}[5m])
    / rate(arenafeed_events_total[5m])
  - Remote load: sum(arenafeed_remote_subscriptions_active)
  - Thumbnail failures: rate(arenafeed_thumb_fetches_total{result="error"}[5m])
*/
package metrics
