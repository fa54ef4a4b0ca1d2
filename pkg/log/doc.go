/*
Package log provides structured logging for arenafeed using zerolog.

A single global Logger is configured once at startup with Init and shared by
every package. Components derive child loggers that carry a "component"
field, so output can be filtered per subsystem.

# Configuration

	log.Init(log.Config{
		Level:      log.ParseLevel("debug"),
		JSONOutput: true,
	})

Console output (the default) is human readable with RFC3339 timestamps. JSON
output writes one object per line and is meant for log shippers.

Until Init is called the Logger discards everything, which keeps tests quiet.

# Child loggers

	logger := log.WithComponent("remote")
	logger.Info().Str("url", url).Msg("websocket connected")

	kindLogger := log.WithKind("clip")                 // component=feedback kind=clip
	consumerLogger := log.WithConsumer(id, "clipInfo") // component=watcher

Child loggers copy the global Logger when they are created, so packages that
hold one in a struct must be constructed after Init.

# Levels

  - debug: remote (un)subscribe calls, reconciliation summaries, ignored frames
  - info: connection and composition lifecycle, watched feedback values
  - warn: thumbnail fetch failures, transport errors, dropped requests
  - error: failures that stop a component
*/
package log
