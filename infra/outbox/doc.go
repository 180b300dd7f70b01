// Package outbox persists emitted trades in a pebble store with a small
// NEW/SENT/ACKED state machine, decoupling the matching path from the
// Kafka publish path. The broadcaster drains it; a crash between the two
// re-sends instead of dropping.
package outbox
