// Package metrics counts what the traffic printer does: rendered events,
// emitted lines, sink failures and async tasks dropped under pressure.
// Counters are Prometheus collectors so they can be exported by any host
// application, and Snapshot reads them back for local summaries.
package metrics
