// Package gate provides the server's concurrency throttle: an atomic
// in-flight request counter plus an admission lock that lets the host
// application quiesce traffic for maintenance operations (reindexing,
// compaction) without a hard stop.
//
// Requests call Enter/Exit around their lifetime. Commands flagged as hanging
// activities call BeginHanging/EndHanging around their long-running work so
// streaming or blocking operations do not hold up WaitUntilIdle. The wait is
// always bounded by a tick budget and observes context cancellation as the
// shutdown signal.
package gate
