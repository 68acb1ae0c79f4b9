// Package sessionid derives browsing-session identifiers.
//
// A session identifier is not allocated and stored; it is computed. The
// derivation hashes a stable client input (visitor id, or an IP/user-agent
// fingerprint) together with a time bucket, so any number of concurrent
// requests from the same client inside one bucket compute the identical
// session id with no locks and no shared state. A naive "mint a random id
// on first sight" design races under concurrency — two simultaneous first
// requests each register their own session. Determinism removes the race
// by making the id an idempotent computation.
//
// The time bucket is floor(unixSeconds / window); the default window is
// 1800 seconds, matching a 30-minute inactivity timeout.
package sessionid
