// Package tracking provides the HTTP middleware that resolves visitor and
// session identity for every instrumented request.
//
// Per request the middleware: filters out health checks and static assets,
// builds one immutable identity record (visitor id from cookie or freshly
// minted, session id from cookie or derived deterministically, user id
// from the host's lookup), publishes the record into the request context,
// writes the identifier cookies, and — on the first request of a session —
// notifies the collector on a detached goroutine.
//
// One middleware instance serves all concurrent requests. It holds no
// per-request state: identity is recomputed from local values on every
// call, and the deterministic derivation in pkg/sessionid (rather than any
// shared cache) guarantees concurrent requests from one client agree on a
// single session id.
//
//	mw := tracking.New(
//		tracking.WithNotifier(client),
//		tracking.WithUserIDFunc(currentUserID),
//	)
//	r := chi.NewRouter()
//	r.Use(mw.Handler)
package tracking
