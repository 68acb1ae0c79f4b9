// Package hitbeat is the Go SDK for the Hitbeat analytics collector.
//
// It instruments a web application with stable visitor identifiers,
// race-free session identifiers, and helpers for emitting tracking,
// identification and conversion events.
//
// Wire the middleware once and emit events from handlers:
//
//	cfg, err := hitbeat.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client := hitbeat.New(cfg)
//
//	r := chi.NewRouter()
//	r.Use(client.Middleware(
//		tracking.WithUserIDFunc(currentUserID),
//	))
//	r.Post("/signup", func(w http.ResponseWriter, r *http.Request) {
//		// ... create the account ...
//		_, _ = client.Track(r.Context(), "signup", map[string]any{"plan": "pro"})
//	})
//
// The middleware publishes the resolved identity into the request context;
// Track, Identify, Alias and Conversion read it from there. Outside an
// instrumented request the ambient identity is simply absent and calls
// that need it return ErrInvalidPayload.
//
// Session identity is deterministic by design: concurrent requests from
// one client inside the same 30-minute bucket derive the identical session
// id without coordination, so session registration is idempotent even
// under racy first requests. See pkg/sessionid for the derivation and
// pkg/tracking for the middleware.
package hitbeat
