// Package clientip resolves the originating client IP of an HTTP request
// behind reverse proxies.
//
// Resolution walks X-Forwarded-For (first valid entry), then X-Real-IP,
// then the direct connection address, and finally falls back to the
// literal "unknown" so callers never branch on a resolution failure.
package clientip
