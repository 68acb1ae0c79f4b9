// Package visitor generates stable anonymous visitor identifiers.
//
// A visitor identifier names a browser/device instance across many sessions.
// It is minted once, on the first request that carries no identifier cookie,
// and then round-tripped unchanged for the cookie's lifetime.
//
//	id := visitor.Generate() // 64-char lowercase hex
package visitor
