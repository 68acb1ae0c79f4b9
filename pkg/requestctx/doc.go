// Package requestctx carries a per-request, read-only snapshot of request
// facts and resolved tracking identity through the context chain.
//
// The snapshot is a value type: it copies scalars out of the request at
// construction time and holds no reference to the request itself, so an
// asynchronous consumer can outlive the request safely. Reading the
// snapshot outside any instrumented request degrades to a zero value,
// never an error.
package requestctx
