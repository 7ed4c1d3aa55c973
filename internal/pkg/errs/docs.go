// Package errs provides the typed errors shared by the dispatch domain,
// application and adapter layers.
//
// Every error type pairs a sentinel (ErrValueIsInvalid, ErrObjectNotFound, ...)
// with a struct carrying the offending parameter and an optional cause.
// Unwrap returns the sentinel, so callers classify with errors.Is and inspect
// details with errors.As:
//
//	if errors.Is(err, errs.ErrVersionIsInvalid) {
//	    // another request changed the order first
//	}
//
// The HTTP adapter relies on these sentinels to pick a response status.
package errs
