package middleware

import "net/http"

// Chain applies multiple middleware in order (first to last)
//
// Example:
//
//	handler := Chain(mux,
//	    RequestLogging,  // Executes first
//	    Metrics,         // Executes second
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	// Apply middleware in reverse order so they execute in the order provided
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// ChainFunc is Chain for route-level HandlerFunc middleware.
func ChainFunc(h http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
