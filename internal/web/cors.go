// ABOUTME: CORS middleware applied to every route, web and protocol alike
// ABOUTME: Preflight OPTIONS requests short-circuit with a 200

package web

import "net/http"

// CORS wraps a handler with permissive cross-origin headers. Browser-based
// MCP clients call the protocol endpoint directly, so every response
// carries the headers, redirects and 404s included.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Backpack-API-Key")
		h.Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
