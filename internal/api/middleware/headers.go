// SPDX-License-Identifier: MIT

package middleware

import "net/http"

// NoStoreCORS allows any origin and forbids caching. Artifacts are replaced
// in place, so clients must always revalidate.
func NoStoreCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
