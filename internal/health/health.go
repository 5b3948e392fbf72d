// Package health serves liveness and readiness probes.
package health

import (
	"fmt"
	"net/http"

	"github.com/star/snwatch/internal/catalog"
)

// Healthz returns 200 "ok\n" unconditionally.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Readyz reports ready once store holds a catalog snapshot, since nothing
// can be re-filtered before that.
func Readyz(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		snap := store.Get()
		if snap == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("no catalog snapshot\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ready: %d records\n", len(snap.Records))
	}
}
