// Package site serves the embedded standings dashboard.
package site

import (
	"context"
	"net/http"
)

// Register attaches the dashboard at / to mux. Paths not claimed by other
// routes fall through to the embedded files.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("GET /", http.FileServer(FS()))
}
