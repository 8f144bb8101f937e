package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/yaklabco/folio/internal/source"
	"github.com/yaklabco/folio/internal/store"
)

// StatusFor maps a page error to an HTTP status.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if errors.Is(err, store.ErrPostNotFound) || errors.Is(err, source.ErrNotFound) {
		return http.StatusNotFound
	}

	var statusErr *source.StatusError
	if errors.Is(err, source.ErrFetch) || errors.As(err, &statusErr) {
		return http.StatusBadGateway
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}
