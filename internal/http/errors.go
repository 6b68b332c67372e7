package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/pkg/httpx"
	"github.com/invertar/invertar/pkg/slogx"
)

// writeServiceError translates service-level sentinels into the wire error
// envelope. Anything unrecognized is logged and reported as the generic
// internal error.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	log := slogx.FromContext(ctx)

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.Unauthorized("invalid organization, username or credential").Write(w)
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		httpx.Unauthorized("invalid or expired access code").Write(w)
	case errors.Is(err, service.ErrPasswordNotSet):
		httpx.Unauthorized("password not set for this account").Write(w)
	case errors.Is(err, service.ErrForbidden):
		httpx.Forbidden("operation not permitted").Write(w)
	case errors.Is(err, service.ErrNotFound):
		httpx.NotFound("resource not found").Write(w)
	case errors.Is(err, service.ErrAlreadyExists):
		httpx.Conflict("resource already exists").Write(w)
	case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrValidation):
		httpx.BadRequest(err.Error()).Write(w)
	case errors.Is(err, service.ErrBootstrapAlready):
		httpx.Conflict("system already bootstrapped").Write(w)
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		httpx.Unauthorized("invalid bootstrap token").Write(w)
	default:
		log.Error("unhandled service error", "err", err)
		httpx.Internal().Write(w)
	}
}
