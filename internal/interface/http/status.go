package http

import (
	"errors"
	"net/http"

	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
)

// statusFor maps a domain error to its HTTP status. Unknown errors are
// internal failures and must not leak their message to clients.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainerrors.ErrForbidden), errors.Is(err, domainerrors.ErrClubScope):
		return http.StatusForbidden
	case errors.Is(err, domainerrors.ErrNotFound),
		errors.Is(err, domainerrors.ErrUserNotFound),
		errors.Is(err, domainerrors.ErrCertificateNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerrors.ErrAlreadyVerified),
		errors.Is(err, domainerrors.ErrEmailTaken),
		errors.Is(err, domainerrors.ErrDuplicateApplication),
		errors.Is(err, domainerrors.ErrAlreadyRegistered),
		errors.Is(err, domainerrors.ErrNotRegistered):
		return http.StatusConflict
	case errors.Is(err, domainerrors.ErrStorageFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor hides internals for unexpected errors and passes domain
// messages through otherwise.
func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
