package errors

import "errors"

// Domain errors shared across services and repositories. Handlers map these
// to HTTP statuses at the request boundary.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrCertificateNotFound  = errors.New("certificate not found")
	ErrAlreadyVerified      = errors.New("certificate already verified")
	ErrEmailTaken           = errors.New("user with this email already exists")
	ErrDuplicateApplication = errors.New("you have already applied to this club")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrNotRegistered        = errors.New("not registered for this event")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("forbidden")
	ErrClubScope            = errors.New("admins may only manage their own club")
	ErrStorageFailure       = errors.New("file upload failed")
)
