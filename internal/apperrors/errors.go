package apperrors

import (
	"errors"
)

var (
	ErrKeyNotFound        = errors.New("key not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrSealedValueInvalid = errors.New("sealed value could not be opened")

	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired, login required")
	ErrNoRefreshToken = errors.New("refresh token not stored")
	ErrBadResponse    = errors.New("unexpected response from backend")

	ErrSubmissionInProgress = errors.New("form submission already in progress")
	ErrUnknownStep          = errors.New("unknown wizard step")
	ErrTermsNotAccepted     = errors.New("terms must be accepted")
)
