package service

import (
	"net/http"

	commonerrors "github.com/specsmith/specsmith/backend/internal/common/errors"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password so the response cannot be used to enumerate accounts.
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid email or password",
	)

	ErrNotAuthenticated = commonerrors.NewDomainError(
		"NOT_AUTHENTICATED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"not authenticated",
	)

	ErrEmailTaken = commonerrors.NewDomainError(
		"EMAIL_ALREADY_REGISTERED",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"email already registered",
	)

	ErrMissingFields = commonerrors.NewDomainError(
		"MISSING_FIELDS",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"missing required fields",
	)

	ErrInvalidEmailFormat = commonerrors.NewDomainError(
		"INVALID_EMAIL_FORMAT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid email format",
	)

	ErrPasswordTooShort = commonerrors.NewDomainError(
		"PASSWORD_TOO_SHORT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"password must be at least 6 characters",
	)

	ErrPasswordTooLong = commonerrors.NewDomainError(
		"PASSWORD_TOO_LONG",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"password must be at most 72 characters",
	)
)
