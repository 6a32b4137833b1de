package server

import (
	"errors"
	"net/http"

	"prompt_page_studio/composer"
	"prompt_page_studio/features"
	"prompt_page_studio/generator"
	"prompt_page_studio/kickstarters"
	"prompt_page_studio/store"
)

var (
	errSessionNotFound = errors.New("session not found")
	errBadRequest      = errors.New("bad request")
)

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var (
		verr *composer.ValidationError
		perr *composer.PersistenceError
		lerr *kickstarters.LengthError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &lerr),
		errors.Is(err, kickstarters.ErrCapacity),
		errors.Is(err, kickstarters.ErrEmptyQuestion):
		return http.StatusUnprocessableEntity
	case errors.As(err, &perr), errors.Is(err, generator.ErrUnavailable),
		errors.Is(err, features.ErrNoCatalog):
		return http.StatusServiceUnavailable
	case errors.Is(err, errSessionNotFound), errors.Is(err, store.ErrNotFound),
		errors.Is(err, features.ErrUnknownFeature),
		errors.Is(err, kickstarters.ErrUnknownItem),
		errors.Is(err, composer.ErrPlatformNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest), errors.Is(err, features.ErrInvalidPatch),
		errors.Is(err, features.ErrPatchMismatch):
		return http.StatusBadRequest
	case errors.Is(err, composer.ErrAssistDisabled), errors.Is(err, kickstarters.ErrImmutable):
		return http.StatusForbidden
	case errors.Is(err, composer.ErrSubmitInFlight), errors.Is(err, composer.ErrSentimentOff),
		errors.Is(err, composer.ErrNotSaved),
		errors.Is(err, kickstarters.ErrLoadInFlight):
		return http.StatusConflict
	case errors.Is(err, composer.ErrNoAssistant):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
