package api

import (
	"errors"
	"net/http"

	"inferguard/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var execution *domain.ExecutionError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &execution):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
