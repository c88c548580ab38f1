package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError carries the HTTP status a failure should surface as. Only
// validation and not-found failures are meant to cross the API boundary;
// everything else degrades inside the service layer.
type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: http.StatusNotFound, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: http.StatusUnauthorized, Message: msg}
}

func ErrForbidden(msg string) error {
	return ServiceError{Status: http.StatusForbidden, Message: msg}
}

// StatusOf maps an error to its HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var svcErr ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Status
	}
	return http.StatusInternalServerError
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
