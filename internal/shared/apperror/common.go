package apperror

import (
	"fmt"
	"net/http"
)

var ErrNotFound = New(
	CodeNotFound,
	"Resource not found",
	http.StatusNotFound,
)

// RequiredField builds the validation error for a missing field, e.g.
// "Worker Id is required".
func RequiredField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s is required", field),
		http.StatusBadRequest,
	)
}

// InvalidField builds the validation error for a field that is present but
// does not satisfy its constraint.
func InvalidField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s is invalid", field),
		http.StatusBadRequest,
	)
}
