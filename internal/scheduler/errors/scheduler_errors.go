package schedulererrors

import (
	"net/http"

	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
)

var (
	ErrRunInProgress = apperror.New(
		apperror.CodeConflict,
		"a reconciliation run for this date is already in progress",
		http.StatusConflict,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"no reconciliation run recorded for this date",
		http.StatusNotFound,
	)
)
