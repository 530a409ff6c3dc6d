package templateerrors

import (
	"net/http"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/apperror"
)

var (
	ErrTemplateNotFound = apperror.New(
		apperror.CodeNotFound,
		"pto template not found",
		http.StatusNotFound,
	)
	ErrInvalidOrganizationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid organization id",
		http.StatusBadRequest,
	)
	ErrInvalidDaysConsumed = apperror.New(
		apperror.CodeInvalidInput,
		"days_consumed must be between 0 and 1",
		http.StatusBadRequest,
	)
)
