package organizationerrors

import (
	"net/http"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/apperror"
)

var (
	ErrOrganizationNotFound = apperror.New(
		apperror.CodeNotFound,
		"organization not found",
		http.StatusNotFound,
	)
	ErrInvalidOrganizationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid organization id",
		http.StatusBadRequest,
	)
	ErrExternalIDRequired = apperror.New(
		apperror.CodeInvalidInput,
		"external_id is required",
		http.StatusBadRequest,
	)
)
