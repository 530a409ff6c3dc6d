package employeeerrors

import (
	"net/http"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidOrganizationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid organization id",
		http.StatusBadRequest,
	)
	ErrInvalidTimezone = apperror.New(
		apperror.CodeInvalidInput,
		"invalid IANA timezone",
		http.StatusBadRequest,
	)
	ErrNegativeAnnualDays = apperror.New(
		apperror.CodeInvalidInput,
		"annual_pto_days must be >= 0",
		http.StatusBadRequest,
	)
	ErrNegativeUsedDays = apperror.New(
		apperror.CodeInvalidInput,
		"used_pto_days must be >= 0",
		http.StatusBadRequest,
	)
)
