package requesterrors

import (
	"net/http"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/apperror"
)

var (
	ErrNoApprovers = apperror.New(
		apperror.CodeInvalidInput,
		"at least one approver is required",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrSubDayTemplateMultiDay = apperror.New(
		apperror.CodeInvalidInput,
		"a sub-day template cannot span multiple calendar days",
		http.StatusBadRequest,
	)
	ErrInvalidApproverID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approver id",
		http.StatusBadRequest,
	)
	ErrInvalidRequesterID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid requester id",
		http.StatusBadRequest,
	)
	ErrInvalidOrganizationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid organization id",
		http.StatusBadRequest,
	)
	ErrTemplateNotFound = apperror.New(
		apperror.CodeNotFound,
		"pto template not found",
		http.StatusNotFound,
	)
	ErrTemplateDisabled = apperror.New(
		apperror.CodeInvalidState,
		"pto template is disabled",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"pto request not found",
		http.StatusNotFound,
	)
	ErrApprovalNotFound = apperror.New(
		apperror.CodeNotFound,
		"pto approval not found",
		http.StatusNotFound,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requester or an admin can delete this request",
		http.StatusForbidden,
	)
	ErrNotApprovalOwner = apperror.New(
		apperror.CodeForbidden,
		"only the assigned approver or an admin can act on this approval",
		http.StatusForbidden,
	)
	ErrApprovalAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"approval has already been processed",
		http.StatusConflict,
	)
)
