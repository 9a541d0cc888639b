package leaveerrors

import (
	"net/http"

	"github.com/srihar-15/EMS/internal/shared/apperror"
)

var (
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of vacation, sick, personal",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidInput,
		"insufficient leave balance",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not pending",
		http.StatusConflict,
	)
	ErrNotEscalated = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not awaiting admin approval",
		http.StatusConflict,
	)
	ErrBalanceMismatch = apperror.New(
		apperror.CodeInvalidState,
		"leave balance changed since submission and no longer covers this request",
		http.StatusConflict,
	)
)
