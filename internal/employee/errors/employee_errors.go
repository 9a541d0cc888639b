package employeeerrors

import (
	"net/http"

	"github.com/srihar-15/EMS/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrEmployeeNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee number already exists",
		http.StatusConflict,
	)
	ErrInvalidJoinDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid join_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNegativeSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Salary must not be negative",
		http.StatusBadRequest,
	)
	ErrSelfPrivilegedUpdate = apperror.New(
		apperror.CodeForbidden,
		"Role, salary, department, designation and status cannot be changed on your own record",
		http.StatusForbidden,
	)
	ErrNoChanges = apperror.New(
		apperror.CodeInvalidInput,
		"No fields to update",
		http.StatusBadRequest,
	)
)
