package departmenterrors

import (
	"net/http"

	"github.com/srihar-15/EMS/internal/shared/apperror"
)

var (
	ErrInvalidDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"department must be 1 to 100 characters",
		http.StatusBadRequest,
	)
	ErrNegativeAllocation = apperror.New(
		apperror.CodeInvalidInput,
		"allocated must not be negative",
		http.StatusBadRequest,
	)
)
