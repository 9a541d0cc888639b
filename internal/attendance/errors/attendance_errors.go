package attendanceerrors

import (
	"net/http"

	"github.com/srihar-15/EMS/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeInvalidState,
		"already checked in today",
		http.StatusConflict,
	)
	ErrNoCheckInFound = apperror.New(
		apperror.CodeNotFound,
		"no check-in found for today",
		http.StatusNotFound,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeInvalidState,
		"already checked out today",
		http.StatusConflict,
	)
)
