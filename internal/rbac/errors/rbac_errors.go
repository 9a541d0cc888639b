package rbacerrors

import (
	"net/http"

	"github.com/srihar-15/EMS/internal/shared/apperror"
)

var (
	ErrAccessDenied = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to perform this action",
		http.StatusForbidden,
	)
	ErrPolicyEvaluation = apperror.New(
		apperror.CodeInternalError,
		"authorization check failed",
		http.StatusInternalServerError,
	)
)
