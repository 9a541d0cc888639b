package performanceerrors

import (
	"net/http"

	"github.com/srihar-15/EMS/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidReviewDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid review_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrSelfReview = apperror.New(
		apperror.CodeForbidden,
		"reviewers cannot review themselves",
		http.StatusForbidden,
	)
)
