package employee

import (
	"errors"
	"strings"

	employeeerrors "github.com/srihar-15/EMS/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_employee_number":
				return employeeerrors.ErrEmployeeNumberAlreadyExists
			case "uq_employee_email", "uq_user_email":
				return employeeerrors.ErrEmployeeAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	isDuplicate := strings.Contains(errMsg, "duplicate key value") || strings.Contains(errMsg, "unique constraint failed")
	switch {
	case isDuplicate && strings.Contains(errMsg, "employee_number"):
		return employeeerrors.ErrEmployeeNumberAlreadyExists
	case isDuplicate && strings.Contains(errMsg, "email"):
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	return err
}
