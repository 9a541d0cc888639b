package attendance

import (
	"errors"
	"strings"

	attendanceerrors "github.com/srihar-15/EMS/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapCreateError turns a lost race on the (employee, date) unique index into
// ErrAlreadyCheckedIn.
func mapCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_employee_date" {
		return attendanceerrors.ErrAlreadyCheckedIn
	}
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return attendanceerrors.ErrAlreadyCheckedIn
	}
	return err
}
