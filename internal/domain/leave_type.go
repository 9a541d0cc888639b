package domain

import "strings"

type LeaveType string

const (
	LeaveVacation LeaveType = "vacation"
	LeaveSick     LeaveType = "sick"
	LeavePersonal LeaveType = "personal"
)

var LeaveTypes = []LeaveType{LeaveVacation, LeaveSick, LeavePersonal}

func ParseLeaveType(s string) (LeaveType, bool) {
	t := LeaveType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case LeaveVacation, LeaveSick, LeavePersonal:
		return t, true
	}
	return "", false
}

// BalanceColumn is the employees column holding the remaining days for t.
func (t LeaveType) BalanceColumn() string {
	return "balance_" + string(t)
}

// LeaveBalance is stored inline on the employee row.
type LeaveBalance struct {
	Vacation int `gorm:"column:balance_vacation;not null;default:20" json:"vacation"`
	Sick     int `gorm:"column:balance_sick;not null;default:10" json:"sick"`
	Personal int `gorm:"column:balance_personal;not null;default:5" json:"personal"`
}

func DefaultLeaveBalance() LeaveBalance {
	return LeaveBalance{Vacation: 20, Sick: 10, Personal: 5}
}

func (b LeaveBalance) Of(t LeaveType) int {
	switch t {
	case LeaveVacation:
		return b.Vacation
	case LeaveSick:
		return b.Sick
	case LeavePersonal:
		return b.Personal
	}
	return 0
}
