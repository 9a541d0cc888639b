package domain

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// Actor is the authenticated caller. ID is the employee id; every engine
// call receives it explicitly instead of reading ambient session state.
type Actor struct {
	ID     string
	UserID string
	Role   Role
}

// SystemActor is recorded on entries written by background processes.
var SystemActor = Actor{ID: "system", Role: RoleAdmin}

func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

func (a Actor) IsManager() bool {
	return a.Is(RoleAdmin, RoleHR)
}
