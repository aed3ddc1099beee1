package models

import "time"

// Role represents the five portal roles. A user's role is fixed at creation;
// there is no role-change path.
type Role string

const (
	RoleStudent           Role = "student"
	RoleLecturer          Role = "lecturer"
	RolePrincipalLecturer Role = "principal_lecturer"
	RoleProgramLeader     Role = "program_leader"
	RoleFacultyManager    Role = "faculty_manager"
)

// Valid reports whether the role is one of the known portal roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RolePrincipalLecturer, RoleProgramLeader, RoleFacultyManager:
		return true
	}
	return false
}

// RoleCapabilities enumerates what a role may see and act on. The Visibility
// Policy consults this table instead of branching per operation.
type RoleCapabilities struct {
	CanView      []ReportFamily
	CanRespondTo []ReportFamily
	RollupsOnly  bool
}

var roleCapabilities = map[Role]RoleCapabilities{
	RoleStudent: {
		CanView: []ReportFamily{FamilyStudentReports},
	},
	RoleLecturer: {
		CanView: []ReportFamily{FamilyLectureReports, FamilyStudentReports},
	},
	RolePrincipalLecturer: {
		CanView:      []ReportFamily{FamilyLectureReports, FamilyStudentReports},
		CanRespondTo: []ReportFamily{FamilyLectureReports, FamilyStudentReports},
	},
	RoleProgramLeader: {
		CanView:      []ReportFamily{FamilyLectureReports, FamilyPrincipalReports},
		CanRespondTo: []ReportFamily{FamilyLectureReports},
	},
	RoleFacultyManager: {
		RollupsOnly: true,
	},
}

// Capabilities returns the capability set for the role.
func (r Role) Capabilities() RoleCapabilities {
	return roleCapabilities[r]
}

// CanView reports whether the role may list reports of the given family.
func (r Role) CanView(family ReportFamily) bool {
	for _, f := range r.Capabilities().CanView {
		if f == family {
			return true
		}
	}
	return false
}

// CanRespondTo reports whether the role may attach responses to the family.
func (r Role) CanRespondTo(family ReportFamily) bool {
	for _, f := range r.Capabilities().CanRespondTo {
		if f == family {
			return true
		}
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         Role      `db:"role" json:"role"`
	Faculty      string    `db:"faculty" json:"faculty"`
	Department   string    `db:"department" json:"department"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns the display name used by the denormalized report matching.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *Role
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
