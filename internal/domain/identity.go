package domain

import "time"

// Roles assignable to accounts.
const (
	RoleAdmin = "admin"
	RoleHod   = "hod"
	RoleStaff = "staff"
)

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleHod || role == RoleStaff
}

// Account is an authentication identity. Passwords are stored as salted
// SHA-256 hashes; accounts created during approval get a random password
// that is never communicated.
type Account struct {
	ID               int64      `json:"id,string" form:"id"`
	Email            string     `gorm:"uniqueIndex;size:255" json:"email" form:"email"`
	Password         string     `json:"-" form:"-"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
	LastLogin        time.Time  `json:"last_login"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Account) TableName() string {
	return "accounts"
}

// Profile holds the presentation identity of an account. Approved gates
// login for non-admin roles; toggling it deactivates/reactivates the
// account without destroying its role assignment.
type Profile struct {
	ID         int64     `json:"id,string" form:"id"`
	Email      string    `gorm:"index;size:255" json:"email" form:"email"`
	FullName   string    `json:"full_name" form:"full_name"`
	Department string    `gorm:"size:32" json:"department" form:"department"`
	Approved   bool      `json:"approved" form:"approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Profile) TableName() string {
	return "profiles"
}

// UserRole assigns a role to an account. A row existing implies the
// account passed approval at least once.
type UserRole struct {
	ID         int64     `json:"id,string" form:"id"`
	UserID     int64     `gorm:"uniqueIndex" json:"user_id,string" form:"user_id"`
	Role       string    `gorm:"size:16" json:"role" form:"role"`
	Department string    `gorm:"size:32" json:"department" form:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName Specify table name
func (UserRole) TableName() string {
	return "user_roles"
}

// Registration request states.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// RegistrationRequest is a pending account-access application awaiting
// admin review.
type RegistrationRequest struct {
	ID            int64      `json:"id,string" form:"id"`
	Email         string     `gorm:"index;size:255" json:"email" form:"email"`
	FullName      string     `json:"full_name" form:"full_name"`
	Department    string     `gorm:"size:32" json:"department" form:"department"`
	RequestedRole string     `gorm:"size:16" json:"requested_role" form:"requested_role"`
	Justification string     `json:"justification" form:"justification"`
	Status        string     `gorm:"size:16;index" json:"status" form:"status"`
	ReviewedBy    *int64     `json:"reviewed_by,string" form:"reviewed_by"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (RegistrationRequest) TableName() string {
	return "registration_requests"
}
