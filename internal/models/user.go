package models

import "time"

type UserRole string
type UserStatus string

const (
	RoleAdmin    UserRole = "Admin"
	RoleManager  UserRole = "Manager"
	RoleEmployee UserRole = "Employee"

	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
)

// User is an account plus its employee profile. EmployeeID is the stable
// badge number shown to people; it is allocated from 25001 and is distinct
// from the storage key.
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EmployeeID int        `gorm:"uniqueIndex;not null" json:"employee_id"`
	Name       string     `gorm:"not null" json:"name"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Role       UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status     UserStatus `gorm:"type:varchar(20);not null" json:"status"`

	PasswordHash string `gorm:"not null" json:"-"`
	// TempPassword forces a password change on first login when set.
	TempPassword bool `gorm:"not null;default:false" json:"-"`

	EmployeeType   string     `json:"employee_type,omitempty"`
	Designation    string     `json:"designation,omitempty"`
	JobType        string     `json:"job_type,omitempty"`
	EmploymentType string     `json:"employment_type,omitempty"`
	Timing         string     `json:"timing,omitempty"`
	Company        string     `json:"company,omitempty"`
	Department     string     `json:"department,omitempty"`
	PhotoPath      string     `json:"photo_path,omitempty"`
	JoiningDate    *time.Time `json:"joining_date,omitempty"`

	TOTPSecret  string `json:"-"`
	TOTPEnabled bool   `gorm:"not null;default:false" json:"totp_enabled"`

	FailedLoginCount int        `gorm:"not null;default:0" json:"-"`
	LockoutLevel     int        `gorm:"not null;default:0" json:"-"`
	LockoutUntil     *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
