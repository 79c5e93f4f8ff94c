package domain

import (
	"time"
)

// User is a person known to the identity service. Accounts are created
// there; this service only reads them.
type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserRole string

const (
	UserRolePatient UserRole = "patient"
	UserRoleDoctor  UserRole = "doctor"
	UserRoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == UserRolePatient || r == UserRoleDoctor || r == UserRoleAdmin
}

type Doctor struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	FullName  string    `json:"full_name"`
	Specialty string    `json:"specialty"`
	Bio       string    `json:"bio,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Clinics   []Clinic  `json:"clinics,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DoctorFilter struct {
	Specialty string
	Limit     int
	Offset    int
}
