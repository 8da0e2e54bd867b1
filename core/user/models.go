package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/b7r7b1440/control/core"
)

// Roles
const (
	// RoleManager runs setup: imports, distribution, schedule publishing.
	RoleManager = "MANAGER"
	// RoleControl is the back office receiving completed envelopes.
	RoleControl = "CONTROL"
	// RoleCounselor reads attendance reports.
	RoleCounselor = "COUNSELOR"
	// RoleTeacher supervises a room; teachers form the invigilator pool.
	RoleTeacher = "TEACHER"
)

var (
	AllRoles = []string{RoleManager, RoleControl, RoleCounselor, RoleTeacher}

	rolePriorities = map[string]int{
		RoleManager:   40,
		RoleControl:   30,
		RoleCounselor: 20,
		RoleTeacher:   10,
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	CivilID      string    `json:"civil_id" db:"civil_id"`
	Phone        string    `json:"phone" db:"phone"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login" db:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsManager() bool   { return u.Role == RoleManager }
func (u *User) IsControl() bool   { return u.Role == RoleControl }
func (u *User) IsCounselor() bool { return u.Role == RoleCounselor }
func (u *User) IsTeacher() bool   { return u.Role == RoleTeacher }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	CivilID         string `json:"civil_id" validate:"required,numeric,min=3"`
	Phone           string `json:"phone" validate:"omitempty,min=7"`
	Role            string `json:"role" validate:"required,userrole"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.CivilID = core.CleanString(nu.CivilID)
	nu.Phone = core.CleanString(nu.Phone)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.CivilID)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string `json:"name"`
	Phone           string `json:"phone" validate:"omitempty,min=7"`
	Role            string `json:"role" validate:"omitempty,userrole"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.Name = core.CleanString(uu.Name)
	uu.Phone = core.CleanString(uu.Phone)
	return validate.Struct(uu)
}
