package user

import (
	"errors"
	"time"

	"github.com/b7r7b1440/control/core"
)

var (
	// errors
	ErrNotFound      = errors.New("user not found")
	ErrCivilIDExists = errors.New("a user with this civil ID already exists")
)

type (
	Repository interface {
		CheckCivilIDUniqueness(civilID string) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		// QueryUsersByRole returns active users holding the given role,
		// ordered by creation time. The TEACHER slice doubles as the
		// invigilator pool, so its order must be stable.
		QueryUsersByRole(role string) ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByCivilID(civilID string) (User, error)
		UpdateUser(usr User, isActive *bool) (User, error)
		DeleteAllUsers() error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(civilID string) error {
	if err := svc.repo.CheckCivilIDUniqueness(civilID); err != nil {
		if err == ErrCivilIDExists {
			return core.NewValidationError(err, core.FieldError{Field: "civil_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		CivilID:   nu.CivilID,
		Phone:     nu.Phone,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) QueryByRole(role string) ([]User, error) {
	return svc.repo.QueryUsersByRole(role)
}

// QueryTeachers returns the invigilator pool in stable order.
func (svc *Service) QueryTeachers() ([]User, error) {
	return svc.repo.QueryUsersByRole(RoleTeacher)
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByCivilID(civilID string) (User, error) {
	return svc.repo.GetUserByCivilID(core.CleanString(civilID))
}

func (svc *Service) Update(id string, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return User{}, err
	}
	if uu.Name != "" {
		usr.Name = uu.Name
	}
	if uu.Phone != "" {
		usr.Phone = uu.Phone
	}
	if uu.Role != "" {
		usr.Role = uu.Role
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

// SetLastLogin stamps the user's last successful authentication time.
func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr, nil)
}

// DeleteAll wipes the registry. Only reachable from the full system reset.
func (svc *Service) DeleteAll() error {
	return svc.repo.DeleteAllUsers()
}
