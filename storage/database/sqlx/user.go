package sqlxrepos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/b7r7b1440/control/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

const userColumns = `id, name, civil_id, phone, role, is_active, password_hash, created_at, updated_at, last_login`

func (repo *userRepository) CheckCivilIDUniqueness(civilID string) error {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM users WHERE civil_id = $1)`, civilID)
	if err != nil {
		return err
	}
	if exists {
		return user.ErrCivilIDExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	_, err := repo.db.Exec(
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		usr.ID, usr.Name, usr.CivilID, usr.Phone, usr.Role, usr.IsActive,
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, usr.LastLogin,
	)
	return usr, err
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.Select(&users, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	return users, err
}

func (repo *userRepository) QueryUsersByRole(role string) ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.Select(
		&users,
		`SELECT `+userColumns+` FROM users WHERE role = $1 AND is_active ORDER BY created_at, id`,
		role,
	)
	return users, err
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, err
}

func (repo *userRepository) GetUserByCivilID(civilID string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT `+userColumns+` FROM users WHERE civil_id = $1`, civilID)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, err
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	if isActive != nil {
		usr.IsActive = *isActive
	} else {
		orig, err := repo.GetUserByID(usr.ID)
		if err != nil {
			return user.User{}, err
		}
		usr.IsActive = orig.IsActive
	}
	res, err := repo.db.Exec(
		`UPDATE users SET name = $2, phone = $3, role = $4, is_active = $5, password_hash = $6, updated_at = $7
		 WHERE id = $1`,
		usr.ID, usr.Name, usr.Phone, usr.Role, usr.IsActive, usr.PasswordHash, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteAllUsers() error {
	_, err := repo.db.Exec(`DELETE FROM users`)
	return err
}
