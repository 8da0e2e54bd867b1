package user_test

import (
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b7r7b1440/control/core"
	"github.com/b7r7b1440/control/core/user"
	inmemdb "github.com/b7r7b1440/control/storage/database/inmem"
)

var validate *validator.Validate

func TestMain(m *testing.M) {
	validate = validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	os.Exit(m.Run())
}

func newService(t *testing.T) *user.Service {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	return user.NewService(inmemdb.NewUserRepository(db))
}

func newTeacher(t *testing.T, svc *user.Service, name, civilID string) user.User {
	usr, err := svc.Create(user.NewUser{
		Name:            name,
		CivilID:         civilID,
		Role:            user.RoleTeacher,
		Password:        "S3cured!pwd",
		PasswordConfirm: "S3cured!pwd",
	})
	require.NoError(t, err)
	return usr
}

func TestService_Create(t *testing.T) {
	svc := newService(t)

	usr := newTeacher(t, svc, "Jo Doe", "1234567890")
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.True(t, usr.IsTeacher())
	assert.NoError(t, usr.CheckPassword("S3cured!pwd"))
	assert.Error(t, usr.CheckPassword("wrong"))
}

func TestService_Create_duplicateCivilID(t *testing.T) {
	svc := newService(t)
	newTeacher(t, svc, "Jo Doe", "1234567890")

	data := user.NewUser{
		Name:            "Other",
		CivilID:         "1234567890",
		Role:            user.RoleControl,
		Password:        "S3cured!pwd",
		PasswordConfirm: "S3cured!pwd",
	}
	err := data.Validate(validate, svc)
	require.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %T", err)
	assert.Equal(t, "civil_id", vErr.Fields[0].Field)
}

func TestNewUser_Validate_passwordPolicy(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name string
		pwd  string
		ok   bool
	}{
		{name: "too short", pwd: "S3c!pw"},
		{name: "whitespace", pwd: "S3cured! pwd"},
		{name: "all numeric", pwd: "1234567890"},
		{name: "no complexity", pwd: "secured pwd"},
		{name: "similar to name", pwd: "Jonathan1!"},
		{name: "valid", pwd: "S3cured!pwd", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := user.NewUser{
				Name:            "Jonathan",
				CivilID:         "999888777",
				Role:            user.RoleTeacher,
				Password:        tt.pwd,
				PasswordConfirm: tt.pwd,
			}
			err := data.Validate(validate, svc)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewUser_Validate_role(t *testing.T) {
	svc := newService(t)

	data := user.NewUser{
		Name:            "Jo Doe",
		CivilID:         "5554443330",
		Role:            "JANITOR",
		Password:        "S3cured!pwd",
		PasswordConfirm: "S3cured!pwd",
	}
	assert.Error(t, data.Validate(validate, svc))
}

func TestService_QueryTeachers_stableOrder(t *testing.T) {
	svc := newService(t)
	t1 := newTeacher(t, svc, "Teacher One", "1000000001")
	t2 := newTeacher(t, svc, "Teacher Two", "1000000002")
	t3 := newTeacher(t, svc, "Teacher Three", "1000000003")

	// deactivated teachers drop out of the invigilator pool
	inactive := false
	_, err := svc.Update(t2.ID, user.UpdateUser{IsActive: &inactive})
	require.NoError(t, err)

	pool, err := svc.QueryTeachers()
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, t1.ID, pool[0].ID)
	assert.Equal(t, t3.ID, pool[1].ID)
}

func TestService_GetByCivilID(t *testing.T) {
	svc := newService(t)
	usr := newTeacher(t, svc, "Jo Doe", "1234567890")

	got, err := svc.GetByCivilID(" 1234567890 ")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.GetByCivilID("0000000000")
	assert.Equal(t, user.ErrNotFound, err)
}

func TestRolePriority(t *testing.T) {
	assert.Greater(t, user.RolePriority(user.RoleManager), user.RolePriority(user.RoleControl))
	assert.Greater(t, user.RolePriority(user.RoleControl), user.RolePriority(user.RoleCounselor))
	assert.Greater(t, user.RolePriority(user.RoleCounselor), user.RolePriority(user.RoleTeacher))
	assert.Equal(t, 0, user.RolePriority("JANITOR"))
}
