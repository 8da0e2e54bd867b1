package main

import (
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/b7r7b1440/control/core/user"
	inmemdb "github.com/b7r7b1440/control/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return &commandLine{usrRepo: inmemdb.NewUserRepository(db)}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCliTests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				if tt.wantErr != nil || tt.wantErrStr != "" {
					t.Errorf("cli.run() error = nil, want %v%s", tt.wantErr, tt.wantErrStr)
				}
				return
			}
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if tt.wantErrStr != "" {
				if err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
				}
			} else {
				t.Errorf("cli.run() unexpected error: %v", err)
			}
		})
	}
}

func Test_commandLine_addManager(t *testing.T) {
	cli := setup(t)
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("S3cured!pwd"), nil }

	tests := []cliTest{
		{name: "no args", args: []string{}, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "addmanager: no flags", args: []string{"addmanager"}, wantErr: errHelp},
		{name: "addmanager", args: []string{"addmanager", "-name", "Big Boss", "-civilid", "1234567890"}},
		{name: "addmanager: repeat updates", args: []string{"addmanager", "-name", "Big Boss", "-civilid", "1234567890"}},
	}
	runCliTests(t, cli, tests)

	usr, err := cli.usrRepo.GetUserByCivilID("1234567890")
	if err != nil {
		t.Fatalf("GetUserByCivilID() failed: %v", err)
	}
	if !usr.IsManager() {
		t.Errorf("expected a MANAGER, got role %q", usr.Role)
	}
	if err := usr.CheckPassword("S3cured!pwd"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("N3w!secret"), nil }

	usr := user.User{Name: "Jo", CivilID: "1112223330", Role: user.RoleTeacher, IsActive: true}
	_ = usr.SetPassword("old")
	if _, err := cli.usrRepo.CreateUser(usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	tests := []cliTest{
		{name: "resetpassword: no flags", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "resetpassword: unknown user", args: []string{"resetpassword", "-civilid", "000"}, wantErr: user.ErrNotFound},
		{name: "resetpassword", args: []string{"resetpassword", "-civilid", "1112223330"}},
	}
	runCliTests(t, cli, tests)

	got, err := cli.usrRepo.GetUserByCivilID("1112223330")
	if err != nil {
		t.Fatalf("GetUserByCivilID() failed: %v", err)
	}
	if err := got.CheckPassword("N3w!secret"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	migrateRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version", "fix": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a version", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a version"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	runCliTests(t, cli, tests)
}
