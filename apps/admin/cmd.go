package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/b7r7b1440/control/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sql.DB
	usrRepo user.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addmanager -name NAME -civilid CIVIL_ID - create or update a manager account")
	fmt.Println("  resetpassword -civilid CIVIL_ID - reset a user's password")
	fmt.Println("  migrate COMMAND [args] - run a database migration command")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addManagerCmd := flag.NewFlagSet("addmanager", flag.ExitOnError)
	addManagerName := addManagerCmd.String("name", "", "The manager's full name.")
	addManagerCivilID := addManagerCmd.String("civilid", "", "The manager's civil ID. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordCivilID := resetPasswordCmd.String("civilid", "", "The user's civil ID. The password will be prompted next.")

	switch args[1] {
	case "addmanager":
		if err := addManagerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addManagerName == "" || *addManagerCivilID == "" {
			addManagerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				addManagerCmd.Usage()
			}
			return err
		}
		return cli.addManager(*addManagerName, *addManagerCivilID, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordCivilID == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				resetPasswordCmd.Usage()
			}
			return err
		}
		return cli.resetPassword(*resetPasswordCivilID, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}
