package main

import (
	"time"

	"github.com/b7r7b1440/control/core"
)

func (cli *commandLine) resetPassword(civilID, pwd string) error {
	usr, err := cli.usrRepo.GetUserByCivilID(core.CleanString(civilID))
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = cli.usrRepo.UpdateUser(usr, nil)
	return err
}
