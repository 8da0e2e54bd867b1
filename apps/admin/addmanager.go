package main

import (
	"time"

	"github.com/b7r7b1440/control/core"
	"github.com/b7r7b1440/control/core/user"
)

// addManager updates or creates the MANAGER account used to bootstrap a
// fresh deployment.
func (cli *commandLine) addManager(name, civilID, pwd string) error {
	civilID = core.CleanString(civilID)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByCivilID(civilID)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      core.CleanString(name),
			CivilID:   civilID,
			Role:      user.RoleManager,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	}

	usr.Role = user.RoleManager
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	active := true
	_, err = cli.usrRepo.UpdateUser(usr, &active)
	return err
}
