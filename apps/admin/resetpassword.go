package main

import (
	"context"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	instructor, err := cli.usrSvc.GetInstructorByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := instructor.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateInstructor(ctx, instructor)
	return err
}
