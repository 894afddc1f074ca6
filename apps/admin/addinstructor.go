package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/user"
)

// addInstructor updates or creates a user.Instructor
func (cli *commandLine) addInstructor(courseID, email, name, role, pwd string) error {
	ctx := context.Background()
	courseID = core.CleanString(courseID)
	email = core.CleanString(email, true /* lower */)

	instructor, err := cli.usrSvc.GetInstructor(ctx, courseID, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		_, err = cli.usrSvc.CreateInstructor(ctx, user.NewInstructor{
			CourseID: courseID,
			Name:     name,
			Email:    email,
			Role:     role,
			Password: pwd,
		})
		return err
	}

	instructor.Name = name
	instructor.Role = role
	if err = instructor.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateInstructor(ctx, instructor)
	return err
}
