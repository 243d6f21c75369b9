package main

import (
	"context"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/staff"
)

// addTeacher registers a teacher (or the department's HOD) directly,
// bypassing the HOD-gated HTTP endpoint. Used to bootstrap a college.
func (cli *commandLine) addTeacher(college, email, fname, lname, dept string, isHOD bool, pwd string) error {
	role := staff.RoleTeacher
	if isHOD {
		role = staff.RoleHOD
	}
	nt := staff.NewTeacher{
		Firstname:       fname,
		Lastname:        lname,
		Email:           email,
		Department:      dept,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := nt.Validate(); err != nil {
		return err
	}
	_, err := cli.staffSvc.Register(context.Background(), core.CleanString(college, true /* lower */), nt)
	return err
}
