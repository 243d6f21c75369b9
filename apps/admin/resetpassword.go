package main

import (
	"context"

	"github.com/trezcool/matokeo/core"
)

func (cli *commandLine) resetPassword(college, htno, pwd string) error {
	college = core.CleanString(college, true /* lower */)
	htno = core.CleanString(htno)
	return cli.studentSvc.SetPassword(context.Background(), college, htno, pwd)
}
