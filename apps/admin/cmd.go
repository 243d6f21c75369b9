package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/matokeo/core/staff"
	"github.com/trezcool/matokeo/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	staffSvc   *staff.Service
	studentSvc *student.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addteacher -college COLLEGE -email EMAIL -firstname NAME -lastname NAME -dept DEPT [-hod] - register a teacher")
	fmt.Println("  resetpassword -college COLLEGE -htno HTNO - reset a student's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addTeacherCmd := flag.NewFlagSet("addteacher", flag.ExitOnError)
	addTeacherCollege := addTeacherCmd.String("college", "", "The teacher's college.")
	addTeacherEmail := addTeacherCmd.String("email", "", "The teacher's email. The password will be prompted next.")
	addTeacherFname := addTeacherCmd.String("firstname", "", "The teacher's first name.")
	addTeacherLname := addTeacherCmd.String("lastname", "", "The teacher's last name.")
	addTeacherDept := addTeacherCmd.String("dept", "", "The teacher's department code, e.g. CSE.")
	addTeacherHOD := addTeacherCmd.Bool("hod", false, "Register as the department's HOD.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordCollege := resetPasswordCmd.String("college", "", "The student's college.")
	resetPasswordHtno := resetPasswordCmd.String("htno", "", "The student's hall ticket number. The password will be prompted next.")

	switch args[1] {
	case "addteacher":
		if err := addTeacherCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addTeacherCollege == "" || *addTeacherEmail == "" || *addTeacherFname == "" ||
			*addTeacherLname == "" || *addTeacherDept == "" {
			addTeacherCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addTeacherCmd.Usage()
			return errHelp
		}
		return cli.addTeacher(
			*addTeacherCollege, *addTeacherEmail, *addTeacherFname, *addTeacherLname,
			*addTeacherDept, *addTeacherHOD, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordCollege == "" || *resetPasswordHtno == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordCollege, *resetPasswordHtno, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
