package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/matokeo/core"
)

func init() {
	core.Validate.RegisterStructValidation(newStudentStructValidation, NewStudent{})
}

// newStudentStructValidation applies the password policy on registration.
func newStudentStructValidation(sl validator.StructLevel) {
	if ns, ok := sl.Current().Interface().(NewStudent); ok {
		core.ValidatePassword(ns.Password, sl, ns.Fname, ns.Lname, ns.Htno, ns.Email)
	}
}
