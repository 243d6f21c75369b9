package staff

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/matokeo/core"
)

func init() {
	core.Validate.RegisterStructValidation(newTeacherStructValidation, NewTeacher{})
}

// newTeacherStructValidation applies the password policy on registration.
func newTeacherStructValidation(sl validator.StructLevel) {
	if nt, ok := sl.Current().Interface().(NewTeacher); ok {
		core.ValidatePassword(nt.Password, sl, nt.Firstname, nt.Lastname, nt.Email)
	}
}
