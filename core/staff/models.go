package staff

import (
	"strings"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
)

// Roles
const (
	RoleTeacher = "TEACHER"
	RoleHOD     = "HOD"
)

// Teacher is one row of a tenant's teacher roster table.
type Teacher struct {
	ID           int          `db:"id" json:"id"`
	Firstname    string       `db:"firstname" json:"firstname"`
	Lastname     string       `db:"lastname" json:"lastname"`
	Email        string       `db:"email" json:"email"`
	Department   catalog.Dept `db:"department" json:"department"`
	PasswordHash string       `db:"password" json:"-"`
	Role         string       `db:"role" json:"role"`
	ResetToken   null.String  `db:"reset_token" json:"-"`
}

func (t *Teacher) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	t.PasswordHash = string(hash)
	return nil
}

func (t *Teacher) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(pwd))
}

func (t *Teacher) IsHOD() bool { return t.Role == RoleHOD }

// NewTeacher contains information needed to register a Teacher.
type NewTeacher struct {
	Firstname       string `json:"firstname" validate:"required"`
	Lastname        string `json:"lastname" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Department      string `json:"department" validate:"required,dept"`
	Role            string `json:"role" validate:"required,oneof=TEACHER HOD"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nt *NewTeacher) Validate() error {
	nt.Firstname = core.CleanString(nt.Firstname)
	nt.Lastname = core.CleanString(nt.Lastname)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Department = strings.ToUpper(core.CleanString(nt.Department))
	nt.Role = strings.ToUpper(core.CleanString(nt.Role))
	return core.Validate.Struct(nt)
}
