package student

import (
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
)

// Student is one row of a tenant's student roster table.
type Student struct {
	ID           int         `db:"id" json:"id"`
	Fname        string      `db:"fname" json:"fname"`
	Lname        string      `db:"lname" json:"lname"`
	Htno         string      `db:"htno" json:"htno"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password" json:"-"`
	ResetToken   null.String `db:"reset_token" json:"-"`

	// Department is resolved from results tables, not stored on the row.
	Department catalog.Dept `db:"-" json:"department,omitempty"`
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(pwd))
}

// NewStudent contains information needed to register a Student.
type NewStudent struct {
	Fname           string `json:"fname" validate:"required"`
	Lname           string `json:"lname" validate:"required"`
	Htno            string `json:"htno" validate:"required,alphanum_"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ns *NewStudent) Validate() error {
	ns.Fname = core.CleanString(ns.Fname)
	ns.Lname = core.CleanString(ns.Lname)
	ns.Htno = core.CleanString(ns.Htno)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.Validate.Struct(ns)
}
