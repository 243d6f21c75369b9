package staff

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
)

var (
	ErrNotFound             = errors.New("teacher not found")
	ErrEmailExists          = errors.New("a teacher with this email already exists")
	ErrHODExists            = errors.New("this department already has an HOD")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

type (
	// Repository persists teacher roster rows. Table names are sanitized by
	// the caller.
	Repository interface {
		Create(ctx context.Context, table string, t Teacher) error
		// GetByEmail returns the roster row; ErrNotFound if absent.
		GetByEmail(ctx context.Context, table, email string) (Teacher, error)
		// HODEmail returns the HOD's email for a department; ErrNotFound
		// when the department has none.
		HODEmail(ctx context.Context, table string, dept catalog.Dept) (string, error)
	}

	Service struct {
		repo   Repository
		store  catalog.Store
		logger core.Logger
	}
)

func NewService(repo Repository, store catalog.Store, logger core.Logger) *Service {
	return &Service{repo: repo, store: store, logger: logger}
}

// Register creates the teacher's roster row, lazily creating the tenant's
// teachers table. A department may hold one HOD; duplicate emails are
// rejected.
func (svc *Service) Register(ctx context.Context, tnt string, nt NewTeacher) (Teacher, error) {
	dept, err := catalog.ParseDept(nt.Department)
	if err != nil {
		return Teacher{}, core.NewValidationError(err, core.FieldError{Field: "department", Error: err.Error()})
	}

	table := catalog.Teachers(tnt)
	name, err := table.Name()
	if err != nil {
		return Teacher{}, err
	}
	if err := svc.store.EnsureTable(ctx, table); err != nil {
		return Teacher{}, errors.Wrapf(err, "ensuring roster %s", name)
	}

	if nt.Role == RoleHOD {
		if _, err := svc.repo.HODEmail(ctx, name, dept); err == nil {
			return Teacher{}, core.NewValidationError(ErrHODExists, core.FieldError{Field: "role", Error: ErrHODExists.Error()})
		} else if errors.Cause(err) != ErrNotFound {
			return Teacher{}, errors.Wrapf(err, "checking HOD in %s", name)
		}
	}
	if _, err := svc.repo.GetByEmail(ctx, name, nt.Email); err == nil {
		return Teacher{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return Teacher{}, errors.Wrapf(err, "checking roster %s", name)
	}

	tch := Teacher{
		Firstname:  nt.Firstname,
		Lastname:   nt.Lastname,
		Email:      nt.Email,
		Department: dept,
		Role:       nt.Role,
	}
	if err := tch.SetPassword(nt.Password); err != nil {
		return Teacher{}, err
	}
	if err := svc.repo.Create(ctx, name, tch); err != nil {
		return Teacher{}, errors.Wrapf(err, "registering %s in %s", nt.Email, name)
	}
	return tch, nil
}

// Authenticate validates email+password against the tenant's teacher roster.
func (svc *Service) Authenticate(ctx context.Context, tnt, email, password string) (Teacher, error) {
	table := catalog.Teachers(tnt)
	name, err := table.Name()
	if err != nil {
		return Teacher{}, err
	}
	exists, err := svc.store.TableExists(ctx, table)
	if err != nil {
		return Teacher{}, errors.Wrapf(err, "checking roster %s", name)
	}
	if !exists {
		return Teacher{}, ErrAuthenticationFailed
	}

	tch, err := svc.repo.GetByEmail(ctx, name, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Teacher{}, ErrAuthenticationFailed
		}
		return Teacher{}, err
	}
	if err := tch.CheckPassword(password); err != nil {
		return Teacher{}, ErrAuthenticationFailed
	}
	return tch, nil
}

// HODEmail returns the department head's email for escalation mails.
func (svc *Service) HODEmail(ctx context.Context, tnt string, dept catalog.Dept) (string, error) {
	table := catalog.Teachers(tnt)
	name, err := table.Name()
	if err != nil {
		return "", err
	}
	exists, err := svc.store.TableExists(ctx, table)
	if err != nil {
		return "", errors.Wrapf(err, "checking roster %s", name)
	}
	if !exists {
		return "", ErrNotFound
	}
	return svc.repo.HODEmail(ctx, name, dept)
}
