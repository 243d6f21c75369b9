package student

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
	"github.com/trezcool/matokeo/core/tenant"
)

var (
	ErrNotFound             = errors.New("student not found")
	ErrStudentExists        = errors.New("a student with this hall ticket number already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

type (
	// Repository persists roster rows. Table names are sanitized by the caller.
	Repository interface {
		Create(ctx context.Context, table string, s Student) error
		// GetByHtno returns the roster row; ErrNotFound if absent.
		GetByHtno(ctx context.Context, table, htno string) (Student, error)
		// SetPassword overwrites the password hash of the row matching
		// htno and returns the affected row count.
		SetPassword(ctx context.Context, table, htno, passwordHash string) (int, error)
		// SetResetToken stores the token on the row matching htno+email
		// (case-insensitively) and returns the affected row count.
		SetResetToken(ctx context.Context, table, htno, email, token string) (int, error)
		// ResetPasswordByToken swaps the password hash of the row holding
		// token and clears the token; returns the affected row count.
		ResetPasswordByToken(ctx context.Context, table, token, passwordHash string) (int, error)
	}

	Service struct {
		repo     Repository
		store    catalog.Store
		resolver *tenant.Resolver
		dir      *tenant.Directory
		mailSvc  core.EmailService
		otp      *OTPStore
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	store catalog.Store,
	dir *tenant.Directory,
	resolver *tenant.Resolver,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		resolver: resolver,
		dir:      dir,
		mailSvc:  mailSvc,
		otp:      NewOTPStore(),
		logger:   logger,
	}
}

// Register creates the student's roster row in the tenant's students table,
// lazily creating the table. Duplicate hall ticket numbers are rejected.
func (svc *Service) Register(ctx context.Context, tnt string, ns NewStudent) (Student, error) {
	table := catalog.Students(tnt)
	name, err := table.Name()
	if err != nil {
		return Student{}, err
	}
	if err := svc.store.EnsureTable(ctx, table); err != nil {
		return Student{}, errors.Wrapf(err, "ensuring roster %s", name)
	}

	if _, err := svc.repo.GetByHtno(ctx, name, ns.Htno); err == nil {
		return Student{}, core.NewValidationError(ErrStudentExists, core.FieldError{Field: "htno", Error: ErrStudentExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return Student{}, errors.Wrapf(err, "checking roster %s", name)
	}

	stu := Student{
		Fname: ns.Fname,
		Lname: ns.Lname,
		Htno:  ns.Htno,
		Email: ns.Email,
	}
	if err := stu.SetPassword(ns.Password); err != nil {
		return Student{}, err
	}
	if err := svc.repo.Create(ctx, name, stu); err != nil {
		return Student{}, errors.Wrapf(err, "registering %s in %s", ns.Htno, name)
	}
	return stu, nil
}

// Authenticate validates htno+password against the owning tenant's roster.
// When tnt is empty the tenant is auto-detected by scanning.
func (svc *Service) Authenticate(ctx context.Context, htno, password, tnt string) (Student, string, error) {
	htno = core.CleanString(htno)
	if htno == "" || password == "" {
		return Student{}, "", ErrAuthenticationFailed
	}
	if tnt == "" {
		tnt = svc.resolver.ResolveStudent(ctx, htno).Tenant
	}

	stu, err := svc.get(ctx, tnt, htno)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Student{}, "", ErrAuthenticationFailed
		}
		return Student{}, "", err
	}
	if err := stu.CheckPassword(password); err != nil {
		return Student{}, "", ErrAuthenticationFailed
	}
	return stu, tnt, nil
}

// GetStudent fetches the roster row and fills in the resolved department.
func (svc *Service) GetStudent(ctx context.Context, tnt, htno string) (Student, error) {
	stu, err := svc.get(ctx, tnt, htno)
	if err != nil {
		return Student{}, err
	}
	stu.Department = svc.resolver.ResolveDepartment(ctx, htno, tnt).Dept
	return stu, nil
}

// EmailByHtno looks up the registered email across tenants.
func (svc *Service) EmailByHtno(ctx context.Context, htno string) (string, error) {
	tnt := svc.resolver.ResolveStudent(ctx, htno).Tenant
	stu, err := svc.get(ctx, tnt, htno)
	if err != nil {
		return "", err
	}
	return stu.Email, nil
}

// RequestPasswordReset issues an OTP and a reset token for the student and
// emails both. The token is persisted on the roster row; the OTP lives in
// memory only.
func (svc *Service) RequestPasswordReset(ctx context.Context, htno, email string) error {
	tnt := svc.resolver.ResolveStudent(ctx, htno).Tenant
	table := catalog.Students(tnt)
	name, err := table.Name()
	if err != nil {
		return err
	}

	token := uuid.New().String()
	updated, err := svc.repo.SetResetToken(ctx, name, htno, email, token)
	if err != nil {
		return errors.Wrapf(err, "storing reset token in %s", name)
	}
	if updated == 0 {
		return ErrNotFound
	}

	otp := svc.otp.Generate(email)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: email}},
		Subject: "Password reset",
		BodyStr: fmt.Sprintf(
			"Your one-time password is %s (valid for 10 minutes).\n\nOr reset directly: %s/reset-password?token=%s\n",
			otp, core.Conf.FrontendBaseURL, token,
		),
	})
	return nil
}

// VerifyOTP consumes the OTP issued for the email.
func (svc *Service) VerifyOTP(email, otp string) bool {
	stored, ok := svc.otp.Get(email)
	if !ok || stored != otp {
		return false
	}
	svc.otp.Clear(email)
	return true
}

// SetPassword overwrites the student's password without a token check.
// Meant for the admin CLI, never exposed over HTTP.
func (svc *Service) SetPassword(ctx context.Context, tnt, htno, newPassword string) error {
	table := catalog.Students(tnt)
	name, err := table.Name()
	if err != nil {
		return err
	}

	var stu Student
	if err := stu.SetPassword(newPassword); err != nil {
		return err
	}
	updated, err := svc.repo.SetPassword(ctx, name, htno, stu.PasswordHash)
	if err != nil {
		return errors.Wrapf(err, "setting password in %s", name)
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword finds the roster row holding the token in any tenant, swaps
// the password and clears the token.
func (svc *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	var stu Student
	if err := stu.SetPassword(newPassword); err != nil {
		return err
	}

	for _, tnt := range svc.dir.Tenants(ctx) {
		table := catalog.Students(tnt)
		name, err := table.Name()
		if err != nil {
			continue
		}
		exists, err := svc.store.TableExists(ctx, table)
		if err != nil || !exists {
			continue
		}
		updated, err := svc.repo.ResetPasswordByToken(ctx, name, token, stu.PasswordHash)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("password reset check failed for %q: %v", tnt, err))
			continue
		}
		if updated > 0 {
			return nil
		}
	}
	return ErrNotFound
}

func (svc *Service) get(ctx context.Context, tnt, htno string) (Student, error) {
	table := catalog.Students(tnt)
	name, err := table.Name()
	if err != nil {
		return Student{}, err
	}
	exists, err := svc.store.TableExists(ctx, table)
	if err != nil {
		return Student{}, errors.Wrapf(err, "checking roster %s", name)
	}
	if !exists {
		return Student{}, ErrNotFound
	}
	return svc.repo.GetByHtno(ctx, name, htno)
}
