package student

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
	"github.com/trezcool/matokeo/core/tenant"
	emailsvc "github.com/trezcool/matokeo/services/email"
)

type fakeStore struct {
	tables map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string]bool)}
}

func (s *fakeStore) ListTables(context.Context) ([]string, error) {
	var names []string
	for name := range s.tables {
		names = append(names, name)
	}
	return names, nil
}

func (s *fakeStore) TablesLike(context.Context, string) ([]string, error) { return nil, nil }

func (s *fakeStore) TableExists(_ context.Context, table catalog.Table) (bool, error) {
	name, err := table.Name()
	if err != nil {
		return false, err
	}
	return s.tables[name], nil
}

func (s *fakeStore) EnsureTable(_ context.Context, table catalog.Table) error {
	name, err := table.Name()
	if err != nil {
		return err
	}
	s.tables[name] = true
	return nil
}

func (s *fakeStore) HasStudent(context.Context, string, string) (bool, error) { return false, nil }

type fakeStudentRepo struct {
	rows map[string][]*Student // table -> rows
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{rows: make(map[string][]*Student)}
}

func (r *fakeStudentRepo) Create(_ context.Context, table string, s Student) error {
	r.rows[table] = append(r.rows[table], &s)
	return nil
}

func (r *fakeStudentRepo) GetByHtno(_ context.Context, table, htno string) (Student, error) {
	for _, s := range r.rows[table] {
		if s.Htno == htno {
			return *s, nil
		}
	}
	return Student{}, ErrNotFound
}

func (r *fakeStudentRepo) SetPassword(_ context.Context, table, htno, passwordHash string) (int, error) {
	var cnt int
	for _, s := range r.rows[table] {
		if s.Htno == htno {
			s.PasswordHash = passwordHash
			cnt++
		}
	}
	return cnt, nil
}

func (r *fakeStudentRepo) SetResetToken(_ context.Context, table, htno, email, token string) (int, error) {
	var cnt int
	for _, s := range r.rows[table] {
		if strings.EqualFold(s.Htno, htno) && strings.EqualFold(s.Email, email) {
			s.ResetToken = null.StringFrom(token)
			cnt++
		}
	}
	return cnt, nil
}

func (r *fakeStudentRepo) ResetPasswordByToken(_ context.Context, table, token, passwordHash string) (int, error) {
	var cnt int
	for _, s := range r.rows[table] {
		if s.ResetToken.Valid && s.ResetToken.String == token {
			s.PasswordHash = passwordHash
			s.ResetToken = null.String{}
			cnt++
		}
	}
	return cnt, nil
}

func setup() (*Service, *fakeStudentRepo, *fakeStore) {
	repo := newFakeStudentRepo()
	store := newFakeStore()
	logger := core.NopLogger{}
	dir := tenant.NewDirectory(store, logger)
	resolver := tenant.NewResolver(dir, store, logger)
	svc := NewService(repo, store, dir, resolver, emailsvc.NewConsoleServiceMock(), logger)
	return svc, repo, store
}

func register(t *testing.T, svc *Service, tnt, htno, email string) Student {
	t.Helper()
	stu, err := svc.Register(context.Background(), tnt, NewStudent{
		Fname:           "Awe",
		Lname:           "Some",
		Htno:            htno,
		Email:           email,
		Password:        "LeP@ssw0rd!",
		PasswordConfirm: "LeP@ssw0rd!",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return stu
}

func TestService_Register(t *testing.T) {
	svc, repo, store := setup()

	register(t, svc, "cvr", "18B81A0501", "awe@test.cd")

	if !store.tables["cvr_students"] {
		t.Error("Register() did not create the roster table")
	}
	if _, err := repo.GetByHtno(context.Background(), "cvr_students", "18B81A0501"); err != nil {
		t.Errorf("roster row missing: %v", err)
	}

	// duplicate hall ticket number is rejected
	_, err := svc.Register(context.Background(), "cvr", NewStudent{
		Fname: "Other", Lname: "One", Htno: "18B81A0501", Email: "other@test.cd",
		Password: "LeP@ssw0rd!", PasswordConfirm: "LeP@ssw0rd!",
	})
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Errorf("Register() error = %v, want a ValidationError", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, _, _ := setup()
	ctx := context.Background()

	register(t, svc, "cvr", "18B81A0501", "awe@test.cd")

	// explicit tenant
	stu, tnt, err := svc.Authenticate(ctx, "18B81A0501", "LeP@ssw0rd!", "cvr")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if tnt != "cvr" || stu.Htno != "18B81A0501" {
		t.Errorf("Authenticate() = %q, %q", stu.Htno, tnt)
	}

	// tenant auto-detected when not supplied
	if _, tnt, err = svc.Authenticate(ctx, "18B81A0501", "LeP@ssw0rd!", ""); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if tnt != "cvr" {
		t.Errorf("Authenticate() resolved tenant = %q, want %q", tnt, "cvr")
	}

	// wrong password
	if _, _, err = svc.Authenticate(ctx, "18B81A0501", "nope", "cvr"); errors.Cause(err) != ErrAuthenticationFailed {
		t.Errorf("Authenticate() error = %v, want %v", err, ErrAuthenticationFailed)
	}

	// unknown student
	if _, _, err = svc.Authenticate(ctx, "19X99X9999", "LeP@ssw0rd!", "cvr"); errors.Cause(err) != ErrAuthenticationFailed {
		t.Errorf("Authenticate() error = %v, want %v", err, ErrAuthenticationFailed)
	}
}

func TestService_passwordResetFlow(t *testing.T) {
	svc, repo, _ := setup()
	ctx := context.Background()

	register(t, svc, "cvr", "18B81A0501", "awe@test.cd")

	sent := len(emailsvc.SentMessages)
	if err := svc.RequestPasswordReset(ctx, "18B81A0501", "awe@test.cd"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if len(emailsvc.SentMessages) != sent+1 {
		t.Fatalf("RequestPasswordReset() sent %d emails, want 1", len(emailsvc.SentMessages)-sent)
	}

	stu, _ := repo.GetByHtno(ctx, "cvr_students", "18B81A0501")
	if !stu.ResetToken.Valid {
		t.Fatal("RequestPasswordReset() did not store a token")
	}
	token := stu.ResetToken.String

	// the OTP is consumed on first use
	otp, ok := svc.otp.Get("awe@test.cd")
	if !ok {
		t.Fatal("no OTP issued")
	}
	if !svc.VerifyOTP("awe@test.cd", otp) {
		t.Error("VerifyOTP() = false for a fresh OTP")
	}
	if svc.VerifyOTP("awe@test.cd", otp) {
		t.Error("VerifyOTP() = true for a consumed OTP")
	}

	if err := svc.ResetPassword(ctx, token, "NewP@ssw0rd!"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	stu, _ = repo.GetByHtno(ctx, "cvr_students", "18B81A0501")
	if err := stu.CheckPassword("NewP@ssw0rd!"); err != nil {
		t.Error("ResetPassword() did not update the password")
	}
	if stu.ResetToken.Valid {
		t.Error("ResetPassword() did not clear the token")
	}

	// a cleared/unknown token no longer matches
	if err := svc.ResetPassword(ctx, token, "OtherP@ss1!"); errors.Cause(err) != ErrNotFound {
		t.Errorf("ResetPassword() error = %v, want %v", err, ErrNotFound)
	}

	// unknown htno+email pair
	if err := svc.RequestPasswordReset(ctx, "19X99X9999", "lol@test.cd"); errors.Cause(err) != ErrNotFound {
		t.Errorf("RequestPasswordReset() error = %v, want %v", err, ErrNotFound)
	}
}
