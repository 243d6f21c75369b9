package staff

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
)

type fakeStore struct {
	tables map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string]bool)}
}

func (s *fakeStore) ListTables(context.Context) ([]string, error)         { return nil, nil }
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

type fakeStaffRepo struct {
	rows map[string][]Teacher // table -> rows
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{rows: make(map[string][]Teacher)}
}

func (r *fakeStaffRepo) Create(_ context.Context, table string, t Teacher) error {
	r.rows[table] = append(r.rows[table], t)
	return nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, table, email string) (Teacher, error) {
	for _, t := range r.rows[table] {
		if t.Email == email {
			return t, nil
		}
	}
	return Teacher{}, ErrNotFound
}

func (r *fakeStaffRepo) HODEmail(_ context.Context, table string, dept catalog.Dept) (string, error) {
	for _, t := range r.rows[table] {
		if t.Role == RoleHOD && t.Department == dept {
			return t.Email, nil
		}
	}
	return "", ErrNotFound
}

func newTeacher(email, dept, role string) NewTeacher {
	return NewTeacher{
		Firstname:       "Awe",
		Lastname:        "Some",
		Email:           email,
		Department:      dept,
		Role:            role,
		Password:        "LeP@ssw0rd!",
		PasswordConfirm: "LeP@ssw0rd!",
	}
}

func TestService_Register(t *testing.T) {
	svc := NewService(newFakeStaffRepo(), newFakeStore(), core.NopLogger{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "cvr", newTeacher("hod@test.cd", "CSE", RoleHOD)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, "cvr", newTeacher("t1@test.cd", "CSE", RoleTeacher)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// only one HOD per department
	_, err := svc.Register(ctx, "cvr", newTeacher("hod2@test.cd", "CSE", RoleHOD))
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Errorf("Register() error = %v, want a ValidationError", err)
	}

	// but another department may have its own
	if _, err := svc.Register(ctx, "cvr", newTeacher("hod3@test.cd", "ECE", RoleHOD)); err != nil {
		t.Errorf("Register() error = %v", err)
	}

	// duplicate email is rejected
	_, err = svc.Register(ctx, "cvr", newTeacher("t1@test.cd", "CSE", RoleTeacher))
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Errorf("Register() error = %v, want a ValidationError", err)
	}

	// unknown department is rejected
	_, err = svc.Register(ctx, "cvr", newTeacher("t2@test.cd", "LOL", RoleTeacher))
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Errorf("Register() error = %v, want a ValidationError", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := NewService(newFakeStaffRepo(), newFakeStore(), core.NopLogger{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "cvr", newTeacher("t1@test.cd", "CSE", RoleTeacher)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tch, err := svc.Authenticate(ctx, "cvr", "t1@test.cd", "LeP@ssw0rd!")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if tch.Email != "t1@test.cd" {
		t.Errorf("Authenticate() email = %q", tch.Email)
	}

	if _, err = svc.Authenticate(ctx, "cvr", "t1@test.cd", "nope"); errors.Cause(err) != ErrAuthenticationFailed {
		t.Errorf("Authenticate() error = %v, want %v", err, ErrAuthenticationFailed)
	}
	if _, err = svc.Authenticate(ctx, "cvr", "lol@test.cd", "LeP@ssw0rd!"); errors.Cause(err) != ErrAuthenticationFailed {
		t.Errorf("Authenticate() error = %v, want %v", err, ErrAuthenticationFailed)
	}
	// roster not created yet for this tenant
	if _, err = svc.Authenticate(ctx, "vnr", "t1@test.cd", "LeP@ssw0rd!"); errors.Cause(err) != ErrAuthenticationFailed {
		t.Errorf("Authenticate() error = %v, want %v", err, ErrAuthenticationFailed)
	}
}

func TestService_HODEmail(t *testing.T) {
	svc := NewService(newFakeStaffRepo(), newFakeStore(), core.NopLogger{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "cvr", newTeacher("hod@test.cd", "CSE", RoleHOD)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	email, err := svc.HODEmail(ctx, "cvr", catalog.DeptCSE)
	if err != nil {
		t.Fatalf("HODEmail() error = %v", err)
	}
	if email != "hod@test.cd" {
		t.Errorf("HODEmail() = %q, want %q", email, "hod@test.cd")
	}

	if _, err = svc.HODEmail(ctx, "cvr", catalog.DeptECE); errors.Cause(err) != ErrNotFound {
		t.Errorf("HODEmail() error = %v, want %v", err, ErrNotFound)
	}
}
