package tests

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/volatiletech/null/v8"

	. "github.com/trezcool/matokeo/apps/api/echo"
	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
	"github.com/trezcool/matokeo/core/grade"
	"github.com/trezcool/matokeo/core/result"
	"github.com/trezcool/matokeo/core/staff"
	"github.com/trezcool/matokeo/core/student"
	"github.com/trezcool/matokeo/core/tenant"
	emailsvc "github.com/trezcool/matokeo/services/email"
)

// backend is a single in-memory stand-in for the shared database: the
// table catalog and every repository read and write the same state.
type backend struct {
	tables   map[string]bool
	students map[string][]*student.Student            // table -> rows
	teachers map[string][]staff.Teacher               // table -> rows
	results  map[string]map[[2]string]result.Subject  // table -> (htno, subcode) -> row
	grades   map[string]map[string]map[string]float64 // table -> htno -> column -> sgpa
	cgpas    map[string]map[string]float64            // table -> htno -> cgpa
}

func newBackend() *backend {
	return &backend{
		tables:   make(map[string]bool),
		students: make(map[string][]*student.Student),
		teachers: make(map[string][]staff.Teacher),
		results:  make(map[string]map[[2]string]result.Subject),
		grades:   make(map[string]map[string]map[string]float64),
		cgpas:    make(map[string]map[string]float64),
	}
}

// catalog.Store

func (b *backend) ListTables(context.Context) ([]string, error) {
	var names []string
	for name := range b.tables {
		names = append(names, name)
	}
	return names, nil
}

func (b *backend) TablesLike(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "%")
	var matches []string
	for name := range b.tables {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	return matches, nil
}

func (b *backend) TableExists(_ context.Context, table catalog.Table) (bool, error) {
	name, err := table.Name()
	if err != nil {
		return false, err
	}
	return b.tables[name], nil
}

func (b *backend) EnsureTable(_ context.Context, table catalog.Table) error {
	name, err := table.Name()
	if err != nil {
		return err
	}
	b.tables[name] = true
	return nil
}

func (b *backend) HasStudent(_ context.Context, tableName, htno string) (bool, error) {
	for _, s := range b.students[tableName] {
		if s.Htno == htno {
			return true, nil
		}
	}
	for key := range b.results[tableName] {
		if key[0] == htno {
			return true, nil
		}
	}
	return false, nil
}

// student.Repository

type studentRepo struct{ b *backend }

func (r studentRepo) Create(_ context.Context, table string, s student.Student) error {
	r.b.students[table] = append(r.b.students[table], &s)
	return nil
}

func (r studentRepo) GetByHtno(_ context.Context, table, htno string) (student.Student, error) {
	for _, s := range r.b.students[table] {
		if s.Htno == htno {
			return *s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (r studentRepo) SetPassword(_ context.Context, table, htno, passwordHash string) (int, error) {
	var cnt int
	for _, s := range r.b.students[table] {
		if s.Htno == htno {
			s.PasswordHash = passwordHash
			cnt++
		}
	}
	return cnt, nil
}

func (r studentRepo) SetResetToken(_ context.Context, table, htno, email, token string) (int, error) {
	var cnt int
	for _, s := range r.b.students[table] {
		if strings.EqualFold(s.Htno, htno) && strings.EqualFold(s.Email, email) {
			s.ResetToken = null.StringFrom(token)
			cnt++
		}
	}
	return cnt, nil
}

func (r studentRepo) ResetPasswordByToken(_ context.Context, table, token, passwordHash string) (int, error) {
	var cnt int
	for _, s := range r.b.students[table] {
		if s.ResetToken.Valid && s.ResetToken.String == token {
			s.PasswordHash = passwordHash
			s.ResetToken = null.String{}
			cnt++
		}
	}
	return cnt, nil
}

// staff.Repository

type staffRepo struct{ b *backend }

func (r staffRepo) Create(_ context.Context, table string, t staff.Teacher) error {
	r.b.teachers[table] = append(r.b.teachers[table], t)
	return nil
}

func (r staffRepo) GetByEmail(_ context.Context, table, email string) (staff.Teacher, error) {
	for _, t := range r.b.teachers[table] {
		if t.Email == email {
			return t, nil
		}
	}
	return staff.Teacher{}, staff.ErrNotFound
}

func (r staffRepo) HODEmail(_ context.Context, table string, dept catalog.Dept) (string, error) {
	for _, t := range r.b.teachers[table] {
		if t.Role == staff.RoleHOD && t.Department == dept {
			return t.Email, nil
		}
	}
	return "", staff.ErrNotFound
}

// result.Repository

type resultRepo struct{ b *backend }

func (r resultRepo) UpsertBest(_ context.Context, table string, sub result.Subject) error {
	if r.b.results[table] == nil {
		r.b.results[table] = make(map[[2]string]result.Subject)
	}
	key := [2]string{sub.Htno, sub.Subcode}
	if stored, ok := r.b.results[table][key]; ok {
		if !grade.Beats(sub.Grade, stored.Grade) {
			return nil
		}
	}
	r.b.results[table][key] = sub
	return nil
}

func (r resultRepo) ByStudent(_ context.Context, table, htno string) ([]result.Subject, error) {
	var subjects []result.Subject
	for key, sub := range r.b.results[table] {
		if key[0] == htno {
			subjects = append(subjects, sub)
		}
	}
	return subjects, nil
}

func (r resultRepo) All(_ context.Context, table string) ([]result.Subject, error) {
	var subjects []result.Subject
	for _, sub := range r.b.results[table] {
		subjects = append(subjects, sub)
	}
	return subjects, nil
}

// grade.Repository

type gradeRepo struct{ b *backend }

func (r gradeRepo) UpsertSemester(_ context.Context, table, htno, column string, sgpa float64) error {
	if r.b.grades[table] == nil {
		r.b.grades[table] = make(map[string]map[string]float64)
	}
	if r.b.grades[table][htno] == nil {
		r.b.grades[table][htno] = make(map[string]float64)
	}
	r.b.grades[table][htno][column] = sgpa
	return nil
}

func (r gradeRepo) SemesterAverages(_ context.Context, table, htno string) ([]float64, error) {
	row, ok := r.b.grades[table][htno]
	if !ok {
		return nil, nil
	}
	var avgs []float64
	for _, sem := range catalog.Semesters {
		if v, ok := row[sem.Column()]; ok {
			avgs = append(avgs, v)
		}
	}
	return avgs, nil
}

func (r gradeRepo) SetCGPA(_ context.Context, table, htno string, cgpa float64) error {
	if r.b.cgpas[table] == nil {
		r.b.cgpas[table] = make(map[string]float64)
	}
	r.b.cgpas[table][htno] = cgpa
	return nil
}

func (r gradeRepo) GetStudentGrades(_ context.Context, table, htno string) (grade.StudentGrades, error) {
	row, ok := r.b.grades[table][htno]
	if !ok {
		return grade.StudentGrades{}, grade.ErrNotFound
	}
	grades := grade.StudentGrades{Htno: htno}
	slots := []*null.Float64{
		&grades.Sem1_1, &grades.Sem1_2, &grades.Sem2_1, &grades.Sem2_2,
		&grades.Sem3_1, &grades.Sem3_2, &grades.Sem4_1, &grades.Sem4_2,
	}
	for i, sem := range catalog.Semesters {
		if v, ok := row[sem.Column()]; ok {
			*slots[i] = null.Float64From(v)
		}
	}
	if cgpa, ok := r.b.cgpas[table][htno]; ok {
		grades.CGPA = null.Float64From(cgpa)
	}
	return grades, nil
}

func setup(t *testing.T) (Server, *backend) {
	t.Helper()

	b := newBackend()
	logger := core.NopLogger{}
	dir := tenant.NewDirectory(b, logger)
	resolver := tenant.NewResolver(dir, b, logger)
	mailSvc := emailsvc.NewConsoleServiceMock()

	srv := NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logger,
			StudentSvc:     student.NewService(studentRepo{b}, b, dir, resolver, mailSvc, logger),
			StaffSvc:       staff.NewService(staffRepo{b}, b, logger),
			ResultSvc:      result.NewService(resultRepo{b}, b, logger),
			GradeSvc:       grade.NewService(gradeRepo{b}, b, logger),
			Resolver:       resolver,
			Directory:      dir,
		},
	)
	return srv, b
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newUploadRequest(t *testing.T, path, token, csv string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "results.csv")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err = part.Write([]byte(csv)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err = writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getStudentToken(t *testing.T, stu student.Student, tnt string) string {
	t.Helper()
	token, err := GenerateToken(GetStudentClaims(stu, tnt))
	if err != nil {
		t.Fatalf("getStudentToken() failed: %v", err)
	}
	return token
}

func getTeacherToken(t *testing.T, tch staff.Teacher, tnt string) string {
	t.Helper()
	token, err := GenerateToken(GetTeacherClaims(tch, tnt))
	if err != nil {
		t.Fatalf("getTeacherToken() failed: %v", err)
	}
	return token
}

func registerStudent(t *testing.T, b *backend, tnt, htno, email string) student.Student {
	t.Helper()
	logger := core.NopLogger{}
	dir := tenant.NewDirectory(b, logger)
	svc := student.NewService(
		studentRepo{b}, b, dir, tenant.NewResolver(dir, b, logger),
		emailsvc.NewConsoleServiceMock(), logger,
	)
	stu, err := svc.Register(context.Background(), tnt, student.NewStudent{
		Fname: "Awe", Lname: "Some", Htno: htno, Email: email,
		Password: "LeP@ssw0rd!", PasswordConfirm: "LeP@ssw0rd!",
	})
	if err != nil {
		t.Fatalf("registerStudent() failed: %v", err)
	}
	return stu
}

func registerTeacher(t *testing.T, b *backend, tnt, email, dept, role string) staff.Teacher {
	t.Helper()
	svc := staff.NewService(staffRepo{b}, b, core.NopLogger{})
	tch, err := svc.Register(context.Background(), tnt, staff.NewTeacher{
		Firstname: "Awe", Lastname: "Some", Email: email, Department: dept, Role: role,
		Password: "LeP@ssw0rd!", PasswordConfirm: "LeP@ssw0rd!",
	})
	if err != nil {
		t.Fatalf("registerTeacher() failed: %v", err)
	}
	return tch
}
