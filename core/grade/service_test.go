package grade

import (
	"context"
	"testing"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
	"github.com/trezcool/matokeo/core/result"
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

// fakeGradeRepo keeps aggregate rows in memory, keyed by table then htno.
type fakeGradeRepo struct {
	rows  map[string]map[string]map[string]float64 // table -> htno -> column -> sgpa
	cgpas map[string]float64                       // htno -> last stored cgpa
}

func newFakeGradeRepo() *fakeGradeRepo {
	return &fakeGradeRepo{
		rows:  make(map[string]map[string]map[string]float64),
		cgpas: make(map[string]float64),
	}
}

func (r *fakeGradeRepo) UpsertSemester(_ context.Context, table, htno, column string, sgpa float64) error {
	if r.rows[table] == nil {
		r.rows[table] = make(map[string]map[string]float64)
	}
	if r.rows[table][htno] == nil {
		r.rows[table][htno] = make(map[string]float64)
	}
	r.rows[table][htno][column] = sgpa
	return nil
}

func (r *fakeGradeRepo) SemesterAverages(_ context.Context, table, htno string) ([]float64, error) {
	row, ok := r.rows[table][htno]
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

func (r *fakeGradeRepo) SetCGPA(_ context.Context, _, htno string, cgpa float64) error {
	r.cgpas[htno] = cgpa
	return nil
}

func (r *fakeGradeRepo) GetStudentGrades(_ context.Context, table, htno string) (StudentGrades, error) {
	if _, ok := r.rows[table][htno]; !ok {
		return StudentGrades{}, ErrNotFound
	}
	return StudentGrades{Htno: htno}, nil
}

func TestService_SGPA(t *testing.T) {
	svc := NewService(newFakeGradeRepo(), newFakeStore(), core.NopLogger{})

	tests := []struct {
		name     string
		subjects []result.Subject
		want     float64
	}{
		{
			name: "credit weighted",
			subjects: []result.Subject{
				{Grade: "A", Credit: 4},  // 36
				{Grade: "B", Credit: 3},  // 24
				{Grade: "A+", Credit: 3}, // 30
			},
			want: 9,
		},
		{
			name: "rounded half-up",
			subjects: []result.Subject{
				{Grade: "A", Credit: 1},
				{Grade: "A", Credit: 1},
				{Grade: "B", Credit: 1},
			},
			want: 8.67,
		},
		{
			name: "uncountable grades excluded",
			subjects: []result.Subject{
				{Grade: "A", Credit: 3},
				{Grade: "AB", Credit: 3},
				{Grade: "MP", Credit: 2},
			},
			want: 9,
		},
		{
			name: "non-positive credits excluded",
			subjects: []result.Subject{
				{Grade: "A", Credit: 3},
				{Grade: "B", Credit: 0},
				{Grade: "C", Credit: -1},
			},
			want: 9,
		},
		{
			name: "all uncountable",
			subjects: []result.Subject{
				{Grade: "AB", Credit: 3},
				{Grade: "MP", Credit: 3},
			},
			want: 0,
		},
		{name: "no subjects", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.SGPA(tt.subjects); got != tt.want {
				t.Errorf("SGPA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_Store_recomputesCGPA(t *testing.T) {
	repo := newFakeGradeRepo()
	svc := NewService(repo, newFakeStore(), core.NopLogger{})
	ctx := context.Background()

	if err := svc.Store(ctx, "jntuh", catalog.DeptCSE, catalog.Semester{Year: 1, Half: 1}, "18B81A0501", 8.43); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if got := repo.cgpas["18B81A0501"]; got != 8.43 {
		t.Errorf("CGPA after first semester = %v, want %v", got, 8.43)
	}

	// (8.43 + 9.00) / 2 = 8.715 -> half-up
	if err := svc.Store(ctx, "jntuh", catalog.DeptCSE, catalog.Semester{Year: 1, Half: 2}, "18B81A0501", 9); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if got := repo.cgpas["18B81A0501"]; got != 8.72 {
		t.Errorf("CGPA after second semester = %v, want %v", got, 8.72)
	}

	// a recomputed semester replaces its slot, not appends
	if err := svc.Store(ctx, "jntuh", catalog.DeptCSE, catalog.Semester{Year: 1, Half: 2}, "18B81A0501", 8); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if got := repo.cgpas["18B81A0501"]; got != 8.22 {
		t.Errorf("CGPA after recompute = %v, want %v", got, 8.22)
	}
}

func TestService_ComputeSemester(t *testing.T) {
	repo := newFakeGradeRepo()
	svc := NewService(repo, newFakeStore(), core.NopLogger{})

	subjects := []result.Subject{
		{Htno: "18B81A0501", Subcode: "CS101", Grade: "A", Credit: 3},
		{Htno: "18B81A0502", Subcode: "CS101", Grade: "B", Credit: 3},
		{Htno: "18B81A0501", Subcode: "CS102", Grade: "B", Credit: 3},
	}
	if err := svc.ComputeSemester(context.Background(), "jntuh", catalog.DeptCSE, catalog.Semester{Year: 2, Half: 1}, subjects); err != nil {
		t.Fatalf("ComputeSemester() error = %v", err)
	}

	table := "jntuh_grades_cse"
	if got := repo.rows[table]["18B81A0501"]["sem_2_1"]; got != 8.5 {
		t.Errorf("stored SGPA = %v, want %v", got, 8.5)
	}
	if got := repo.rows[table]["18B81A0502"]["sem_2_1"]; got != 8.0 {
		t.Errorf("stored SGPA = %v, want %v", got, 8.0)
	}
	if got := repo.cgpas["18B81A0502"]; got != 8.0 {
		t.Errorf("CGPA = %v, want %v", got, 8.0)
	}
}

func TestService_StudentGrades_absentTable(t *testing.T) {
	svc := NewService(newFakeGradeRepo(), newFakeStore(), core.NopLogger{})

	if _, ok := svc.StudentGrades(context.Background(), "jntuh", catalog.DeptCSE, "18B81A0501"); ok {
		t.Error("StudentGrades() ok = true for an absent grades table")
	}
}
