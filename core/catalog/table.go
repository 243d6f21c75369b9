package catalog

import (
	"context"
	"strings"
)

// Kind selects the naming and schema template of a routed table.
type Kind int

const (
	KindStudents Kind = iota // per-tenant student roster
	KindTeachers             // per-tenant teacher roster
	KindResults              // per-tenant+dept+semester subject records
	KindGrades               // per-tenant+dept SGPA/CGPA aggregates
)

// Table identifies one concrete backend table. Build values through the
// constructors below; the zero value is not routable.
type Table struct {
	Tenant   string
	Kind     Kind
	Dept     Dept
	Semester Semester
}

func Students(tenant string) Table {
	return Table{Tenant: tenant, Kind: KindStudents}
}

func Teachers(tenant string) Table {
	return Table{Tenant: tenant, Kind: KindTeachers}
}

func Results(tenant string, dept Dept, sem Semester) Table {
	return Table{Tenant: tenant, Kind: KindResults, Dept: dept, Semester: sem}
}

func Grades(tenant string, dept Dept) Table {
	return Table{Tenant: tenant, Kind: KindGrades, Dept: dept}
}

// Name maps the table to its sanitized backend identifier:
//
//	{tenant}_students
//	{tenant}_teachers
//	{tenant}_results_{dept}_{year}_{half}
//	{tenant}_grades_{dept}
//
// It fails with ErrInvalidIdentifier when any segment sanitizes to nothing.
func (t Table) Name() (string, error) {
	tenant, err := Sanitize(strings.ToLower(t.Tenant))
	if err != nil {
		return "", err
	}
	var name string
	switch t.Kind {
	case KindStudents:
		name = tenant + "_students"
	case KindTeachers:
		name = tenant + "_teachers"
	case KindResults:
		name = tenant + "_results_" + t.Dept.lower() + "_" + t.Semester.Suffix()
	case KindGrades:
		name = tenant + "_grades_" + t.Dept.lower()
	}
	return Sanitize(name)
}

// ResultsPattern is the LIKE pattern matching every results table of a tenant.
func ResultsPattern(tenant string) (string, error) {
	t, err := Sanitize(strings.ToLower(tenant))
	if err != nil {
		return "", err
	}
	return t + `_results_%`, nil
}

// Store is the backend catalog surface the routing, discovery and
// repository layers consume. Table creation is idempotent at the backend
// level (create-if-not-exists); no application-level locking is done.
type Store interface {
	// ListTables returns every table name in the shared backend.
	ListTables(ctx context.Context) ([]string, error)
	// TablesLike returns the table names matching a LIKE pattern.
	TablesLike(ctx context.Context, pattern string) ([]string, error)
	// TableExists reports whether the routed table is already present.
	TableExists(ctx context.Context, table Table) (bool, error)
	// EnsureTable creates the routed table with the fixed schema of its
	// Kind if it does not exist yet. Safe to call repeatedly.
	EnsureTable(ctx context.Context, table Table) error
	// HasStudent reports whether any row of the named table carries the
	// student identifier. The table name must already be sanitized.
	HasStudent(ctx context.Context, tableName, htno string) (bool, error)
}
