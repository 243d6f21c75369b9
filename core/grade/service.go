package grade

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
	"github.com/trezcool/matokeo/core/result"
)

var ErrNotFound = errors.New("no aggregate row for student")

type (
	// Repository persists aggregate rows in a grades table. Table names are
	// sanitized by the caller.
	Repository interface {
		// UpsertSemester writes sgpa into the semester column, inserting
		// the student's row if it does not exist yet.
		UpsertSemester(ctx context.Context, table, htno, column string, sgpa float64) error
		// SemesterAverages returns the non-null semester columns of the
		// student's row, in slot order.
		SemesterAverages(ctx context.Context, table, htno string) ([]float64, error)
		// SetCGPA writes the cumulative column.
		SetCGPA(ctx context.Context, table, htno string, cgpa float64) error
		// GetStudentGrades returns the full aggregate row; ErrNotFound if absent.
		GetStudentGrades(ctx context.Context, table, htno string) (StudentGrades, error)
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

// SGPA computes the credit-weighted semester average of one student's
// subject records, rounded half-up to 2 decimal places. Uncountable grades
// and non-positive credits contribute nothing; zero countable credit yields 0.
func (svc *Service) SGPA(subjects []result.Subject) float64 {
	var totalPoints, totalCredits float64
	for _, sub := range subjects {
		pts, ok := Points(sub.Grade)
		if !ok || sub.Credit <= 0 {
			continue
		}
		totalPoints += pts * sub.Credit
		totalCredits += sub.Credit
	}
	if totalCredits == 0 {
		return 0
	}
	return round2(totalPoints / totalCredits)
}

// ComputeSemester computes and persists the SGPA of every student present
// in subjects (one department semester), then recomputes each student's
// CGPA. Write failures propagate; a failed write must not be reported as
// success.
func (svc *Service) ComputeSemester(ctx context.Context, tenant string, dept catalog.Dept, sem catalog.Semester, subjects []result.Subject) error {
	byStudent := make(map[string][]result.Subject)
	var order []string
	for _, sub := range subjects {
		if _, seen := byStudent[sub.Htno]; !seen {
			order = append(order, sub.Htno)
		}
		byStudent[sub.Htno] = append(byStudent[sub.Htno], sub)
	}

	for _, htno := range order {
		sgpa := svc.SGPA(byStudent[htno])
		if err := svc.Store(ctx, tenant, dept, sem, htno, sgpa); err != nil {
			return err
		}
	}
	return nil
}

// Store persists one semester average for a student and recomputes the
// cumulative average as the unweighted mean of all semester averages
// currently stored, so CGPA is always derived from durable state. Each
// statement commits independently; a crash in between leaves a stale CGPA
// that self-heals on the next write.
func (svc *Service) Store(ctx context.Context, tenant string, dept catalog.Dept, sem catalog.Semester, htno string, sgpa float64) error {
	table := catalog.Grades(tenant, dept)
	name, err := table.Name()
	if err != nil {
		return err
	}
	if err := svc.store.EnsureTable(ctx, table); err != nil {
		return errors.Wrapf(err, "ensuring grades table %s", name)
	}
	if err := svc.repo.UpsertSemester(ctx, name, htno, sem.Column(), sgpa); err != nil {
		return errors.Wrapf(err, "storing SGPA for %s in %s", htno, name)
	}

	averages, err := svc.repo.SemesterAverages(ctx, name, htno)
	if err != nil {
		return errors.Wrapf(err, "fetching semester averages for %s in %s", htno, name)
	}
	if len(averages) == 0 {
		return nil
	}
	var sum float64
	for _, avg := range averages {
		sum += avg
	}
	cgpa := round2(sum / float64(len(averages)))
	if err := svc.repo.SetCGPA(ctx, name, htno, cgpa); err != nil {
		return errors.Wrapf(err, "storing CGPA for %s in %s", htno, name)
	}
	return nil
}

// StudentGrades fetches a student's aggregate row. An absent grades table,
// an absent row or a backend error all downgrade to (zero, false): "no
// results yet" is a normal state for students with nothing uploaded.
func (svc *Service) StudentGrades(ctx context.Context, tenant string, dept catalog.Dept, htno string) (StudentGrades, bool) {
	table := catalog.Grades(tenant, dept)
	name, err := table.Name()
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("routing grades table for %q/%s: %v", tenant, dept, err))
		return StudentGrades{}, false
	}
	exists, err := svc.store.TableExists(ctx, table)
	if err != nil || !exists {
		return StudentGrades{}, false
	}
	grades, err := svc.repo.GetStudentGrades(ctx, name, htno)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			svc.logger.Warn(fmt.Sprintf("fetching grades for %s in %s: %v", htno, name, err))
		}
		return StudentGrades{}, false
	}
	return grades, true
}
