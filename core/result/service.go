package result

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
)

type (
	// Repository persists subject records in a results table. Table names
	// are sanitized by the caller.
	Repository interface {
		// UpsertBest inserts the record, or replaces the existing
		// (htno, subcode) row only when the incoming grade is strictly
		// better on the grade scale. A later upload (e.g. a supplementary
		// exam) only ever improves a stored grade, never degrades it.
		UpsertBest(ctx context.Context, table string, sub Subject) error
		// ByStudent returns the student's rows in the table.
		ByStudent(ctx context.Context, table, htno string) ([]Subject, error)
		// All returns every row in the table.
		All(ctx context.Context, table string) ([]Subject, error)
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

// SaveSemesterResults merges an uploaded result set into the routed
// tenant+department+semester table, creating it on first upload. Write
// failures propagate: silently dropping an upload is worse than failing it
// visibly.
func (svc *Service) SaveSemesterResults(ctx context.Context, tenant string, dept catalog.Dept, sem catalog.Semester, subjects []Subject) error {
	table := catalog.Results(tenant, dept, sem)
	name, err := table.Name()
	if err != nil {
		return err
	}
	if err := svc.store.EnsureTable(ctx, table); err != nil {
		return errors.Wrapf(err, "ensuring results table %s", name)
	}
	for _, sub := range subjects {
		if err := svc.repo.UpsertBest(ctx, name, sub); err != nil {
			return errors.Wrapf(err, "merging record (%s, %s) into %s", sub.Htno, sub.Subcode, name)
		}
	}
	return nil
}

// StudentSubjects returns one student's records for a department semester.
// An absent table, a student with no rows or a backend error all yield an
// empty slice: "no results yet" is a normal, common state and the caller
// must always render something.
func (svc *Service) StudentSubjects(ctx context.Context, tenant string, dept catalog.Dept, sem catalog.Semester, htno string) []Subject {
	name, ok := svc.existingTable(ctx, catalog.Results(tenant, dept, sem))
	if !ok {
		return nil
	}
	subjects, err := svc.repo.ByStudent(ctx, name, htno)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("fetching records for %s from %s: %v", htno, name, err))
		return nil
	}
	return subjects
}

// SemesterSubjects returns every record of a department semester, or an
// empty slice when the table does not exist yet or cannot be read.
func (svc *Service) SemesterSubjects(ctx context.Context, tenant string, dept catalog.Dept, sem catalog.Semester) []Subject {
	name, ok := svc.existingTable(ctx, catalog.Results(tenant, dept, sem))
	if !ok {
		return nil
	}
	subjects, err := svc.repo.All(ctx, name)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("fetching records from %s: %v", name, err))
		return nil
	}
	return subjects
}

// AvailableSemesters reports which semester slots of a department hold rows
// for the student.
func (svc *Service) AvailableSemesters(ctx context.Context, tenant string, dept catalog.Dept, htno string) []catalog.Semester {
	var available []catalog.Semester
	for _, sem := range catalog.Semesters {
		name, ok := svc.existingTable(ctx, catalog.Results(tenant, dept, sem))
		if !ok {
			continue
		}
		found, err := svc.store.HasStudent(ctx, name, htno)
		if err != nil || !found {
			continue
		}
		available = append(available, sem)
	}
	return available
}

// existingTable routes a table and checks its presence. Result tables are
// created lazily on first upload, so a missing table reads as "no rows",
// never as a backend error.
func (svc *Service) existingTable(ctx context.Context, table catalog.Table) (string, bool) {
	name, err := table.Name()
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("routing table: %v", err))
		return "", false
	}
	exists, err := svc.store.TableExists(ctx, table)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("checking table %s: %v", name, err))
		return "", false
	}
	return name, exists
}
