package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core/grade"
	"github.com/trezcool/matokeo/core/result"
)

const subjectColumns = "sno, htno, subcode, subname, internals, grade, credit"

type resultRepository struct {
	db *sqlx.DB
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *sqlx.DB) *resultRepository {
	return &resultRepository{db: db}
}

// UpsertBest realizes the regular+supplementary merge policy: the stored
// row is replaced only when the incoming grade converts to a strictly
// higher point value. The check-then-write is not atomic; concurrent
// re-uploads of the same subject are a documented, tolerated race.
func (repo resultRepository) UpsertBest(ctx context.Context, table string, sub result.Subject) error {
	var stored string
	q := fmt.Sprintf("SELECT grade FROM %s WHERE htno = $1 AND subcode = $2", quoteIdent(table))
	err := repo.db.GetContext(ctx, &stored, q, sub.Htno, sub.Subcode)
	if err == sql.ErrNoRows {
		ins := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			quoteIdent(table), subjectColumns)
		if _, err = repo.db.ExecContext(ctx, ins,
			sub.Sno, sub.Htno, sub.Subcode, sub.Subname, sub.Internals, sub.Grade, sub.Credit); err != nil {
			return errors.Wrapf(err, "inserting record into %s", table)
		}
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "checking stored grade in %s", table)
	}

	if !grade.Beats(sub.Grade, stored) {
		return nil
	}
	upd := fmt.Sprintf(
		"UPDATE %s SET subname = $1, internals = $2, grade = $3, credit = $4 WHERE htno = $5 AND subcode = $6",
		quoteIdent(table))
	if _, err = repo.db.ExecContext(ctx, upd,
		sub.Subname, sub.Internals, sub.Grade, sub.Credit, sub.Htno, sub.Subcode); err != nil {
		return errors.Wrapf(err, "updating record in %s", table)
	}
	return nil
}

func (repo resultRepository) ByStudent(ctx context.Context, table, htno string) ([]result.Subject, error) {
	var subjects []result.Subject
	q := fmt.Sprintf("SELECT %s FROM %s WHERE htno = $1 ORDER BY sno", subjectColumns, quoteIdent(table))
	if err := repo.db.SelectContext(ctx, &subjects, q, htno); err != nil {
		return nil, errors.Wrapf(err, "querying records for %s in %s", htno, table)
	}
	return subjects, nil
}

func (repo resultRepository) All(ctx context.Context, table string) ([]result.Subject, error) {
	var subjects []result.Subject
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY sno", subjectColumns, quoteIdent(table))
	if err := repo.db.SelectContext(ctx, &subjects, q); err != nil {
		return nil, errors.Wrapf(err, "querying records in %s", table)
	}
	return subjects, nil
}
