package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core/catalog"
	"github.com/trezcool/matokeo/core/grade"
)

const gradesColumns = "htno, sem_1_1, sem_1_2, sem_2_1, sem_2_2, sem_3_1, sem_3_2, sem_4_1, sem_4_2, cgpa"

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo gradeRepository) UpsertSemester(ctx context.Context, table, htno, column string, sgpa float64) error {
	col, err := catalog.Sanitize(column)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (htno, %s) VALUES ($1, $2) ON CONFLICT (htno) DO UPDATE SET %s = EXCLUDED.%s",
		quoteIdent(table), col, col, col)
	if _, err = repo.db.ExecContext(ctx, q, htno, sgpa); err != nil {
		return errors.Wrapf(err, "upserting %s for %s in %s", col, htno, table)
	}
	return nil
}

func (repo gradeRepository) SemesterAverages(ctx context.Context, table, htno string) ([]float64, error) {
	grades, err := repo.GetStudentGrades(ctx, table, htno)
	if err != nil {
		return nil, err
	}
	return grades.SemesterAverages(), nil
}

func (repo gradeRepository) SetCGPA(ctx context.Context, table, htno string, cgpa float64) error {
	q := fmt.Sprintf("UPDATE %s SET cgpa = $1 WHERE htno = $2", quoteIdent(table))
	if _, err := repo.db.ExecContext(ctx, q, cgpa, htno); err != nil {
		return errors.Wrapf(err, "updating cgpa for %s in %s", htno, table)
	}
	return nil
}

func (repo gradeRepository) GetStudentGrades(ctx context.Context, table, htno string) (grade.StudentGrades, error) {
	var grades grade.StudentGrades
	q := fmt.Sprintf("SELECT %s FROM %s WHERE htno = $1", gradesColumns, quoteIdent(table))
	err := repo.db.GetContext(ctx, &grades, q, htno)
	if err == sql.ErrNoRows {
		return grade.StudentGrades{}, grade.ErrNotFound
	}
	if err != nil {
		return grade.StudentGrades{}, errors.Wrapf(err, "querying grades for %s in %s", htno, table)
	}
	return grades, nil
}
