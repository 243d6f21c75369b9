package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core/student"
)

const studentColumns = "id, fname, lname, htno, email, password, reset_token"

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) Create(ctx context.Context, table string, s student.Student) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (fname, lname, htno, email, password) VALUES ($1, $2, $3, $4, $5)",
		quoteIdent(table))
	if _, err := repo.db.ExecContext(ctx, q, s.Fname, s.Lname, s.Htno, s.Email, s.PasswordHash); err != nil {
		return errors.Wrapf(err, "inserting student into %s", table)
	}
	return nil
}

func (repo studentRepository) GetByHtno(ctx context.Context, table, htno string) (student.Student, error) {
	var stu student.Student
	q := fmt.Sprintf("SELECT %s FROM %s WHERE htno = $1", studentColumns, quoteIdent(table))
	err := repo.db.GetContext(ctx, &stu, q, htno)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrapf(err, "finding student %s in %s", htno, table)
	}
	return stu, nil
}

func (repo studentRepository) SetResetToken(ctx context.Context, table, htno, email, token string) (int, error) {
	q := fmt.Sprintf(
		"UPDATE %s SET reset_token = $1 WHERE LOWER(htno) = LOWER($2) AND LOWER(email) = LOWER($3)",
		quoteIdent(table))
	res, err := repo.db.ExecContext(ctx, q, token, htno, email)
	if err != nil {
		return 0, errors.Wrapf(err, "storing reset token in %s", table)
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}
	return int(cnt), nil
}

func (repo studentRepository) SetPassword(ctx context.Context, table, htno, passwordHash string) (int, error) {
	q := fmt.Sprintf("UPDATE %s SET password = $1 WHERE htno = $2", quoteIdent(table))
	res, err := repo.db.ExecContext(ctx, q, passwordHash, htno)
	if err != nil {
		return 0, errors.Wrapf(err, "setting password in %s", table)
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}
	return int(cnt), nil
}

func (repo studentRepository) ResetPasswordByToken(ctx context.Context, table, token, passwordHash string) (int, error) {
	q := fmt.Sprintf(
		"UPDATE %s SET password = $1, reset_token = NULL WHERE reset_token = $2",
		quoteIdent(table))
	res, err := repo.db.ExecContext(ctx, q, passwordHash, token)
	if err != nil {
		return 0, errors.Wrapf(err, "resetting password in %s", table)
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}
	return int(cnt), nil
}
