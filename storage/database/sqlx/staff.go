package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core/catalog"
	"github.com/trezcool/matokeo/core/staff"
)

const teacherColumns = "id, firstname, lastname, email, department, password, role, reset_token"

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *sqlx.DB) *staffRepository {
	return &staffRepository{db: db}
}

func (repo staffRepository) Create(ctx context.Context, table string, t staff.Teacher) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (firstname, lastname, email, department, password, role) VALUES ($1, $2, $3, $4, $5, $6)",
		quoteIdent(table))
	if _, err := repo.db.ExecContext(ctx, q,
		t.Firstname, t.Lastname, t.Email, t.Department, t.PasswordHash, t.Role); err != nil {
		return errors.Wrapf(err, "inserting teacher into %s", table)
	}
	return nil
}

func (repo staffRepository) GetByEmail(ctx context.Context, table, email string) (staff.Teacher, error) {
	var tch staff.Teacher
	q := fmt.Sprintf("SELECT %s FROM %s WHERE email = $1", teacherColumns, quoteIdent(table))
	err := repo.db.GetContext(ctx, &tch, q, email)
	if err == sql.ErrNoRows {
		return staff.Teacher{}, staff.ErrNotFound
	}
	if err != nil {
		return staff.Teacher{}, errors.Wrapf(err, "finding teacher %s in %s", email, table)
	}
	return tch, nil
}

func (repo staffRepository) HODEmail(ctx context.Context, table string, dept catalog.Dept) (string, error) {
	var email string
	q := fmt.Sprintf("SELECT email FROM %s WHERE role = $1 AND department = $2 LIMIT 1", quoteIdent(table))
	err := repo.db.GetContext(ctx, &email, q, staff.RoleHOD, dept)
	if err == sql.ErrNoRows {
		return "", staff.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "finding HOD for %s in %s", dept, table)
	}
	return email, nil
}
