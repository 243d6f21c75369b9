package sqlxrepos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core/catalog"
)

// Fixed column schemas per table kind. Tables are created lazily, on first
// write; creation is idempotent at the backend level so concurrent first
// uploads do not need application-level locking.
var schemas = map[catalog.Kind]string{
	catalog.KindStudents: `(
		id SERIAL PRIMARY KEY,
		fname VARCHAR(100),
		lname VARCHAR(100),
		htno VARCHAR(100) UNIQUE,
		email VARCHAR(150),
		password VARCHAR(100),
		reset_token VARCHAR(255))`,
	catalog.KindTeachers: `(
		id SERIAL PRIMARY KEY,
		firstname VARCHAR(100),
		lastname VARCHAR(100),
		email VARCHAR(150) UNIQUE,
		department VARCHAR(100),
		password VARCHAR(100),
		role VARCHAR(20),
		reset_token VARCHAR(255))`,
	catalog.KindResults: `(
		sno INT,
		htno VARCHAR(255),
		subcode VARCHAR(255),
		subname VARCHAR(255),
		internals INT,
		grade VARCHAR(10),
		credit REAL)`,
	catalog.KindGrades: `(
		htno VARCHAR(20) PRIMARY KEY,
		sem_1_1 DECIMAL(4,2), sem_1_2 DECIMAL(4,2),
		sem_2_1 DECIMAL(4,2), sem_2_2 DECIMAL(4,2),
		sem_3_1 DECIMAL(4,2), sem_3_2 DECIMAL(4,2),
		sem_4_1 DECIMAL(4,2), sem_4_2 DECIMAL(4,2),
		cgpa DECIMAL(4,2))`,
}

type tableCatalog struct {
	db *sqlx.DB
}

var _ catalog.Store = (*tableCatalog)(nil) // interface compliance check

func NewTableCatalog(db *sqlx.DB) *tableCatalog {
	return &tableCatalog{db: db}
}

func (cat tableCatalog) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	err := cat.db.SelectContext(ctx, &names,
		`SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = 'public' ORDER BY tablename`)
	if err != nil {
		return nil, errors.Wrap(err, "listing tables")
	}
	return names, nil
}

func (cat tableCatalog) TablesLike(ctx context.Context, pattern string) ([]string, error) {
	var names []string
	err := cat.db.SelectContext(ctx, &names,
		`SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = 'public' AND tablename LIKE $1 ORDER BY tablename`,
		pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "listing tables like %q", pattern)
	}
	return names, nil
}

func (cat tableCatalog) TableExists(ctx context.Context, table catalog.Table) (bool, error) {
	name, err := table.Name()
	if err != nil {
		return false, err
	}
	var exists bool
	err = cat.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_tables WHERE schemaname = 'public' AND tablename = $1)`,
		name)
	if err != nil {
		return false, errors.Wrapf(err, "checking table %s", name)
	}
	return exists, nil
}

func (cat tableCatalog) EnsureTable(ctx context.Context, table catalog.Table) error {
	name, err := table.Name()
	if err != nil {
		return err
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", quoteIdent(name), schemas[table.Kind])
	if _, err = cat.db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrapf(err, "creating table %s", name)
	}
	return nil
}

func (cat tableCatalog) HasStudent(ctx context.Context, tableName, htno string) (bool, error) {
	var count int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE htno = $1", quoteIdent(tableName))
	if err := cat.db.GetContext(ctx, &count, q, htno); err != nil {
		return false, errors.Wrapf(err, "counting rows for %s in %s", htno, tableName)
	}
	return count > 0, nil
}

// quoteIdent wraps a sanitized identifier in the backend's quoting
// convention. Every name passed here must have gone through
// catalog.Sanitize already.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
