package tenant

import (
	"context"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/catalog"
)

// fakeStore serves canned table listings and student membership.
type fakeStore struct {
	tables   []string
	students map[string][]string // table name -> htnos
	listErr  error
}

func (s *fakeStore) ListTables(context.Context) ([]string, error) {
	return s.tables, s.listErr
}

func (s *fakeStore) TablesLike(_ context.Context, pattern string) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	prefix := pattern[:len(pattern)-1] // trailing %
	var matches []string
	for _, table := range s.tables {
		if len(table) >= len(prefix) && table[:len(prefix)] == prefix {
			matches = append(matches, table)
		}
	}
	return matches, nil
}

func (s *fakeStore) TableExists(_ context.Context, table catalog.Table) (bool, error) {
	name, err := table.Name()
	if err != nil {
		return false, err
	}
	for _, t := range s.tables {
		if t == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) EnsureTable(_ context.Context, table catalog.Table) error {
	name, err := table.Name()
	if err != nil {
		return err
	}
	s.tables = append(s.tables, name)
	return nil
}

func (s *fakeStore) HasStudent(_ context.Context, tableName, htno string) (bool, error) {
	for _, h := range s.students[tableName] {
		if h == htno {
			return true, nil
		}
	}
	return false, nil
}

func TestDirectory_Tenants(t *testing.T) {
	tests := []struct {
		name  string
		store *fakeStore
		want  []string
	}{
		{
			name: "prefixes deduplicated in order",
			store: &fakeStore{tables: []string{
				"cvr_students", "cvr_results_cse_1_1", "vnr_students", "cvr_teachers",
			}},
			want: []string{"cvr", "vnr"},
		},
		{
			name: "reserved prefixes skipped",
			store: &fakeStore{tables: []string{
				"pg_catalog", "sql_features", "information_schema", "cvr_students",
			}},
			want: []string{"cvr"},
		},
		{
			name:  "tables without underscores skipped",
			store: &fakeStore{tables: []string{"flyway", "_hidden", "cvr_students"}},
			want:  []string{"cvr"},
		},
		{
			name:  "fresh backend degrades to fallback",
			store: &fakeStore{},
			want:  []string{Fallback},
		},
		{
			name:  "backend error degrades to fallback",
			store: &fakeStore{listErr: errors.New("connection refused")},
			want:  []string{Fallback},
		},
		{
			name:  "only reserved tables degrades to fallback",
			store: &fakeStore{tables: []string{"pg_catalog", "sys_config"}},
			want:  []string{Fallback},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := NewDirectory(tt.store, core.NopLogger{})
			if got := dir.Tenants(context.Background()); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tenants() = %v, want %v", got, tt.want)
			}
		})
	}
}
