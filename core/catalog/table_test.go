package catalog

import (
	"testing"

	"github.com/pkg/errors"
)

func TestTable_Name(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		want    string
		wantErr error
	}{
		{name: "students roster", table: Students("jntuh"), want: "jntuh_students"},
		{name: "teachers roster", table: Teachers("jntuh"), want: "jntuh_teachers"},
		{name: "results table", table: Results("jntuh", DeptCSE, Semester{3, 2}), want: "jntuh_results_cse_3_2"},
		{name: "grades table", table: Grades("cvr", DeptECE), want: "cvr_grades_ece"},
		{name: "tenant lowercased", table: Students("JNTUH"), want: "jntuh_students"},
		{name: "tenant sanitized", table: Students("jn`tu\"h"), want: "jntuh_students"},
		{name: "injection attempt", table: Students("abc`;drop table--"), want: "abcdroptable_students"},
		{name: "empty tenant", table: Students(""), wantErr: ErrInvalidIdentifier},
		{name: "unsanitizable tenant", table: Results(";--", DeptCSE, Semester{1, 1}), wantErr: ErrInvalidIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.table.Name()
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("Table.Name() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Table.Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultsPattern(t *testing.T) {
	got, err := ResultsPattern("JNTUH")
	if err != nil {
		t.Fatalf("ResultsPattern() error = %v", err)
	}
	if want := "jntuh_results_%"; got != want {
		t.Errorf("ResultsPattern() = %q, want %q", got, want)
	}

	if _, err := ResultsPattern(""); errors.Cause(err) != ErrInvalidIdentifier {
		t.Errorf("ResultsPattern() error = %v, want %v", err, ErrInvalidIdentifier)
	}
}
