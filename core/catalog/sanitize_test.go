package catalog

import (
	"testing"

	"github.com/pkg/errors"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain name", in: "jntuh_students", want: "jntuh_students"},
		{name: "digits kept", in: "cvr_results_cse_3_2", want: "cvr_results_cse_3_2"},
		{name: "backticks stripped", in: "jntuh`_students", want: "jntuh_students"},
		{name: "double quotes stripped", in: `jn"tuh_students`, want: "jntuh_students"},
		{name: "injection attempt", in: "abc`;drop table--", want: "abcdroptable"},
		{name: "spaces stripped", in: "jntuh students", want: "jntuhstudents"},
		{name: "empty input", in: "", wantErr: ErrInvalidIdentifier},
		{name: "nothing survives", in: "`;--!!", wantErr: ErrInvalidIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.in)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("Sanitize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}
