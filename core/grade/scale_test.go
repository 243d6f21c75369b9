package grade

import "testing"

func TestPoints(t *testing.T) {
	tests := []struct {
		name   string
		grade  string
		want   float64
		wantOk bool
	}{
		{name: "A+", grade: "A+", want: 10, wantOk: true},
		{name: "A", grade: "A", want: 9, wantOk: true},
		{name: "B", grade: "B", want: 8, wantOk: true},
		{name: "C", grade: "C", want: 7, wantOk: true},
		{name: "D", grade: "D", want: 6, wantOk: true},
		{name: "E", grade: "E", want: 5, wantOk: true},
		{name: "F", grade: "F", want: 0, wantOk: true},
		{name: "lowercase", grade: "a+", want: 10, wantOk: true},
		{name: "whitespace", grade: " B ", want: 8, wantOk: true},
		{name: "malpractice marker", grade: "MP"},
		{name: "absent marker", grade: "AB"},
		{name: "legacy string", grade: "COMPLE"},
		{name: "empty", grade: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Points(tt.grade)
			if ok != tt.wantOk {
				t.Fatalf("Points() ok = %v, wantOk %v", ok, tt.wantOk)
			}
			if got != tt.want {
				t.Errorf("Points() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBeats(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "higher beats lower", a: "B", b: "C", want: true},
		{name: "lower does not beat higher", a: "D", b: "B"},
		{name: "equal does not beat", a: "B", b: "B"},
		{name: "F does not beat A", a: "F", b: "A"},
		{name: "countable beats uncountable", a: "F", b: "AB", want: true},
		{name: "uncountable never beats countable", a: "AB", b: "F"},
		{name: "uncountable never beats uncountable", a: "MP", b: "AB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Beats(tt.a, tt.b); got != tt.want {
				t.Errorf("Beats(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
