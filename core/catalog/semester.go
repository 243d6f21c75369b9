package catalog

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidSemester = errors.New("invalid semester")

// Semester is one of the eight year/half slots of a course (1-1 .. 4-2).
// The external representation is hyphenated ("3-2"); table and column names
// use the underscored form ("3_2"). The conversion happens here and nowhere
// else.
type Semester struct {
	Year int
	Half int
}

// Semesters lists all slots in order.
var Semesters = []Semester{
	{1, 1}, {1, 2},
	{2, 1}, {2, 2},
	{3, 1}, {3, 2},
	{4, 1}, {4, 2},
}

// ParseSemester parses the external hyphenated form, e.g. "3-2".
func ParseSemester(s string) (Semester, error) {
	var sem Semester
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d-%d", &sem.Year, &sem.Half); err != nil {
		return Semester{}, errors.Wrapf(ErrInvalidSemester, "%q", s)
	}
	if sem.Year < 1 || sem.Year > 4 || sem.Half < 1 || sem.Half > 2 {
		return Semester{}, errors.Wrapf(ErrInvalidSemester, "%q", s)
	}
	return sem, nil
}

func (s Semester) String() string { return fmt.Sprintf("%d-%d", s.Year, s.Half) }

// Suffix is the table-name form, e.g. "3_2".
func (s Semester) Suffix() string { return fmt.Sprintf("%d_%d", s.Year, s.Half) }

// Column is the aggregate-table column holding this semester's average.
func (s Semester) Column() string { return "sem_" + s.Suffix() }

func (s Semester) IsZero() bool { return s.Year == 0 && s.Half == 0 }
