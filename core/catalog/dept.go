package catalog

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownDept = errors.New("unknown department")

// Dept is a department code. The set is closed; resolution scans rely on it.
type Dept string

const (
	DeptCSE   Dept = "CSE"
	DeptCSD   Dept = "CSD"
	DeptCSM   Dept = "CSM"
	DeptECE   Dept = "ECE"
	DeptEEE   Dept = "EEE"
	DeptMECH  Dept = "MECH"
	DeptIT    Dept = "IT"
	DeptCIVIL Dept = "CIVIL"
	DeptCS    Dept = "CS"
)

// Departments lists all known department codes, in scan order.
var Departments = []Dept{
	DeptCSE, DeptCSD, DeptCSM, DeptECE, DeptEEE, DeptMECH, DeptIT, DeptCIVIL, DeptCS,
}

// DefaultDept is returned when department resolution finds no match.
const DefaultDept = DeptCSE

// ParseDept parses a department code, case-insensitively.
func ParseDept(s string) (Dept, error) {
	d := Dept(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Departments {
		if d == known {
			return known, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownDept, "%q", s)
}

// lower is the table-name form of the code.
func (d Dept) lower() string { return strings.ToLower(string(d)) }
