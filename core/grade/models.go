package grade

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/matokeo/core/catalog"
)

// StudentGrades is one student's aggregate row in a tenant+department
// grades table: one nullable average per semester slot plus the cumulative
// average. A column is null until that semester has been computed at least
// once.
type StudentGrades struct {
	Htno   string       `db:"htno" json:"htno"`
	Sem1_1 null.Float64 `db:"sem_1_1" json:"sem_1_1"`
	Sem1_2 null.Float64 `db:"sem_1_2" json:"sem_1_2"`
	Sem2_1 null.Float64 `db:"sem_2_1" json:"sem_2_1"`
	Sem2_2 null.Float64 `db:"sem_2_2" json:"sem_2_2"`
	Sem3_1 null.Float64 `db:"sem_3_1" json:"sem_3_1"`
	Sem3_2 null.Float64 `db:"sem_3_2" json:"sem_3_2"`
	Sem4_1 null.Float64 `db:"sem_4_1" json:"sem_4_1"`
	Sem4_2 null.Float64 `db:"sem_4_2" json:"sem_4_2"`
	CGPA   null.Float64 `db:"cgpa" json:"cgpa"`
}

func (g StudentGrades) semesters() []null.Float64 {
	return []null.Float64{
		g.Sem1_1, g.Sem1_2, g.Sem2_1, g.Sem2_2, g.Sem3_1, g.Sem3_2, g.Sem4_1, g.Sem4_2,
	}
}

// Semester returns the stored average for a slot.
func (g StudentGrades) Semester(sem catalog.Semester) null.Float64 {
	return g.semesters()[(sem.Year-1)*2+(sem.Half-1)]
}

// SemesterAverages returns the non-null semester averages in slot order.
func (g StudentGrades) SemesterAverages() []float64 {
	var vals []float64
	for _, v := range g.semesters() {
		if v.Valid {
			vals = append(vals, v.Float64)
		}
	}
	return vals
}
