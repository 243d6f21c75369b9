package result

// Subject is one student's record for one subject within one semester's
// results table: at most one row per (htno, subcode) per table.
type Subject struct {
	Sno       int     `db:"sno" json:"sno"`
	Htno      string  `db:"htno" json:"htno"`
	Subcode   string  `db:"subcode" json:"subcode"`
	Subname   string  `db:"subname" json:"subname"`
	Internals int     `db:"internals" json:"internals"`
	Grade     string  `db:"grade" json:"grade"`
	Credit    float64 `db:"credit" json:"credit"`
}
