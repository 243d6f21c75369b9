package result

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
)

// ParseCSV reads an uploaded result sheet: one header row followed by
// (sno, htno, subcode, subname, internals, grade, credit) rows. Rows with
// sno 0 are padding at the sheet's tail and are dropped.
func ParseCSV(r io.Reader) ([]Subject, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 7

	var subjects []Subject
	for line := 0; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading result sheet")
		}
		if line == 0 { // header
			continue
		}

		sno, err := strconv.Atoi(core.CleanString(record[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: sno", line)
		}
		if sno == 0 {
			continue
		}
		internals, err := strconv.Atoi(core.CleanString(record[4]))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: internals", line)
		}
		credit, err := strconv.ParseFloat(core.CleanString(record[6]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: credit", line)
		}

		subjects = append(subjects, Subject{
			Sno:       sno,
			Htno:      core.CleanString(record[1]),
			Subcode:   core.CleanString(record[2]),
			Subname:   core.CleanString(record[3]),
			Internals: internals,
			Grade:     core.CleanString(record[5]),
			Credit:    credit,
		})
	}
	return subjects, nil
}
