package importer

import (
	"fmt"
	"regexp"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
)

// Column positions in an exported class log row. Column 0 (the export's own
// row ID) and anything after column 5 are ignored.
const (
	colContent       = 1
	colCourseTeacher = 2
	colCourseType    = 3
	colStartDate     = 4
	colEndDate       = 5

	minColumns = 6
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SplitCourseTeacher splits "<course> <teacher...>" on the first run of
// whitespace. Without whitespace the whole field is the course.
func SplitCourseTeacher(field string) (course, teacher string) {
	parts := whitespaceRun.Split(field, 2)
	course = parts[0]
	if len(parts) > 1 {
		teacher = parts[1]
	}
	return course, teacher
}

// MapRow converts one CSV data row into a ClassLog for studentClass.
func (im *Importer) MapRow(row []string, studentClass string) (*model.ClassLog, error) {
	if len(row) < minColumns {
		return nil, fmt.Errorf("%w: expected at least %d columns, got %d", ErrMapping, minColumns, len(row))
	}

	course, teacher := SplitCourseTeacher(row[colCourseTeacher])

	return &model.ClassLog{
		ID:           im.ids.Generate(studentClass),
		StudentClass: studentClass,
		Teacher:      teacher,
		Course:       course,
		CourseType:   row[colCourseType],
		Content:      row[colContent],
		StartDate:    row[colStartDate],
		EndDate:      row[colEndDate],
		UpdateDate:   im.now(),
	}, nil
}
