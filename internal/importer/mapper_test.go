package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCourseTeacher(t *testing.T) {
	tests := []struct {
		in      string
		course  string
		teacher string
	}{
		{"數學 陳老師", "數學", "陳老師"},
		{"Math  Mr Chan", "Math", "Mr Chan"},
		{"Math\tMr", "Math", "Mr"},
		{"Math", "Math", ""},
		{"Math ", "Math", ""},
		{"", "", ""},
		{" Math Mr", "", "Math Mr"},
	}

	for _, tt := range tests {
		course, teacher := SplitCourseTeacher(tt.in)
		assert.Equal(t, tt.course, course, "course of %q", tt.in)
		assert.Equal(t, tt.teacher, teacher, "teacher of %q", tt.in)
	}
}

func TestMapRow(t *testing.T) {
	im := newTestImporter(t.TempDir())

	rec, err := im.MapRow([]string{"9", "Title", "PE Mr Ho", "Lesson", "start", "end"}, "P6A")
	require.NoError(t, err)
	assert.Equal(t, "P6A", rec.StudentClass)
	assert.Equal(t, "Title", rec.Content)
	assert.Equal(t, "PE", rec.Course)
	assert.Equal(t, "Mr Ho", rec.Teacher)
	assert.Equal(t, "start", rec.StartDate)
	assert.Equal(t, "end", rec.EndDate)

	_, err = im.MapRow([]string{"1", "Title", "PE Mr Ho"}, "P6A")
	assert.ErrorIs(t, err, ErrMapping)
}
