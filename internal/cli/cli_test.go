package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const majorsFixture = `[
  {"id": "CS101", "title": "Programming", "credits": "3", "major": "컴퓨터공학과", "schedule": "월1~2(A101)<p>수3(A101)", "grade": 1},
  {"id": "CS201", "title": "Data Structures", "credits": "3(1)", "major": "컴퓨터공학과", "schedule": "화4~6(B201)", "grade": 2},
  {"id": "CS999", "title": "Capstone", "credits": "3", "major": "컴퓨터공학과", "schedule": "일1~2", "grade": 4}
]`

const liberalFixture = `
- id: GE300
  title: Writing
  credits: "1"
  major: 교양<p>글쓰기
  schedule: 금9(C3)<p>TBA
  grade: 3
`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	t.Chdir(dir)
	majors := filepath.Join(dir, "majors.json")
	liberal := filepath.Join(dir, "liberal.yaml")
	require.NoError(t, os.WriteFile(majors, []byte(majorsFixture), 0o600))
	require.NoError(t, os.WriteFile(liberal, []byte(liberalFixture), 0o600))

	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--backend", "file", "--majors", majors, "--liberal-arts", liberal))
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := runCommand(t, "parse", "월1~2(A101)<p>TBA")
	require.NoError(t, err)
	assert.Contains(t, out, "1~2")
	assert.Contains(t, out, "A101")
	assert.Contains(t, out, "malformed")

	_, err = runCommand(t, "parse", "--strict", "TBA")
	assert.ErrorIs(t, err, errMalformed)

	_, err = runCommand(t, "parse", "--strict", "화7~8()")
	assert.NoError(t, err)
}

func TestLintCommand(t *testing.T) {
	out, err := runCommand(t, "lint")
	require.ErrorIs(t, err, errMalformed)
	assert.Contains(t, out, "GE300")
	assert.Contains(t, out, "CS999")
	assert.NotContains(t, out, "CS101")
	assert.Contains(t, out, "4 lectures, 1 malformed, 1 off-grid")
}

func TestSearchCommand(t *testing.T) {
	out, err := runCommand(t, "search", "--day", "화")
	require.NoError(t, err)
	assert.Contains(t, out, "CS201")
	assert.NotContains(t, out, "CS101")
	assert.Contains(t, out, "page 1/1, 1 matching lectures")

	out, err = runCommand(t, "search", "--page-size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "CS201")
	assert.NotContains(t, out, "GE300")
	assert.Contains(t, out, "page 1/2, 4 matching lectures")

	out, err = runCommand(t, "search", "--page-size", "2", "--pages", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "교양 글쓰기")
	assert.Contains(t, out, "page 2/2")
}

func TestLintCatalogCounts(t *testing.T) {
	layout := models.GridLayout{Days: []string{"월", "화"}, Periods: 10}
	lectures := []*models.Lecture{
		{ID: "a", Schedule: "월1~2"},
		{ID: "b", Schedule: "화9~12"},
		{ID: "c", Schedule: "x"},
	}
	var reported []string
	report := lintCatalog(lectures, layout, func(l *models.Lecture, _ string) {
		reported = append(reported, l.ID)
	}, true)

	assert.Equal(t, lintReport{Lectures: 3, Malformed: 1, OffGrid: 1}, report)
	assert.Equal(t, []string{"a", "b", "c"}, reported)
}
