package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) {
	return nil, errors.New("disk full")
}

func sampleTable() *models.Timetable {
	algo := &models.Lecture{ID: "CS101", Title: "Algorithms"}
	db := &models.Lecture{ID: "CS102", Title: "Databases"}
	return &models.Timetable{ID: "schedule-1", Entries: []*models.ScheduleEntry{
		{Lecture: algo, Day: "월", Range: []int{1, 2}, Room: "A101"},
		{Lecture: db, Day: "월", Range: []int{2}},
		{Lecture: db, Day: "일", Range: []int{1}},
	}}
}

func TestPeriodTimes(t *testing.T) {
	labels := PeriodTimes(24)
	require.Len(t, labels, 24)
	assert.Equal(t, "09:00~09:30", labels[0])
	assert.Equal(t, "17:30~18:00", labels[17])
	assert.Equal(t, "18:00~18:50", labels[18])
	assert.Equal(t, "18:55~19:45", labels[19])
	assert.Equal(t, "22:35~23:25", labels[23])
	assert.Empty(t, PeriodTimes(0))
}

func TestPeriodLabels(t *testing.T) {
	labels := PeriodLabels(24)
	require.Len(t, labels, 24)
	assert.Equal(t, "01 (09:00~09:30)", labels[0])
	assert.Equal(t, "19 (18:00~18:50)", labels[18])
	assert.Equal(t, "24 (22:35~23:25)", labels[23])
	assert.Empty(t, PeriodLabels(-1))
}

func TestExportServiceDataset(t *testing.T) {
	svc := NewExportService(testLayout(), nil, nil, nil)

	data := svc.Dataset(sampleTable())

	assert.Equal(t, "schedule-1", data.Title)
	assert.Equal(t, []string{"교시", "월", "화", "수", "목", "금", "토"}, data.Headers)
	require.Len(t, data.Rows, 24)
	assert.Equal(t, "01 (09:00~09:30)", data.Rows[0]["교시"])
	assert.Equal(t, "Algorithms (A101)", data.Rows[0]["월"])
	assert.Equal(t, "Algorithms (A101) / Databases", data.Rows[1]["월"])
	assert.Empty(t, data.Rows[2]["월"])
	assert.Empty(t, data.Rows[0]["화"])
}

func TestExportServiceFormats(t *testing.T) {
	svc := NewExportService(testLayout(), nil, nil, nil)

	csvResult, err := svc.Export(sampleTable(), "")
	require.NoError(t, err)
	assert.Equal(t, "schedule-1.csv", csvResult.Filename)
	assert.Contains(t, string(csvResult.Body), "Algorithms (A101) / Databases")

	pdfResult, err := svc.Export(sampleTable(), "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdfResult.ContentType)
	assert.True(t, bytes.HasPrefix(pdfResult.Body, []byte("%PDF")))

	_, err = svc.Export(sampleTable(), "xlsx")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceRenderFailure(t *testing.T) {
	svc := NewExportService(testLayout(), nil, failingRenderer{}, nil)

	_, err := svc.Export(sampleTable(), "csv")

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}
