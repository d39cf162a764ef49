package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

const (
	dayPeriods        = 18
	dayStartMinute    = 9 * 60
	dayPeriodMinutes  = 30
	eveningStart      = 18 * 60
	eveningStep       = 55
	eveningLength     = 50
	periodColumnTitle = "교시"
)

// PeriodLabels returns the row label of each period, "01 (09:00~09:30)".
func PeriodLabels(periods int) []string {
	times := PeriodTimes(periods)
	labels := make([]string, len(times))
	for i, span := range times {
		labels[i] = fmt.Sprintf("%02d (%s)", i+1, span)
	}
	return labels
}

// PeriodTimes returns the clock range of each period: eighteen 30 minute
// periods from 09:00, then 50 minute evening periods every 55 minutes from 18:00.
func PeriodTimes(periods int) []string {
	labels := make([]string, 0, max(periods, 0))
	for i := 0; i < periods; i++ {
		var start, length int
		if i < dayPeriods {
			start, length = dayStartMinute+i*dayPeriodMinutes, dayPeriodMinutes
		} else {
			start, length = eveningStart+(i-dayPeriods)*eveningStep, eveningLength
		}
		labels = append(labels, clock(start)+"~"+clock(start+length))
	}
	return labels
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

// ExportResult is a rendered timetable ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders timetables as CSV or PDF grids.
type ExportService struct {
	layout models.GridLayout
	csv    datasetRenderer
	pdf    datasetRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// pkg/export implementations.
func NewExportService(layout models.GridLayout, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{layout: layout, csv: csv, pdf: pdf, logger: logger}
}

// Export renders table in the requested format.
func (s *ExportService) Export(table *models.Timetable, format string) (*ExportResult, error) {
	if table == nil {
		return nil, appErrors.Clone(appErrors.ErrTableNotFound, "")
	}
	dataset := s.Dataset(table)

	var (
		body        []byte
		contentType string
		err         error
	)
	switch strings.ToLower(format) {
	case "", ExportFormatCSV:
		format = ExportFormatCSV
		contentType = "text/csv; charset=utf-8"
		body, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		format = ExportFormatPDF
		contentType = "application/pdf"
		body, err = s.pdf.Render(dataset)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format "+format)
	}
	if err != nil {
		s.logger.Error("render timetable", zap.String("table_id", table.ID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	return &ExportResult{
		Filename:    table.ID + "." + format,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// Dataset lays a timetable out as one row per period and one column per day.
// A cell lists every entry covering it, "title (room)", joined by " / ".
func (s *ExportService) Dataset(table *models.Timetable) export.Dataset {
	headers := append([]string{periodColumnTitle}, s.layout.Days...)
	labels := PeriodLabels(s.layout.Periods)

	cells := make(map[string][]string)
	for _, entry := range table.Entries {
		if !s.layout.HasDay(entry.Day) {
			continue
		}
		for _, period := range entry.Range {
			key := cellKey(entry.Day, period)
			cells[key] = append(cells[key], entryLabel(entry))
		}
	}

	rows := make([]map[string]string, 0, s.layout.Periods)
	for i, label := range labels {
		period := i + 1
		row := map[string]string{periodColumnTitle: label}
		for _, day := range s.layout.Days {
			row[day] = strings.Join(cells[cellKey(day, period)], " / ")
		}
		rows = append(rows, row)
	}

	return export.Dataset{Title: table.ID, Headers: headers, Rows: rows}
}

func cellKey(day string, period int) string {
	return fmt.Sprintf("%s:%d", day, period)
}

func entryLabel(entry *models.ScheduleEntry) string {
	title := ""
	if entry.Lecture != nil {
		title = entry.Lecture.Title
	}
	if entry.Room != "" {
		return title + " (" + entry.Room + ")"
	}
	return title
}
