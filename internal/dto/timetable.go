package dto

import (
	"strconv"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// RemoveEntriesQuery addresses one grid cell of a table.
type RemoveEntriesQuery struct {
	Day    string `form:"day" validate:"required"`
	Period int    `form:"period" validate:"required,min=1"`
}

// GestureStartRequest reports that an entry started being dragged.
type GestureStartRequest struct {
	ID string `json:"id" validate:"required"`
}

// GestureEndRequest reports where a drag ended. Geometry is optional; when it
// is omitted the server derives it from the grid layout.
type GestureEndRequest struct {
	ID       string               `json:"id" validate:"required"`
	Delta    models.Delta         `json:"delta"`
	Geometry *models.GridGeometry `json:"geometry,omitempty"`
}

// OpenSearchRequest opens the search dialog for a table, optionally seeded
// with the cell that was clicked.
type OpenSearchRequest struct {
	TableID string `json:"tableId" validate:"required"`
	Day     string `json:"day"`
	Period  int    `json:"period" validate:"omitempty,min=1"`
}

// SearchOptionsRequest replaces the filters of the open search dialog.
type SearchOptionsRequest struct {
	Query   string   `json:"query" validate:"max=200"`
	Grades  []int    `json:"grades" validate:"omitempty,dive,min=0"`
	Days    []string `json:"days" validate:"omitempty,dive,required"`
	Periods []int    `json:"periods" validate:"omitempty,dive,min=1"`
	Majors  []string `json:"majors"`
	Credits int      `json:"credits" validate:"omitempty,min=0"`
}

// Option converts the request into search options.
func (r SearchOptionsRequest) Option() models.SearchOption {
	return models.SearchOption{
		Query:   r.Query,
		Grades:  r.Grades,
		Days:    r.Days,
		Periods: r.Periods,
		Majors:  r.Majors,
		Credits: r.Credits,
	}
}

// CommitLectureRequest adds a catalog lecture to the dialog's table.
type CommitLectureRequest struct {
	LectureID string `json:"lectureId" validate:"required"`
}

// EntryResponse is one placed lecture. DragID is the identifier gesture
// requests must carry for this entry.
type EntryResponse struct {
	Index     int    `json:"index"`
	DragID    string `json:"dragId"`
	LectureID string `json:"lectureId"`
	Title     string `json:"title"`
	Major     string `json:"major"`
	Credits   string `json:"credits"`
	Day       string `json:"day"`
	Range     []int  `json:"range"`
	Room      string `json:"room,omitempty"`
}

// TableResponse is one timetable with its entries.
type TableResponse struct {
	ID      string          `json:"id"`
	Entries []EntryResponse `json:"entries"`
}

// SessionResponse is returned when a session is created or reset.
type SessionResponse struct {
	ID        string          `json:"id"`
	Token     string          `json:"token,omitempty"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	Tables    []TableResponse `json:"tables"`
}

// GestureResponse reports the outcome of a drag.
type GestureResponse struct {
	Moved bool           `json:"moved"`
	Table *TableResponse `json:"table,omitempty"`
}

// MajorOption is a selectable major with a display label.
type MajorOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SearchResponse is the visible state of the search dialog.
type SearchResponse struct {
	TableID  string              `json:"tableId"`
	Option   models.SearchOption `json:"option"`
	Lectures []*models.Lecture   `json:"lectures"`
	Majors   []MajorOption       `json:"majors,omitempty"`
}

// CatalogResponse is the merged catalog.
type CatalogResponse struct {
	Lectures []*models.Lecture `json:"lectures"`
	Majors   []MajorOption     `json:"majors"`
}

// PeriodLabel is the clock range of one period row.
type PeriodLabel struct {
	Period int    `json:"period"`
	Label  string `json:"label"`
}

// GridResponse describes the grid clients render.
type GridResponse struct {
	Days             []string      `json:"days"`
	Periods          []PeriodLabel `json:"periods"`
	CellWidth        float64       `json:"cellWidth"`
	CellHeight       float64       `json:"cellHeight"`
	DayHeaderWidth   float64       `json:"dayHeaderWidth"`
	TimeHeaderHeight float64       `json:"timeHeaderHeight"`
}

// NewTableResponse maps a timetable for the API.
func NewTableResponse(table *models.Timetable) TableResponse {
	resp := TableResponse{ID: table.ID, Entries: make([]EntryResponse, 0, len(table.Entries))}
	for i, entry := range table.Entries {
		item := EntryResponse{
			Index:  i,
			DragID: table.ID + ":" + strconv.Itoa(i),
			Day:    entry.Day,
			Range:  entry.Range,
			Room:   entry.Room,
		}
		if entry.Lecture != nil {
			item.LectureID = entry.Lecture.ID
			item.Title = entry.Lecture.Title
			item.Major = entry.Lecture.Major
			item.Credits = entry.Lecture.Credits
		}
		resp.Entries = append(resp.Entries, item)
	}
	return resp
}

// NewTablesResponse maps timetables in order.
func NewTablesResponse(tables []*models.Timetable) []TableResponse {
	out := make([]TableResponse, 0, len(tables))
	for _, table := range tables {
		out = append(out, NewTableResponse(table))
	}
	return out
}
