package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// interiorMargin keeps a block that sits exactly on the header edge inside the grid.
const interiorMargin = 1

// SnapDelta rounds a raw drag transform to whole cells and clamps it so the
// dragged block stays inside the grid interior: right of the day-label column,
// below the time-label row, and within the container's far edges.
func SnapDelta(raw models.Delta, geo models.GridGeometry) models.Delta {
	if geo.CellWidth <= 0 || geo.CellHeight <= 0 {
		return models.Delta{}
	}

	minX := geo.Container.Left - geo.Dragging.Left + geo.DayHeaderWidth + interiorMargin
	minY := geo.Container.Top - geo.Dragging.Top + geo.TimeHeaderHeight + interiorMargin
	maxX := geo.Container.Right - geo.Dragging.Right
	maxY := geo.Container.Bottom - geo.Dragging.Bottom

	return models.Delta{
		X: clamp(snap(raw.X, geo.CellWidth), minX, maxX),
		Y: clamp(snap(raw.Y, geo.CellHeight), minY, maxY),
	}
}

// snap rounds half up, matching pointer libraries rather than math.Round.
func snap(v, cell float64) float64 {
	return math.Floor(v/cell+0.5) * cell
}

// clamp applies the lower bound first, so an inverted window resolves to hi.
func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// RelocationEngine converts drag displacements into day/period moves on a grid.
type RelocationEngine struct {
	layout models.GridLayout
}

// NewRelocationEngine builds an engine for the given grid layout.
func NewRelocationEngine(layout models.GridLayout) *RelocationEngine {
	return &RelocationEngine{layout: layout}
}

// Layout returns the grid layout the engine works on.
func (e *RelocationEngine) Layout() models.GridLayout {
	return e.layout
}

// Relocate returns the entry moved by the snapped displacement. The input is
// returned unchanged when nothing moves or when the move cannot be applied
// (unknown day, target outside the grid); otherwise a new entry is returned
// that shares the lecture of the original.
func (e *RelocationEngine) Relocate(entry *models.ScheduleEntry, raw models.Delta, geo models.GridGeometry) *models.ScheduleEntry {
	if entry == nil || len(entry.Range) == 0 {
		return entry
	}
	if geo.CellWidth <= 0 || geo.CellHeight <= 0 {
		return entry
	}

	delta := SnapDelta(raw, geo)
	dayDelta := int(math.Floor(delta.X / geo.CellWidth))
	periodDelta := int(math.Floor(delta.Y / geo.CellHeight))
	if dayDelta == 0 && periodDelta == 0 {
		return entry
	}

	current := e.layout.DayIndex(entry.Day)
	if current < 0 {
		return entry
	}
	target := current + dayDelta
	if target < 0 || target >= len(e.layout.Days) {
		return entry
	}

	moved := make([]int, len(entry.Range))
	for i, p := range entry.Range {
		moved[i] = p + periodDelta
	}
	if moved[0] < 1 || (e.layout.Periods > 0 && moved[len(moved)-1] > e.layout.Periods) {
		return entry
	}

	return &models.ScheduleEntry{
		Lecture: entry.Lecture,
		Day:     e.layout.Days[target],
		Range:   moved,
		Room:    entry.Room,
	}
}

// GeometryFor derives grid geometry for an entry when the client does not
// report measured rectangles.
func (e *RelocationEngine) GeometryFor(entry *models.ScheduleEntry) models.GridGeometry {
	day := e.layout.DayIndex(entry.Day)
	if day < 0 || len(entry.Range) == 0 {
		return models.GridGeometry{}
	}
	return e.layout.Geometry(day, entry.Range[0], len(entry.Range))
}

// DragID encodes the gesture identifier for an entry.
func DragID(tableID string, index int) string {
	return tableID + ":" + strconv.Itoa(index)
}

// ParseDragID recovers the table id and entry index from a gesture identifier
// of the form "<tableId>:<entryIndex>".
func ParseDragID(id string) (string, int, bool) {
	sep := strings.LastIndex(id, ":")
	if sep <= 0 || sep == len(id)-1 {
		return "", 0, false
	}
	index, err := strconv.Atoi(id[sep+1:])
	if err != nil || index < 0 {
		return "", 0, false
	}
	return id[:sep], index, true
}
