package service

import (
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// GestureTracker follows one drag gesture at a time for a session and turns
// the gesture's end into a table mutation.
type GestureTracker struct {
	engine      *RelocationEngine
	activeTable string
}

// NewGestureTracker builds a tracker backed by engine.
func NewGestureTracker(engine *RelocationEngine) *GestureTracker {
	return &GestureTracker{engine: engine}
}

// ActiveTable returns the table currently being dragged in, if any.
func (g *GestureTracker) ActiveTable() string {
	return g.activeTable
}

// Start marks the table addressed by id as active. Unparsable ids are ignored.
func (g *GestureTracker) Start(id string) bool {
	tableID, _, ok := ParseDragID(id)
	if !ok {
		return false
	}
	g.activeTable = tableID
	return true
}

// End relocates the dragged entry and clears the active table. When geo is
// nil the geometry is derived from the grid layout. The returned set is the
// store's snapshot after the move, identical to the previous one when the
// gesture was a no-op.
func (g *GestureTracker) End(store *TableStore, id string, delta models.Delta, geo *models.GridGeometry) *TableSet {
	g.activeTable = ""

	tableID, index, ok := ParseDragID(id)
	if !ok {
		return store.Snapshot()
	}
	return store.Update(tableID, func(entries []*models.ScheduleEntry) []*models.ScheduleEntry {
		if index >= len(entries) {
			return entries
		}
		entry := entries[index]
		geometry := g.engine.GeometryFor(entry)
		if geo != nil {
			geometry = *geo
		}
		return replaceAt(entries, index, g.engine.Relocate(entry, delta, geometry))
	})
}

// Cancel clears the active table.
func (g *GestureTracker) Cancel() {
	g.activeTable = ""
}
