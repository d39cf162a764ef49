package service

import (
	"slices"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TableSet is an immutable snapshot of every timetable in a session, in
// creation order. Mutations on TableStore publish a new TableSet that shares
// every timetable (and every entry) the mutation did not touch.
type TableSet struct {
	order  []string
	tables map[string]*models.Timetable
}

func newTableSet(ids ...string) *TableSet {
	set := &TableSet{tables: make(map[string]*models.Timetable, len(ids))}
	for _, id := range ids {
		set.order = append(set.order, id)
		set.tables[id] = &models.Timetable{ID: id, Entries: []*models.ScheduleEntry{}}
	}
	return set
}

// Get returns the entries of a table, or an empty list when it does not exist.
func (s *TableSet) Get(tableID string) []*models.ScheduleEntry {
	if table, ok := s.Table(tableID); ok {
		return table.Entries
	}
	return []*models.ScheduleEntry{}
}

// Table looks up a timetable by id.
func (s *TableSet) Table(tableID string) (*models.Timetable, bool) {
	if s == nil {
		return nil, false
	}
	table, ok := s.tables[tableID]
	return table, ok
}

// IDs returns the table ids in order.
func (s *TableSet) IDs() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// Tables returns the timetables in order.
func (s *TableSet) Tables() []*models.Timetable {
	if s == nil {
		return nil
	}
	out := make([]*models.Timetable, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tables[id])
	}
	return out
}

// Len reports the number of tables.
func (s *TableSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// with returns a copy of the set in which only tableID points at table.
func (s *TableSet) with(tableID string, table *models.Timetable) *TableSet {
	next := &TableSet{order: s.order, tables: make(map[string]*models.Timetable, len(s.tables)+1)}
	for id, t := range s.tables {
		next.tables[id] = t
	}
	if _, exists := s.tables[tableID]; !exists {
		next.order = append(slices.Clip(s.order), tableID)
	}
	next.tables[tableID] = table
	return next
}

func (s *TableSet) without(tableID string) *TableSet {
	next := &TableSet{tables: make(map[string]*models.Timetable, len(s.tables))}
	for _, id := range s.order {
		if id == tableID {
			continue
		}
		next.order = append(next.order, id)
		next.tables[id] = s.tables[id]
	}
	return next
}

// EntryUpdater rewrites the entries of one table. Returning the input slice
// unchanged signals that nothing changed.
type EntryUpdater func([]*models.ScheduleEntry) []*models.ScheduleEntry

// TableStore holds the current TableSet of a session. It is not safe for
// concurrent use; the owning session serialises access.
type TableStore struct {
	current *TableSet
}

// NewTableStore creates a store holding a single empty table.
func NewTableStore(initialTableID string) *TableStore {
	return &TableStore{current: newTableSet(initialTableID)}
}

// Reset drops every table and starts over with one empty table.
func (s *TableStore) Reset(initialTableID string) *TableSet {
	s.current = newTableSet(initialTableID)
	return s.current
}

// Snapshot returns the current table set.
func (s *TableStore) Snapshot() *TableSet {
	return s.current
}

// Get returns the entries of tableID, empty when absent.
func (s *TableStore) Get(tableID string) []*models.ScheduleEntry {
	return s.current.Get(tableID)
}

// Update applies fn to the entries of tableID. When fn hands back its input,
// or the table does not exist, the current snapshot is returned as is.
// Otherwise only tableID is replaced in the new snapshot.
func (s *TableStore) Update(tableID string, fn EntryUpdater) *TableSet {
	table, ok := s.current.Table(tableID)
	if !ok {
		return s.current
	}
	next := fn(table.Entries)
	if sameEntries(next, table.Entries) {
		return s.current
	}
	if next == nil {
		next = []*models.ScheduleEntry{}
	}
	s.current = s.current.with(tableID, &models.Timetable{ID: tableID, Entries: next})
	return s.current
}

// ReplaceOne swaps the entry at index. Every other entry keeps its identity.
func (s *TableStore) ReplaceOne(tableID string, index int, entry *models.ScheduleEntry) *TableSet {
	return s.Update(tableID, func(entries []*models.ScheduleEntry) []*models.ScheduleEntry {
		return replaceAt(entries, index, entry)
	})
}

// AddEntries appends entries to the end of tableID.
func (s *TableStore) AddEntries(tableID string, entries ...*models.ScheduleEntry) *TableSet {
	if len(entries) == 0 {
		return s.current
	}
	return s.Update(tableID, func(current []*models.ScheduleEntry) []*models.ScheduleEntry {
		return append(slices.Clip(current), entries...)
	})
}

// RemoveWhere drops every entry of tableID matching pred.
func (s *TableStore) RemoveWhere(tableID string, pred func(*models.ScheduleEntry) bool) *TableSet {
	return s.Update(tableID, func(entries []*models.ScheduleEntry) []*models.ScheduleEntry {
		if !slices.ContainsFunc(entries, pred) {
			return entries
		}
		kept := make([]*models.ScheduleEntry, 0, len(entries))
		for _, entry := range entries {
			if !pred(entry) {
				kept = append(kept, entry)
			}
		}
		return kept
	})
}

// RemoveAt drops the entries of tableID that occupy the given cell.
func (s *TableStore) RemoveAt(tableID, day string, period int) *TableSet {
	return s.RemoveWhere(tableID, func(entry *models.ScheduleEntry) bool {
		return entry.Covers(day, period)
	})
}

// Duplicate copies the entries of sourceID into a new table newID. Entries are
// shared, not cloned. newID must not be in use.
func (s *TableStore) Duplicate(newID, sourceID string) *TableSet {
	source, ok := s.current.Table(sourceID)
	if !ok || newID == "" {
		return s.current
	}
	if _, taken := s.current.Table(newID); taken {
		return s.current
	}
	entries := append(make([]*models.ScheduleEntry, 0, len(source.Entries)), source.Entries...)
	s.current = s.current.with(newID, &models.Timetable{ID: newID, Entries: entries})
	return s.current
}

// RemoveTable deletes tableID. The last remaining table is never removed.
func (s *TableStore) RemoveTable(tableID string) *TableSet {
	if _, ok := s.current.Table(tableID); !ok || s.current.Len() <= 1 {
		return s.current
	}
	s.current = s.current.without(tableID)
	return s.current
}

func replaceAt(entries []*models.ScheduleEntry, index int, entry *models.ScheduleEntry) []*models.ScheduleEntry {
	if index < 0 || index >= len(entries) || entry == nil || entries[index] == entry {
		return entries
	}
	next := slices.Clone(entries)
	next[index] = entry
	return next
}

// sameEntries reports whether a and b are the same slice, not merely equal.
func sameEntries(a, b []*models.ScheduleEntry) bool {
	if len(a) != len(b) || cap(a) != cap(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
