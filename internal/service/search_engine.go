package service

import (
	"slices"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// DefaultPageSize is the number of search results revealed per page.
const DefaultPageSize = 100

type indexedLecture struct {
	lecture  *models.Lecture
	id       string
	title    string
	segments []models.ScheduleSegment
}

// LectureIndex is a catalog prepared for repeated filtering. Descriptors are
// parsed and search text lower-cased once, when the index is built.
type LectureIndex struct {
	items  []indexedLecture
	majors []string
	byID   map[string]*models.Lecture
}

// NewLectureIndex indexes lectures in the given order.
func NewLectureIndex(lectures []*models.Lecture) *LectureIndex {
	idx := &LectureIndex{
		items: make([]indexedLecture, 0, len(lectures)),
		byID:  make(map[string]*models.Lecture, len(lectures)),
	}
	seenMajor := make(map[string]struct{})
	for _, lecture := range lectures {
		if lecture == nil {
			continue
		}
		idx.items = append(idx.items, indexedLecture{
			lecture:  lecture,
			id:       strings.ToLower(lecture.ID),
			title:    strings.ToLower(lecture.Title),
			segments: ParseDescriptor(lecture.Schedule),
		})
		if _, ok := idx.byID[lecture.ID]; !ok {
			idx.byID[lecture.ID] = lecture
		}
		if _, ok := seenMajor[lecture.Major]; !ok {
			seenMajor[lecture.Major] = struct{}{}
			idx.majors = append(idx.majors, lecture.Major)
		}
	}
	return idx
}

// Len reports the number of indexed lectures.
func (idx *LectureIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.items)
}

// Majors returns the distinct majors in catalog order.
func (idx *LectureIndex) Majors() []string {
	if idx == nil {
		return []string{}
	}
	return append([]string{}, idx.majors...)
}

// Lookup finds a lecture by id. When ids repeat, the first one wins.
func (idx *LectureIndex) Lookup(id string) (*models.Lecture, bool) {
	if idx == nil {
		return nil, false
	}
	lecture, ok := idx.byID[id]
	return lecture, ok
}

// Filter returns the lectures matching every populated field of opt, in
// catalog order. Within one field any selected value matches.
func (idx *LectureIndex) Filter(opt models.SearchOption) []*models.Lecture {
	if idx == nil {
		return []*models.Lecture{}
	}
	query := strings.ToLower(strings.TrimSpace(opt.Query))
	credits := ""
	if opt.Credits > 0 {
		credits = strconv.Itoa(opt.Credits)
	}

	out := make([]*models.Lecture, 0, len(idx.items))
	for i := range idx.items {
		item := &idx.items[i]
		if query != "" && !strings.Contains(item.id, query) && !strings.Contains(item.title, query) {
			continue
		}
		if len(opt.Grades) > 0 && !slices.Contains(opt.Grades, item.lecture.Grade) {
			continue
		}
		if len(opt.Majors) > 0 && !slices.Contains(opt.Majors, item.lecture.Major) {
			continue
		}
		if credits != "" && !strings.HasPrefix(item.lecture.Credits, credits) {
			continue
		}
		if len(opt.Days) > 0 && !slices.ContainsFunc(item.segments, func(s models.ScheduleSegment) bool {
			return slices.Contains(opt.Days, s.Day)
		}) {
			continue
		}
		if len(opt.Periods) > 0 && !slices.ContainsFunc(item.segments, func(s models.ScheduleSegment) bool {
			return slices.ContainsFunc(s.Range, func(p int) bool { return slices.Contains(opt.Periods, p) })
		}) {
			continue
		}
		out = append(out, item.lecture)
	}
	return out
}

// Search filters lectures with opt without keeping an index around.
func Search(lectures []*models.Lecture, opt models.SearchOption) []*models.Lecture {
	return NewLectureIndex(lectures).Filter(opt)
}

// MajorLabel renders a major for display; majors may embed descriptor delimiters.
func MajorLabel(major string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(major, DescriptorDelimiter, " ")), " ")
}

// Paginator reveals a filtered list one page at a time. The first visibility
// signal after a reset only acknowledges the page already on screen; every
// later signal reveals one more page.
type Paginator struct {
	size   int
	page   int
	total  int
	primed bool
}

// NewPaginator creates a paginator on page 1. Non-positive sizes fall back to DefaultPageSize.
func NewPaginator(size int) *Paginator {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Paginator{size: size, page: 1}
}

// Reset goes back to page 1 for a list of total items.
func (p *Paginator) Reset(total int) {
	p.page = 1
	p.total = max(total, 0)
	p.primed = false
}

// LastPage is ceil(total / size), and at least 1.
func (p *Paginator) LastPage() int {
	return max(1, (p.total+p.size-1)/p.size)
}

// Page returns the current page.
func (p *Paginator) Page() int {
	return p.page
}

// Advance handles one visibility signal. The first one after a reset keeps
// page 1; later ones move to the next page, clamped to the last one.
func (p *Paginator) Advance() int {
	if !p.primed {
		p.primed = true
		return p.page
	}
	p.page = min(p.LastPage(), p.page+1)
	return p.page
}

// Visible returns the first page*size elements of items.
func (p *Paginator) Visible(items []*models.Lecture) []*models.Lecture {
	return items[:min(len(items), p.page*p.size)]
}

// Meta describes the paginator state.
func (p *Paginator) Meta() models.Pagination {
	return models.Pagination{
		Page:       p.page,
		PageSize:   p.size,
		TotalCount: p.total,
		LastPage:   p.LastPage(),
	}
}

// EntriesForLecture turns a lecture's descriptor into schedule entries that
// fit layout. Malformed segments and segments outside the grid are dropped.
func EntriesForLecture(lecture *models.Lecture, layout models.GridLayout) []*models.ScheduleEntry {
	segments := ParseDescriptor(lecture.Schedule)
	entries := make([]*models.ScheduleEntry, 0, len(segments))
	for _, seg := range segments {
		if seg.Malformed || !layout.HasDay(seg.Day) {
			continue
		}
		if seg.Range[0] < 1 || (layout.Periods > 0 && seg.Range[len(seg.Range)-1] > layout.Periods) {
			continue
		}
		entries = append(entries, &models.ScheduleEntry{
			Lecture: lecture,
			Day:     seg.Day,
			Range:   seg.Range,
			Room:    seg.Room,
		})
	}
	return entries
}

// Lectures returns the indexed lectures in catalog order.
func (idx *LectureIndex) Lectures() []*models.Lecture {
	if idx == nil {
		return []*models.Lecture{}
	}
	out := make([]*models.Lecture, 0, len(idx.items))
	for i := range idx.items {
		out = append(out, idx.items[i].lecture)
	}
	return out
}
