package service

import (
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// SearchPage is what the search dialog currently shows.
type SearchPage struct {
	TableID    string
	Option     models.SearchOption
	Lectures   []*models.Lecture
	Pagination models.Pagination
}

// SearchSession is the state of one search dialog: the table it adds to, the
// current options, the filtered results and how many of them are revealed.
type SearchSession struct {
	open    bool
	tableID string
	option  models.SearchOption
	index   *LectureIndex
	results []*models.Lecture
	pager   *Paginator
}

// NewSearchSession creates a closed dialog revealing pageSize results per page.
func NewSearchSession(pageSize int) *SearchSession {
	return &SearchSession{pager: NewPaginator(pageSize), results: []*models.Lecture{}}
}

// Open starts a dialog for tableID. Options are reset; a non-empty day and a
// positive period seed the day and period filters.
func (s *SearchSession) Open(tableID, day string, period int) {
	s.open = true
	s.tableID = tableID
	s.option = models.SearchOption{}
	if day != "" {
		s.option.Days = []string{day}
	}
	if period > 0 {
		s.option.Periods = []int{period}
	}
	s.refresh()
}

// Close ends the dialog. Options are kept until the next Open.
func (s *SearchSession) Close() {
	s.open = false
	s.tableID = ""
}

// IsOpen reports whether a dialog is open.
func (s *SearchSession) IsOpen() bool {
	return s.open
}

// TableID is the table results are committed to.
func (s *SearchSession) TableID() string {
	return s.tableID
}

// Option returns the current options.
func (s *SearchSession) Option() models.SearchOption {
	return s.option
}

// Attach sets the catalog the dialog searches.
func (s *SearchSession) Attach(index *LectureIndex) {
	if s.index == index {
		return
	}
	s.index = index
	s.refresh()
}

// SetOption replaces the options and goes back to the first page.
func (s *SearchSession) SetOption(opt models.SearchOption) {
	s.option = opt
	s.refresh()
}

// Advance reveals one more page; past the last page it does nothing.
func (s *SearchSession) Advance() models.Pagination {
	s.pager.Advance()
	return s.pager.Meta()
}

// Page returns the revealed results.
func (s *SearchSession) Page() SearchPage {
	return SearchPage{
		TableID:    s.tableID,
		Option:     s.option,
		Lectures:   s.pager.Visible(s.results),
		Pagination: s.pager.Meta(),
	}
}

// Majors lists the distinct majors of the attached catalog.
func (s *SearchSession) Majors() []string {
	return s.index.Majors()
}

func (s *SearchSession) refresh() {
	s.results = s.index.Filter(s.option)
	s.pager.Reset(len(s.results))
}
