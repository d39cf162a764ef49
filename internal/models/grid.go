package models

// Rect is a client-reported bounding box in pixels.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// Delta is a cumulative pointer displacement in pixels.
type Delta struct {
	X float64 `json:"dx"`
	Y float64 `json:"dy"`
}

// GridGeometry describes the rendered grid at the moment a drag ends.
type GridGeometry struct {
	CellWidth        float64 `json:"cell_width"`
	CellHeight       float64 `json:"cell_height"`
	DayHeaderWidth   float64 `json:"day_header_width"`
	TimeHeaderHeight float64 `json:"time_header_height"`
	Container        Rect    `json:"container"`
	Dragging         Rect    `json:"dragging"`
}

// GridLayout is the static layout of a timetable grid.
type GridLayout struct {
	Days             []string
	Periods          int
	CellWidth        float64
	CellHeight       float64
	DayHeaderWidth   float64
	TimeHeaderHeight float64
}

// DayIndex returns the position of day in the layout, or -1.
func (l GridLayout) DayIndex(day string) int {
	for i, d := range l.Days {
		if d == day {
			return i
		}
	}
	return -1
}

// HasDay reports whether day belongs to the layout.
func (l GridLayout) HasDay(day string) bool {
	return l.DayIndex(day) >= 0
}

// Geometry derives the pixel geometry for an entry spanning periods
// [first, first+span) on the given day, with the container anchored at the
// origin. Clients that cannot report measured rects use this.
func (l GridLayout) Geometry(dayIndex, first, span int) GridGeometry {
	left := l.DayHeaderWidth + float64(dayIndex)*l.CellWidth
	top := l.TimeHeaderHeight + float64(first-1)*l.CellHeight
	return GridGeometry{
		CellWidth:        l.CellWidth,
		CellHeight:       l.CellHeight,
		DayHeaderWidth:   l.DayHeaderWidth,
		TimeHeaderHeight: l.TimeHeaderHeight,
		Container: Rect{
			Right:  l.DayHeaderWidth + float64(len(l.Days))*l.CellWidth,
			Bottom: l.TimeHeaderHeight + float64(l.Periods)*l.CellHeight,
		},
		Dragging: Rect{
			Top:    top,
			Left:   left,
			Bottom: top + float64(span)*l.CellHeight,
			Right:  left + l.CellWidth,
		},
	}
}
