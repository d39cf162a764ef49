package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// DescriptorDelimiter separates segments inside a catalog schedule string.
const DescriptorDelimiter = "<p>"

// maxRangeSpan bounds "start~end" expansion; wider ranges are cut at start+maxRangeSpan.
const maxRangeSpan = 255

// day token, period (N or N~M), optional trailing room text.
var segmentPattern = regexp.MustCompile(`(?s)^(\D*)(\d+)(?:~(\d+))?(.*)$`)

// DescriptorError reports which segments of a descriptor could not be parsed cleanly.
type DescriptorError struct {
	Text     string
	Segments []int
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("malformed schedule descriptor %q (segments %v)", e.Text, e.Segments)
}

// ParseDescriptor turns a schedule descriptor such as "월1~2(A101)<p>수3" into
// segments. It never fails: a segment that does not have the expected shape
// still yields a best-effort segment flagged as Malformed.
func ParseDescriptor(text string) []models.ScheduleSegment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := strings.Split(text, DescriptorDelimiter)
	segments := make([]models.ScheduleSegment, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, parseSegment(part))
	}
	return segments
}

// ValidateDescriptor returns a *DescriptorError when any segment of text is
// malformed, nil otherwise.
func ValidateDescriptor(text string) error {
	var bad []int
	for i, seg := range ParseDescriptor(text) {
		if seg.Malformed {
			bad = append(bad, i)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return &DescriptorError{Text: text, Segments: bad}
}

func parseSegment(raw string) models.ScheduleSegment {
	m := segmentPattern.FindStringSubmatch(raw)
	if m == nil {
		return models.ScheduleSegment{Day: raw, Range: []int{0}, Malformed: true}
	}

	seg := models.ScheduleSegment{
		Day:  strings.TrimSpace(m[1]),
		Room: parseRoom(m[4]),
	}

	start, err := strconv.Atoi(m[2])
	if err != nil {
		seg.Range = []int{0}
		seg.Malformed = true
		return seg
	}

	seg.Range = []int{start}
	if m[3] != "" {
		end, err := strconv.Atoi(m[3])
		if err != nil || end < start {
			seg.Malformed = true
		} else {
			seg.Range = periodRange(start, min(end-start, maxRangeSpan)+1)
		}
	}
	if seg.Day == "" {
		seg.Malformed = true
	}
	return seg
}

func parseRoom(rest string) string {
	room := strings.NewReplacer("(", "", ")", "").Replace(rest)
	return strings.TrimSpace(room)
}

// periodRange returns count consecutive periods from start.
func periodRange(start, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = start + i
	}
	return out
}
