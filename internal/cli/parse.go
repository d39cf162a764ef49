package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

var errMalformed = errors.New("malformed schedule descriptors found")

func addParse(topLevel *cobra.Command) {
	var strict bool

	cmd := &cobra.Command{
		Use:   "parse DESCRIPTOR...",
		Short: "Show how schedule descriptors are split into segments.",
		Example: `
timetablectl parse '월1~2(A101)<p>수3'
timetablectl parse --strict '화7~8()' 'TBA'
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dirty := false
			for _, descriptor := range args {
				segments := service.ParseDescriptor(descriptor)
				_, _ = fmt.Fprintln(out, bold(descriptor))
				_, _ = fmt.Fprintln(out, segmentTable(segments))
				_, _ = fmt.Fprintln(out)
				if service.ValidateDescriptor(descriptor) != nil {
					dirty = true
				}
			}
			if strict && dirty {
				return errMalformed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when a descriptor is malformed")
	topLevel.AddCommand(cmd)
}

func segmentTable(segments []models.ScheduleSegment) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("#"), bold("DAY"), bold("PERIODS"), bold("ROOM"), bold("STATUS"))
	if len(segments) == 0 {
		tbl.AddRow("", faint("none"), "", "", "")
		return tbl
	}
	for i, seg := range segments {
		status := green("ok")
		if seg.Malformed {
			status = red("malformed")
		}
		tbl.AddRow(strconv.Itoa(i), seg.Day, formatRange(seg.Range), seg.Room, status)
	}
	return tbl
}

func formatRange(periods []int) string {
	switch len(periods) {
	case 0:
		return ""
	case 1:
		return strconv.Itoa(periods[0])
	}
	parts := []string{strconv.Itoa(periods[0]), strconv.Itoa(periods[len(periods)-1])}
	return strings.Join(parts, "~")
}
