package cli

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
)

func addSearch(topLevel *cobra.Command, opts *catalogOptions) {
	var (
		option   models.SearchOption
		pageSize int
		pages    int
	)

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Filter the catalog the way the search dialog does.",
		Example: `
timetablectl search 자료구조
timetablectl search --day 월 --day 수 --period 3 --grade 2
timetablectl search --major 컴퓨터공학과 --credits 3 --pages 2
`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			idx, err := env.index(cmd.Context())
			if err != nil {
				return err
			}

			option.Query = strings.Join(args, " ")
			results := idx.Filter(option)
			pager := service.NewPaginator(pageSize)
			pager.Reset(len(results))
			for pager.Page() < pages && pager.Page() < pager.LastPage() {
				pager.Advance()
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.MaxColWidth = 40
			tbl.AddRow(bold("ID"), bold("TITLE"), bold("GRADE"), bold("CREDITS"), bold("MAJOR"), bold("SCHEDULE"))
			for _, lecture := range pager.Visible(results) {
				tbl.AddRow(lecture.ID, lecture.Title, lecture.Grade, lecture.Credits, service.MajorLabel(lecture.Major), lecture.Schedule)
			}

			meta := pager.Meta()
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, tbl)
			_, _ = fmt.Fprintln(out, faint(fmt.Sprintf("page %d/%d, %d matching lectures", meta.Page, meta.LastPage, meta.TotalCount)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVar(&option.Grades, "grade", nil, "grade to include (repeatable)")
	flags.StringSliceVar(&option.Days, "day", nil, "day a segment must fall on (repeatable)")
	flags.IntSliceVar(&option.Periods, "period", nil, "period a segment must cover (repeatable)")
	flags.StringSliceVar(&option.Majors, "major", nil, "major to include (repeatable)")
	flags.IntVar(&option.Credits, "credits", 0, "credits prefix to match")
	flags.IntVar(&pageSize, "page-size", service.DefaultPageSize, "results revealed per page")
	flags.IntVar(&pages, "pages", 1, "number of pages to reveal")
	topLevel.AddCommand(cmd)
}
