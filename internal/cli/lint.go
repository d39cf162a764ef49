package cli

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
)

// lintReport tallies descriptor problems across a catalog.
type lintReport struct {
	Lectures  int
	Malformed int
	OffGrid   int
}

func addLint(topLevel *cobra.Command, opts *catalogOptions) {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check every catalog schedule against the descriptor grammar and the grid.",
		Long: `Loads the catalog from the configured backend and reports lectures whose
schedule cannot be parsed, or that name a day or period outside the grid.
Exits non-zero when any descriptor is malformed.`,
		Example: `
timetablectl lint
timetablectl lint --backend file --majors majors.json --liberal-arts liberal.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			idx, err := env.index(cmd.Context())
			if err != nil {
				return err
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.MaxColWidth = 60
			tbl.AddRow(bold("ID"), bold("TITLE"), bold("SCHEDULE"), bold("PROBLEM"))
			report := lintCatalog(idx.Lectures(), env.layout, func(lecture *models.Lecture, problem string) {
				tbl.AddRow(lecture.ID, lecture.Title, lecture.Schedule, problem)
			}, showAll)

			out := cmd.OutOrStdout()
			if len(tbl.Rows) > 1 {
				_, _ = fmt.Fprintln(out, tbl)
				_, _ = fmt.Fprintln(out)
			}
			_, _ = fmt.Fprintf(out, "%d lectures, %s, %s\n", report.Lectures,
				red(fmt.Sprintf("%d malformed", report.Malformed)),
				yellow(fmt.Sprintf("%d off-grid", report.OffGrid)))
			if report.Malformed > 0 {
				return errMalformed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showAll, "all", false, "also list lectures without problems")
	topLevel.AddCommand(cmd)
}

// lintCatalog calls emit once per reported lecture.
func lintCatalog(lectures []*models.Lecture, layout models.GridLayout, emit func(*models.Lecture, string), showAll bool) lintReport {
	report := lintReport{Lectures: len(lectures)}
	for _, lecture := range lectures {
		if err := service.ValidateDescriptor(lecture.Schedule); err != nil {
			report.Malformed++
			emit(lecture, red("malformed"))
			continue
		}
		if placed, total := len(service.EntriesForLecture(lecture, layout)), len(service.ParseDescriptor(lecture.Schedule)); placed < total {
			report.OffGrid++
			emit(lecture, yellow(fmt.Sprintf("%d of %d segments off the grid", total-placed, total)))
			continue
		}
		if showAll {
			emit(lecture, green("ok"))
		}
	}
	return report
}
