package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
)

// catalogOptions override the catalog settings read from the environment.
type catalogOptions struct {
	Backend         string
	BaseURL         string
	MajorsFile      string
	LiberalArtsFile string
	NoColor         bool
}

// New builds the timetablectl command tree.
func New() *cobra.Command {
	opts := &catalogOptions{}

	cmd := &cobra.Command{
		Use:           "timetablectl",
		Short:         "Inspect lecture catalogs and schedule descriptors.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Backend, "backend", "", "catalog backend: http, postgres or file (default from CATALOG_SOURCE)")
	flags.StringVar(&opts.BaseURL, "base-url", "", "catalog origin for the http backend")
	flags.StringVar(&opts.MajorsFile, "majors", "", "majors catalog file for the file backend")
	flags.StringVar(&opts.LiberalArtsFile, "liberal-arts", "", "liberal arts catalog file for the file backend")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	addParse(cmd)
	addLint(cmd, opts)
	addSearch(cmd, opts)
	return cmd
}

// environment is the configuration a catalog command runs with.
type environment struct {
	cfg    *config.Config
	layout models.GridLayout
}

func loadEnvironment(opts *catalogOptions) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Backend != "" {
		cfg.Catalog.Backend = opts.Backend
	}
	if opts.BaseURL != "" {
		cfg.Catalog.BaseURL = opts.BaseURL
	}
	if opts.MajorsFile != "" {
		cfg.Catalog.MajorsFile = opts.MajorsFile
	}
	if opts.LiberalArtsFile != "" {
		cfg.Catalog.LiberalArtsFile = opts.LiberalArtsFile
	}
	return &environment{
		cfg: cfg,
		layout: models.GridLayout{
			Days:    cfg.Timetable.Days,
			Periods: cfg.Timetable.Periods,
		},
	}, nil
}

func (e *environment) index(ctx context.Context) (*service.LectureIndex, error) {
	repo, closeFn, err := repository.OpenCatalogBackend(e.cfg.Catalog, e.cfg.Database, nil, zap.NewNop())
	if err != nil {
		return nil, err
	}
	defer closeFn() //nolint:errcheck

	catalog := service.NewCatalogService(repo, nil, nil, zap.NewNop())
	return catalog.Index(ctx)
}
