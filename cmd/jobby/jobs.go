package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobby/internal/listing"
	"github.com/jonathan/jobby/internal/types"
)

type jobsFlags struct {
	employmentTypes []string
	minimumPackage  int
	search          string
	locations       []string
}

func newJobsCmd(opts *rootOptions) *cobra.Command {
	var flags jobsFlags

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs matching a filter",
		Long: "List jobs from the jobs API. Employment type, minimum package and search are sent to the API; " +
			"locations narrow the returned list locally.",
		Example: "  jobby jobs --employment-type FULLTIME,PARTTIME --minimum-package 1000000 --search go\n" +
			"  jobby jobs --location Delhi --location Mumbai",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter(cmd.Flags().Changed("minimum-package"))
			if err != nil {
				return err
			}

			s, err := opts.open(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctrl := listing.NewController(s.api, s.token)
			ctrl.Apply(cmd.Context(), filter)

			v := ctrl.View()
			if v.Failed() {
				return wrapAPIError("list jobs", v.Err)
			}
			s.printer.PrintJobs(v.Jobs)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.employmentTypes, "employment-type", "t", nil, "Employment type: FULLTIME, PARTTIME, FREELANCE or INTERNSHIP (repeatable)")
	cmd.Flags().IntVar(&flags.minimumPackage, "minimum-package", 0, "Minimum package per annum, e.g. 1000000")
	cmd.Flags().StringVarP(&flags.search, "search", "s", "", "Search text")
	cmd.Flags().StringSliceVarP(&flags.locations, "location", "l", nil, "Only show jobs in this location (repeatable)")
	return cmd
}

// filter builds the selection from the flags. Duplicates keep their first position.
func (f jobsFlags) filter(hasMinimum bool) (types.Filter, error) {
	var out types.Filter

	for _, raw := range f.employmentTypes {
		t, err := types.ParseEmploymentType(raw)
		if err != nil {
			return types.Filter{}, fmt.Errorf("invalid --employment-type: %w", err)
		}
		out = out.WithEmploymentType(t, true)
	}
	if hasMinimum {
		v := f.minimumPackage
		out.MinimumPackage = &v
	}
	out.Search = f.search
	for _, loc := range f.locations {
		out = out.WithLocation(loc, true)
	}

	if err := out.Validate(); err != nil {
		return types.Filter{}, fmt.Errorf("invalid filter: %w", err)
	}
	return out, nil
}
