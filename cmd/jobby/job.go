package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newJobCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "job <id>",
		Short: "Show one job with its skills and similar jobs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			job, err := s.api.JobDetail(cmd.Context(), s.token, strings.TrimSpace(args[0]))
			if err != nil {
				return wrapAPIError("load job", err)
			}
			s.printer.PrintJobDetail(job)
			return nil
		},
	}
}
