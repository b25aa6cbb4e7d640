package main

import (
	"github.com/spf13/cobra"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			profile, err := s.api.Profile(cmd.Context(), s.token)
			if err != nil {
				return wrapAPIError("load profile", err)
			}
			s.printer.PrintProfile(profile)
			return nil
		},
	}
}
