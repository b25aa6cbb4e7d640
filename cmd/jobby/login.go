package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobby/internal/types"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var req types.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a JWT token",
		Long:  "Sign in against the jobs API. The printed token can be passed to other commands with --token or JOBBY_TOKEN.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			token, err := newAPIClient(cfg).Login(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
