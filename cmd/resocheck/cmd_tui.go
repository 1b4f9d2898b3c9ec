package main

import (
	"github.com/spf13/cobra"

	"github.com/straja-ai/resocheck/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	var prefill string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal version of the check page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(tui.Options{
				Prefill:      prefill,
				ShareBaseURL: a.cfg.Server.PublicBaseURL,
			})
		},
	}

	cmd.Flags().StringVarP(&prefill, "q", "q", "", "resolution to prefill and assess")
	return cmd
}
