package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/services"
)

func newComputeCmd(opts *rootOptions) *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Run one forecast pass and print the snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := sel.request()
			if err != nil {
				return err
			}

			snap, err := opts.service.Compute(cmd.Context(), services.QueryFromRequest(req, nil))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}

	sel.register(cmd)
	return cmd
}
