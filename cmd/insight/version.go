package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/insight/internal/app"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format); err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), versionPayload{
					Tool:      "insight",
					Version:   app.Version,
					Commit:    app.Commit,
					BuildTime: app.BuildTime,
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "insight %s\n", app.BuildVersion())
			return err
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}
