package versioncommand

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateusz-piotrowski/user-profile-backup/internal/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print CLI's version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "version:%s commit:%s date:%s\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
