package checkcommand

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mateusz-piotrowski/user-profile-backup/internal/config"
	apperrors "github.com/mateusz-piotrowski/user-profile-backup/internal/errors"
	"github.com/mateusz-piotrowski/user-profile-backup/internal/logging"
	backupservice "github.com/mateusz-piotrowski/user-profile-backup/internal/services/backupService"
)

// NewCheckCommand returns the check subcommand, which loads the
// configuration and probes the environment (rsync, source, destination,
// exclude file) without starting a sync. A missing backup directory is
// created here too, same as during a real run.
func NewCheckCommand(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and backup dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}

			svc := backupservice.New(*cfg, backupservice.RunOptions{}, logging.Console(), io.Discard)
			results := svc.Inspect()

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Check", "Status", "Detail"})
			failed := 0
			for _, r := range results {
				status := "OK"
				if !r.OK {
					status = "FAIL"
					failed++
				}
				t.AppendRow(table.Row{r.Name, status, r.Detail})
			}
			t.Render()

			if failed > 0 {
				return apperrors.New("environment check failed")
			}
			return nil
		},
	}
}
