// The root command for the CLI. Running the binary with no subcommand
// performs the backup itself; check and version are attached as
// subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	checkcommand "github.com/mateusz-piotrowski/user-profile-backup/internal/commands/checkCommand"
	versioncommand "github.com/mateusz-piotrowski/user-profile-backup/internal/commands/versionCommand"
	"github.com/mateusz-piotrowski/user-profile-backup/internal/config"
	apperrors "github.com/mateusz-piotrowski/user-profile-backup/internal/errors"
	"github.com/mateusz-piotrowski/user-profile-backup/internal/logging"
	backupservice "github.com/mateusz-piotrowski/user-profile-backup/internal/services/backupService"
	"github.com/mateusz-piotrowski/user-profile-backup/internal/utils/spinner"
	"github.com/mateusz-piotrowski/user-profile-backup/internal/version"
)

// Execute runs the root command and maps any failure to exit code 1.
// Errors already written to the session log are not printed again.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		if !apperrors.IsLogged(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		cfgFile string
		opts    backupservice.RunOptions
	)

	rootCmd := &cobra.Command{
		Use:   version.Package,
		Short: "Mirror a user profile directory to a backup location with rsync",
		Long: `Mirror a user's profile directory to a backup location using rsync.

New and changed files are copied, files that vanished from the source are
removed from the destination, and patterns listed in the exclude file are
skipped (and pruned from the destination). Paths come from a configuration
file colocated with the executable; there are no positional arguments.`,
		Args: cobra.NoArgs,
		// Errors are printed once by Execute, not by cobra.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd.Context(), cfgFile, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json, toml or env)")
	addRunFlags(rootCmd.Flags(), &opts)

	rootCmd.AddCommand(checkcommand.NewCheckCommand(&cfgFile))
	rootCmd.AddCommand(versioncommand.NewVersionCommand())

	return rootCmd
}

func addRunFlags(flags *pflag.FlagSet, opts *backupservice.RunOptions) {
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "pass per-file progress reporting through to rsync")
	flags.BoolVarP(&opts.DryRun, "dry-run", "d", false, "simulate the backup without modifying the destination")
}

func runBackup(ctx context.Context, cfgFile string, opts backupservice.RunOptions) error {
	// Failures before the session logger exists only reach stderr.
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logDir := cfg.LogDir
	if logDir == "" {
		if logDir, err = logging.DefaultDir(); err != nil {
			return err
		}
	}
	sess, err := logging.NewSession(logDir)
	if err != nil {
		return err
	}
	defer sess.Close()

	// No explicit cleanup on interrupt: rsync is killed via the context
	// and the run is reported as failed.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess.Infof("backing up %s to %s", cfg.SourceDir, cfg.BackupDir)
	svc := backupservice.New(*cfg, opts, sess.Logger, sess.FileWriter())

	stopSpinner := spinner.Start("Backing up " + cfg.SourceDir + " ...")
	err = svc.Execute(ctx)
	stopSpinner()

	if err != nil {
		sess.Error(err)
		return apperrors.MarkLogged(err)
	}

	if opts.DryRun {
		fmt.Printf("Dry run complete, nothing was changed. Session log: %s\n", sess.Path())
	} else {
		fmt.Printf("Backup completed successfully. Session log: %s\n", sess.Path())
	}
	return nil
}
