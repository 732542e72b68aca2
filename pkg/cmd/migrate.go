package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/indicalc/pkg/cmd/cmdutil"
)

func init() {
	RootCmd.AddCommand(MigrateCmd)
}

var MigrateCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "apply the pending schema migrations",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := cmdutil.ConnectDatabase(ctx, conf.Database)
		if err != nil {
			return err
		}

		defer db.Close()

		if err := db.Upgrade(ctx); err != nil {
			return err
		}

		log.Infof("%s database is up to date", conf.Database.Driver)
		return nil
	},
}
