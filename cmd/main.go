package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vnkhanh/visa-rent-server/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "visa-rent",
		Short:         "Vietnam visa consulting and apartment rental backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			config.SetupLogger(cfg)
			logrus.WithField("command", cmd.Name()).Debug("starting")
			return nil
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateAdminCmd(), newHashPasswordCmd())
	return root
}
