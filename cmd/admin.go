package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vnkhanh/visa-rent-server/config"
	"github.com/vnkhanh/visa-rent-server/services"
	"github.com/vnkhanh/visa-rent-server/utils"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.Database()
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			logrus.Info("migration complete")
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Insert an admin user with a bcrypt-hashed password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			db, err := config.Database()
			if err != nil {
				return err
			}
			u, err := services.CreateUser(db, email, password, name)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			logrus.WithFields(logrus.Fields{"id": u.ID, "email": u.Email}).Info("admin created")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash suitable for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
