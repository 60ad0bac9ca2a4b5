package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartmcq/smartmcq/internal/auth"
	"github.com/smartmcq/smartmcq/internal/config"
	"github.com/smartmcq/smartmcq/internal/db"
	"github.com/smartmcq/smartmcq/internal/rbac"
)

// User returns the user command group.
func User() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage local users",
	}
	cmd.AddCommand(userAdd())
	return cmd
}

func userAdd() *cobra.Command {
	var username, password, role string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a local user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			h, err := db.Open(cmd.Context(), db.Driver(cfg.DBDriver), cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer h.Close()

			u, err := auth.NewUsers(h).Create(cmd.Context(), username, password, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", rbac.RoleTeacher, "student, teacher or admin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
