package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/foliokit/folio/internal/config"
	"github.com/foliokit/folio/internal/db"
	"github.com/foliokit/folio/internal/repository"
	"github.com/foliokit/folio/internal/service"
)

func CreateAdminCmd(cfg *config.Config) *cobra.Command {
	var username, email, password string

	createCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator account directly in the database.

Unlike POST /auth/register this works even when an administrator already
exists. The password is read from --password or, when omitted, from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			return withDB(cfg, func(database *sqlx.DB) error {
				err := db.RunMigrations(database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}

				auth := service.NewAuthService(repository.NewUserRepository(database), cfg.JWTSecret, cfg.JWTExpiry)
				user, err := auth.CreateAdmin(username, email, password)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s <%s> (%s)\n", user.Username, user.Email, user.ID)
				return nil
			})
		},
	}

	createCmd.Flags().StringVar(&username, "username", "", "Admin username")
	createCmd.Flags().StringVar(&email, "email", os.Getenv("ADMIN_EMAIL"), "Admin email (or set ADMIN_EMAIL env)")
	createCmd.Flags().StringVar(&password, "password", "", "Admin password (prompted when omitted)")
	_ = createCmd.MarkFlagRequired("username")

	return createCmd
}
