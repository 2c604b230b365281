package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/foliokit/folio/cmd/folioctl/cmd"
	"github.com/foliokit/folio/internal/config"
	"github.com/foliokit/folio/internal/logger"
)

func main() {
	cfg := config.Load()
	flush := logger.Init(logger.Options{
		Service:     cfg.AppName,
		Environment: cfg.AppEnv,
		Development: cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
	})
	defer flush()

	rootCmd := &cobra.Command{
		Use:          "folioctl",
		Short:        "Administration tools for folio",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd(cfg))
	rootCmd.AddCommand(cmd.CreateAdminCmd(cfg))

	err := rootCmd.Execute()
	if err != nil {
		flush()
		os.Exit(1)
	}
}
