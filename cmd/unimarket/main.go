package main

import (
	"os"

	"github.com/spf13/cobra"

	"unimarket/internal/interfaces/cli/migrate"
	"unimarket/internal/interfaces/cli/server"
)

// @title			UniMarket Billing API
// @version		1.0
// @description	Subscription billing and recurring payment reconciliation service
// @BasePath		/api/v1
func main() {
	rootCmd := &cobra.Command{
		Use:   "unimarket",
		Short: "UniMarket - subscription billing service",
		Long:  `UniMarket billing service: payment gateway integration, notification reconciliation and recurring charge tooling.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
