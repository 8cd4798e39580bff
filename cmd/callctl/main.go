package main

import (
	"context"
	"fmt"
	"os"

	"sales_call_app_go/config"
	"sales_call_app_go/db"
	"sales_call_app_go/models"
	"sales_call_app_go/services"

	"github.com/spf13/cobra"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "callctl",
	Short:         "Inspect and export sales call records from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")
	rootCmd.PersistentFlags().String("rm", config.DefaultRMCode, "RM code whose records to use")

	rootCmd.AddCommand(customersCmd, summaryCmd, exportCmd, activityCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// openStore loads the configured customer and call-log files without writing
// to either of them
func openStore(ctx context.Context, cfg *config.Config) (*services.RecordStore, error) {
	store := services.NewRecordStore(services.InitializeStorage(cfg), services.RecordStoreOptions{
		CustomersKey: cfg.CustomersFile,
		CallLogKey:   cfg.CallLogFile,
		ReadOnly:     true,
	})
	report, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	for _, w := range report.Warnings {
		printWarning("%s", w)
	}
	return store, nil
}

// openAuditDB opens the session database the server writes the audit trail to
func openAuditDB(cfg *config.Config) error {
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		return err
	}
	return db.AutoMigrate(&models.AuditLog{})
}

func rmFlag(cmd *cobra.Command) string {
	rm, _ := cmd.Flags().GetString("rm")
	return rm
}
