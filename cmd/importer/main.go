package main

import (
	"context"
	"fmt"
	"os"

	"github.com/berry-ledger/internal/config"
	"github.com/berry-ledger/internal/data/postgres"
	"github.com/berry-ledger/internal/importer"
	"github.com/berry-ledger/internal/ledger"
	"github.com/berry-ledger/internal/logger"
	"github.com/berry-ledger/internal/platform/persistence"
	"github.com/spf13/cobra"
)

var (
	filePath      string
	sourceAccount string
	configName    string
)

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Import a credit card CSV statement into the ledger",
	Long: `Reads a credit card CSV export (date, title, amount, optional category)
and creates one ledger transaction per row, moving each amount from the
source account to a destination account named after the row title.
Accounts are created on demand.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&filePath, "file", "f", "", "path to the CSV file")
	rootCmd.Flags().StringVarP(&sourceAccount, "source-account", "s", "", "name of the account the amounts are drawn from")
	rootCmd.Flags().StringVar(&configName, "config", "importer", "name of the env config file to load")
	_ = rootCmd.MarkFlagRequired("file")
	_ = rootCmd.MarkFlagRequired("source-account")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(configName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg)

	postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer postgresDB.Close()

	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	postingRepo := postgres.NewPostingRepository(log, postgresDB)
	ledgerService := ledger.NewService(postgresDB, accountRepo, postingRepo, nil, log)

	imp, err := importer.NewImporter(log, ledgerService, cfg.Importer.WorkerPoolSize)
	if err != nil {
		return err
	}
	defer imp.Close()

	result, err := imp.ImportFile(ctx, filePath, sourceAccount)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d transactions (%d rows skipped)\n", result.Imported, result.Failed)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
