package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/outperform/internal/audit"
	"github.com/wonny/outperform/pkg/database"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Audit store maintenance",
	Long: `Checks and prepares the PostgreSQL audit store configured by DATABASE_URL.

Example:
  go run ./cmd/outperform db ping
  go run ./cmd/outperform db migrate`,
}

var dbPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check audit store connectivity",
	RunE:  runDBPing,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the audit schema if missing",
	RunE:  runDBMigrate,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbPingCmd)
	dbCmd.AddCommand(dbMigrateCmd)
}

func runDBPing(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	db, err := database.New(cmd.Context(), a.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := db.HealthCheck(cmd.Context())
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, status)
	}

	PrintHeader(out, "Audit store")
	PrintKeyValue(out, "URL", maskPassword(a.cfg.Database.URL), 14)
	PrintKeyValue(out, "Server time", status.ServerTime.Format("2006-01-02 15:04:05 MST"), 14)
	PrintKeyValue(out, "Response time", status.ResponseTime.String(), 14)
	PrintKeyValue(out, "Connections", fmt.Sprintf("%d total / %d idle / %d max",
		status.Stats.TotalConns, status.Stats.IdleConns, status.Stats.MaxConns), 14)
	PrintSuccess(out, "database reachable")
	return nil
}

func runDBMigrate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	db, err := database.New(cmd.Context(), a.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := audit.NewRepository(db.Pool).EnsureSchema(cmd.Context()); err != nil {
		return err
	}

	a.log.Info("Audit schema ready")
	PrintSuccess(cmd.OutOrStdout(), "audit.model_runs ready")
	return nil
}
