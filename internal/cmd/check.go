package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Ping MongoDB and print the database status",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	_, _, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	if err := db.HealthCheck(ctx); err != nil {
		return err
	}
	st, err := db.Status(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
