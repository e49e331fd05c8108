package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"igris/internal/audit"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent audit ledger entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolvePaths()
		ledger, err := audit.Open(filepath.Join(configDir, "audit.db"))
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer ledger.Close()

		entries, err := ledger.Recent(auditLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Ledger is empty.")
			return nil
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s  %-8s  %-18s  %s",
				e.Timestamp.Local().Format(time.DateTime), e.Kind, e.Outcome, e.Action)
			if e.Task != "" {
				line += fmt.Sprintf("  (task %s)", e.Task)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "number of entries to show")
}
