package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"igris/internal/auth"
	"igris/internal/config"
	"igris/internal/orchestrate"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and update the auth policy",
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective auth policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolvePaths()
		p := config.LoadPolicy(policyPath)

		fmt.Printf("enforcement:      %t\n", p.FingerprintRequired)
		fmt.Printf("pin configured:   %t\n", p.AdminPINHash != "")
		if len(p.EnforceOnTasks) > 0 {
			fmt.Printf("always enforced:  %s\n", strings.Join(p.EnforceOnTasks, ", "))
		}
		if len(p.BlockedPhrases) > 0 {
			fmt.Printf("blocked phrases:  %s\n", strings.Join(p.BlockedPhrases, ", "))
		}
		return nil
	},
}

var policySetPINCmd = &cobra.Command{
	Use:   "set-pin",
	Short: "Set the admin PIN",
	Long: `Reads a PIN from stdin, stores its SHA-256 hash in the policy file,
and enables admin-gate enforcement. The PIN itself is never written to disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolvePaths()
		session := orchestrate.NewSession(identityPath, policyPath)

		fmt.Print("New admin PIN: ")
		reader := bufio.NewReader(os.Stdin)
		pin, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read PIN: %w", err)
		}
		pin = strings.TrimSpace(pin)
		if pin == "" {
			return fmt.Errorf("PIN must not be empty")
		}

		p := session.Policy()
		p.AdminPINHash = auth.HashPIN(pin)
		p.FingerprintRequired = true
		if err := session.SavePolicy(p); err != nil {
			return fmt.Errorf("save policy: %w", err)
		}
		fmt.Println("Admin PIN updated; enforcement enabled.")
		return nil
	},
}

func init() {
	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policySetPINCmd)
}
