package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/billing"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/money"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/store"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [contract-id]",
	Short: "Show the billing snapshot of one contract",
	Long: `Compute the financial position of a contract from its billing terms
and recorded payments: total engagement, amount paid and amount remaining,
excluding (HT) and including (TTC) VAT.

The snapshot is recomputed on every call and never stored.`,
	Example: `  # Snapshot from the backend database
  crm snapshot 6f1c2a8e-4b7d-4e0a-9c1f-2d3e4f5a6b7c

  # Snapshot from an export, as JSON
  crm snapshot 6f1c2a8e-4b7d-4e0a-9c1f-2d3e4f5a6b7c --input export.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid contract id %q: %w", args[0], err)
	}
	contractID := id.String()

	log := logger.WithContract("snapshot", contractID)
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := appConfig()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	src, closeSrc, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	contract, err := src.Contract(ctx, contractID)
	if err != nil {
		if errors.Is(err, store.ErrContractNotFound) {
			return fmt.Errorf("contract %s not found", contractID)
		}
		return fmt.Errorf("failed to read contract: %w", err)
	}

	payments, err := src.PaymentsForContract(ctx, contractID)
	if err != nil {
		return fmt.Errorf("failed to read payments: %w", err)
	}

	snapshot := billing.ComputeSnapshot(*contract, payments)

	log.Info().
		Int("payments", len(payments)).
		Float64("remaining_ttc", snapshot.RemainingTTC).
		Msg("Snapshot computed")

	if jsonOutput {
		return printJSON(map[string]interface{}{
			"contract": contract,
			"snapshot": snapshot,
		})
	}
	outputSnapshotConsole(*contract, snapshot, len(payments))
	return nil
}

func outputSnapshotConsole(c models.Contract, s billing.Snapshot, payments int) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Contrat %s\n", c.ID)
	fmt.Println(strings.Repeat("=", 60))

	if c.Reference != "" {
		fmt.Printf("Référence: %s\n", c.Reference)
	}
	if c.ClientName != "" {
		fmt.Printf("Client: %s\n", c.ClientName)
	}
	fmt.Printf("Modèle: %s", c.BillingModel)
	if s.TotalMonths > 0 {
		fmt.Printf(" (%d mois)", s.TotalMonths)
	}
	fmt.Println()
	fmt.Printf("TVA: %s %%\n", money.Format(c.VATRate))
	fmt.Printf("Paiements: %d\n", payments)
	fmt.Println()

	fmt.Printf("%-14s %14s %14s\n", "", "HT", "TTC")
	printAmountLine("Engagement", s.EngagementHT, s.EngagementTTC)
	printAmountLine("Dû", s.DueHT, s.DueTTC)
	printAmountLine("Payé", s.PaidHT, s.PaidTTC)
	printAmountLine("Reste dû", s.RemainingHT, s.RemainingTTC)
}

func printAmountLine(label string, ht, ttc float64) {
	fmt.Printf("%-14s %14s %14s\n", label, money.Format(&ht), money.Format(&ttc))
}
