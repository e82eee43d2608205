package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/delay"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/services"
)

var delaysCmd = &cobra.Command{
	Use:   "delays",
	Short: "Show first-payment delay statistics",
	Long: `Measure how many days clients take between signing a contract and
paying for it the first time. Only the earliest payment of each contract
counts. Statistics are reported globally and by month of first payment.`,
	Example: `  crm delays
  crm delays --input export.json --json`,
	Args: cobra.NoArgs,
	RunE: runDelays,
}

func init() {
	rootCmd.AddCommand(delaysCmd)
}

func runDelays(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := appConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	src, closeSrc, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	stats, err := buildDelays(ctx, src)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(stats)
	}

	outputDelaysConsole(stats)
	return nil
}

// buildDelays computes first-payment delay statistics over every contract.
func buildDelays(ctx context.Context, src services.Source) (delay.Stats, error) {
	log := logger.WithComponent("delays")

	contracts, err := src.Contracts(ctx)
	if err != nil {
		return delay.Stats{}, fmt.Errorf("failed to read contracts: %w", err)
	}
	payments, err := src.Payments(ctx)
	if err != nil {
		return delay.Stats{}, fmt.Errorf("failed to read payments: %w", err)
	}

	stats := delay.ComputeStats(delay.JoinRows(contracts, payments))

	log.Info().
		Int("contracts", stats.Global.Count).
		Int("months", len(stats.ByMonth)).
		Msg("Delay statistics computed")

	return stats, nil
}

func outputDelaysConsole(stats delay.Stats) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Délais de premier paiement")
	fmt.Println(strings.Repeat("=", 60))

	g := stats.Global
	if g.Count == 0 {
		fmt.Println("Aucun contrat signé et payé.")
		return
	}

	fmt.Printf("Contrats: %d\n", g.Count)
	fmt.Printf("Moyenne:  %.1f jours\n", *g.Mean)
	fmt.Printf("Médiane:  %.1f jours\n", *g.Median)
	fmt.Printf("Min/Max:  %d / %d jours\n", *g.Min, *g.Max)
	fmt.Println()

	fmt.Println("=== PAR MOIS DE PREMIER PAIEMENT ===")
	fmt.Printf("%-10s %12s %10s\n", "Mois", "Moyenne (j)", "Contrats")
	for _, m := range stats.ByMonth {
		fmt.Printf("%-10s %12.1f %10d\n", m.MonthKey, m.MeanDelay, m.Count)
	}
}
