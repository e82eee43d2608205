package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/billing"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/money"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show portfolio totals and revenue by month",
	Long: `Sum the billing snapshots of every contract and bucket the recorded
payments by the calendar month they were received in.`,
	Example: `  crm portfolio
  crm portfolio --input export.json --json`,
	Args: cobra.NoArgs,
	RunE: runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("portfolio")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := appConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	src, closeSrc, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	contracts, err := src.Contracts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read contracts: %w", err)
	}
	payments, err := src.Payments(ctx)
	if err != nil {
		return fmt.Errorf("failed to read payments: %w", err)
	}

	totals := billing.Portfolio(contracts, billing.GroupPayments(payments))
	revenue := billing.RevenueByMonth(payments, billing.VATRates(contracts))

	log.Info().
		Int("contracts", totals.Contracts).
		Int("payments", len(payments)).
		Int("months", len(revenue)).
		Msg("Portfolio computed")

	if jsonOutput {
		return printJSON(map[string]interface{}{
			"totals":         totals,
			"revenueByMonth": revenue,
		})
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Portefeuille: %d contrats\n", totals.Contracts)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("%-14s %14s %14s\n", "", "HT", "TTC")
	printAmountLine("Engagement", totals.EngagementHT, totals.EngagementTTC)
	printAmountLine("Payé", totals.PaidHT, totals.PaidTTC)
	printAmountLine("Reste dû", totals.RemainingHT, totals.RemainingTTC)

	if len(revenue) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("=== ENCAISSEMENTS PAR MOIS ===")
	fmt.Printf("%-10s %14s %14s %10s\n", "Mois", "HT", "TTC", "Paiements")
	for _, m := range revenue {
		fmt.Printf("%-10s %14s %14s %10d\n", m.MonthKey, money.Format(&m.HT), money.Format(&m.TTC), m.Payments)
	}

	return nil
}
