package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/config"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/money"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/relance"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/services"
)

var relancesCmd = &cobra.Command{
	Use:   "relances",
	Short: "List unpaid contracts with their reminder level",
	Long: `List the contracts without any recorded payment and classify each one
into a reminder level from the number of days elapsed since its last manual
reminder, or since its signature when it was never reminded.

Levels:
  none   fewer than t1 days
  tier1  from t1 days
  tier2  from t2 days
  tier3  exactly t3 days
  tier4  more than t3 days

Thresholds come from the agency settings, can be overridden with
RELANCE_T1/RELANCE_T2/RELANCE_T3 and then with --t1/--t2/--t3, and default
to 7/14/30 days.`,
	Example: `  crm relances
  crm relances --today 2024-06-30 --t1 5 --json`,
	Args: cobra.NoArgs,
	RunE: runRelances,
}

func init() {
	rootCmd.AddCommand(relancesCmd)
	addThresholdFlags(relancesCmd)
}

func runRelances(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	today, err := parseToday(cmd)
	if err != nil {
		return err
	}

	cfg := appConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	src, closeSrc, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	list, thresholds, err := buildRelances(ctx, cmd, src, cfg, today)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]interface{}{
			"today":      today.Format("2006-01-02"),
			"thresholds": thresholds,
			"candidates": list.Candidates,
			"skipped":    list.Skipped,
		})
	}

	outputRelancesConsole(list, thresholds, today)
	return nil
}

// buildRelances reads contracts, payments and thresholds from src and
// computes the reminder list as of today.
func buildRelances(ctx context.Context, cmd *cobra.Command, src services.Source, cfg *config.Config, today time.Time) (relance.List, relance.Thresholds, error) {
	log := logger.WithComponent("relances")

	thresholds, err := resolveThresholds(ctx, cmd, src, cfg)
	if err != nil {
		return relance.List{}, relance.Thresholds{}, err
	}

	contracts, err := src.Contracts(ctx)
	if err != nil {
		return relance.List{}, relance.Thresholds{}, fmt.Errorf("failed to read contracts: %w", err)
	}
	payments, err := src.Payments(ctx)
	if err != nil {
		return relance.List{}, relance.Thresholds{}, fmt.Errorf("failed to read payments: %w", err)
	}

	list := relance.BuildList(contracts, payments, thresholds, today)

	for _, id := range list.Skipped {
		log.Warn().
			Str("contract_id", id).
			Msg("Unpaid contract has neither signature nor reminder date, skipped")
	}

	counts := relance.CountByLevel(list.Candidates)
	log.Info().
		Str("today", today.Format("2006-01-02")).
		Int("t1", thresholds.T1).
		Int("t2", thresholds.T2).
		Int("t3", thresholds.T3).
		Int("candidates", len(list.Candidates)).
		Int("tier4", counts[relance.LevelTier4]).
		Int("skipped", len(list.Skipped)).
		Msg("Reminder list computed")

	return list, thresholds, nil
}

func outputRelancesConsole(list relance.List, t relance.Thresholds, today time.Time) {
	fmt.Println(strings.Repeat("=", 96))
	fmt.Printf("Relances au %s (seuils %d/%d/%d jours)\n", today.Format("02/01/2006"), t.T1, t.T2, t.T3)
	fmt.Println(strings.Repeat("=", 96))

	if len(list.Candidates) == 0 {
		fmt.Println("Aucun contrat impayé.")
	} else {
		fmt.Printf("%-36s  %-24s  %-6s  %6s  %-10s  %14s\n", "Contrat", "Client", "Niveau", "Jours", "Depuis", "Reste dû TTC")
		for _, c := range list.Candidates {
			since := c.ReferenceDate.Format("02/01/2006")
			if c.FromManual {
				since += "*"
			}
			remaining := c.RemainingTTC
			fmt.Printf("%-36s  %-24s  %-6s  %6d  %-10s  %14s\n",
				c.ContractID, truncate(c.ClientName, 24), c.Level, c.ElapsedDays, since, money.Format(&remaining))
		}
		fmt.Println()
		fmt.Println("* date de la dernière relance manuelle")
	}

	if len(list.Skipped) > 0 {
		fmt.Printf("\n%d contrat(s) ignoré(s) sans date de signature: %s\n", len(list.Skipped), strings.Join(list.Skipped, ", "))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
