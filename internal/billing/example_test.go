package billing_test

import (
	"fmt"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/billing"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

// Example computes the position of a one-shot contract paid in part.
func Example() {
	amount := 1000.0
	rate := 20.0
	paid := 600.0

	contract := models.Contract{
		ID:              "website-redesign",
		BillingModel:    models.BillingOneShot,
		AmountOneShotHT: &amount,
		VATRate:         &rate,
	}
	payments := []models.Payment{
		{ContractID: contract.ID, AmountTTC: &paid},
	}

	s := billing.ComputeSnapshot(contract, payments)

	fmt.Printf("engagement: %.2f HT / %.2f TTC\n", s.EngagementHT, s.EngagementTTC)
	fmt.Printf("paid:       %.2f HT / %.2f TTC\n", s.PaidHT, s.PaidTTC)
	fmt.Printf("remaining:  %.2f HT / %.2f TTC\n", s.RemainingHT, s.RemainingTTC)
	// Output:
	// engagement: 1000.00 HT / 1200.00 TTC
	// paid:       500.00 HT / 600.00 TTC
	// remaining:  500.00 HT / 600.00 TTC
}
