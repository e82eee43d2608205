// Package billing derives the financial position of contracts from their
// billing terms and recorded payments.
//
// Snapshots are always recomputed from the current contract and payment rows
// and are never stored. All functions are pure and safe for concurrent use.
package billing

import (
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/money"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

// Snapshot is the financial position of one contract. Amounts suffixed HT
// exclude VAT, amounts suffixed TTC include it.
type Snapshot struct {
	TotalMonths   int `json:"nbMoisTotal"`
	MonthsElapsed int `json:"nbMoisEcoules"`

	EngagementHT  float64 `json:"engagementTotalHt"`
	EngagementTTC float64 `json:"engagementTotalTtc"`

	DueHT  float64 `json:"duHt"`
	DueTTC float64 `json:"duTtc"`

	PaidHT  float64 `json:"paidHt"`
	PaidTTC float64 `json:"paidTtc"`

	// Remaining amounts are negative on overpayment.
	RemainingHT  float64 `json:"resteDuHt"`
	RemainingTTC float64 `json:"resteDuTtc"`

	FutureEngagementHT  float64 `json:"engagementFuturHt"`
	FutureEngagementTTC float64 `json:"engagementFuturTtc"`
}

// ComputeSnapshot computes the engagement, paid and remaining totals of a
// contract. Unknown amounts count as zero.
func ComputeSnapshot(c models.Contract, payments []models.Payment) Snapshot {
	rate := money.RateOrDefault(c.VATRate)

	engagementHT := Engagement(c)
	engagementTTC := money.ToTTC(engagementHT, rate)

	paidHT, paidTTC := Paid(payments, rate)

	// Accrual over time is not implemented yet: nothing is considered
	// elapsed and no engagement is deferred to the future.
	monthsElapsed := 0
	futureHT, futureTTC := 0.0, 0.0

	return Snapshot{
		TotalMonths:         commitmentMonths(c),
		MonthsElapsed:       monthsElapsed,
		EngagementHT:        engagementHT,
		EngagementTTC:       engagementTTC,
		DueHT:               engagementHT - futureHT,
		DueTTC:              engagementTTC - futureTTC,
		PaidHT:              paidHT,
		PaidTTC:             paidTTC,
		RemainingHT:         engagementHT - paidHT,
		RemainingTTC:        engagementTTC - paidTTC,
		FutureEngagementHT:  futureHT,
		FutureEngagementTTC: futureTTC,
	}
}

// Engagement returns the total engagement of a contract, excl. VAT, according
// to its billing model. When the model yields nothing but a base amount is
// set, the base amount wins.
func Engagement(c models.Contract) float64 {
	oneShot := money.OrZero(c.AmountOneShotHT)
	monthly := money.OrZero(c.AmountMonthlyHT)
	base := money.OrZero(c.AmountHT)
	months := float64(commitmentMonths(c))

	var ht float64
	switch c.BillingModel {
	case models.BillingOneShot:
		ht = oneShot
		if ht == 0 {
			ht = base
		}
	case models.BillingRecurring:
		ht = monthly * months
	case models.BillingMixed:
		ht = oneShot + monthly*months
	}

	if ht == 0 && base != 0 {
		ht = base
	}
	return ht
}

// Paid sums payments excl. and incl. VAT. A payment missing one side is
// converted from the other with rate; a payment missing both counts as zero.
func Paid(payments []models.Payment, rate float64) (ht, ttc float64) {
	for _, p := range payments {
		pht, pttc := PaymentAmounts(p, rate)
		ht += pht
		ttc += pttc
	}
	return ht, ttc
}

// PaymentAmounts returns the HT and TTC amounts of a single payment.
func PaymentAmounts(p models.Payment, rate float64) (ht, ttc float64) {
	switch {
	case p.AmountTTC != nil:
		ttc = *p.AmountTTC
	case p.AmountHT != nil:
		ttc = money.ToTTC(*p.AmountHT, rate)
	}

	switch {
	case p.AmountHT != nil:
		ht = *p.AmountHT
	case p.AmountTTC != nil:
		ht = money.ToHT(*p.AmountTTC, rate)
	}
	return ht, ttc
}

func commitmentMonths(c models.Contract) int {
	if c.CommitmentMonths == nil {
		return 0
	}
	return *c.CommitmentMonths
}
