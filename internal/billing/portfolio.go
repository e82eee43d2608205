package billing

import (
	"sort"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/money"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

const monthKeyLayout = "2006-01"

// Totals aggregates the snapshots of several contracts.
type Totals struct {
	Contracts     int     `json:"contracts"`
	EngagementHT  float64 `json:"engagementTotalHt"`
	EngagementTTC float64 `json:"engagementTotalTtc"`
	PaidHT        float64 `json:"paidHt"`
	PaidTTC       float64 `json:"paidTtc"`
	RemainingHT   float64 `json:"resteDuHt"`
	RemainingTTC  float64 `json:"resteDuTtc"`
}

// MonthlyRevenue is the amount collected during one calendar month.
type MonthlyRevenue struct {
	MonthKey string  `json:"monthKey"`
	HT       float64 `json:"ht"`
	TTC      float64 `json:"ttc"`
	Payments int     `json:"payments"`
}

// GroupPayments indexes payments by contract id.
func GroupPayments(payments []models.Payment) map[string][]models.Payment {
	grouped := make(map[string][]models.Payment)
	for _, p := range payments {
		grouped[p.ContractID] = append(grouped[p.ContractID], p)
	}
	return grouped
}

// Portfolio sums the snapshot of every contract.
func Portfolio(contracts []models.Contract, paymentsByContract map[string][]models.Payment) Totals {
	var t Totals
	for _, c := range contracts {
		s := ComputeSnapshot(c, paymentsByContract[c.ID])
		t.Contracts++
		t.EngagementHT += s.EngagementHT
		t.EngagementTTC += s.EngagementTTC
		t.PaidHT += s.PaidHT
		t.PaidTTC += s.PaidTTC
		t.RemainingHT += s.RemainingHT
		t.RemainingTTC += s.RemainingTTC
	}
	return t
}

// RevenueByMonth buckets payments by the month they were received in. The
// VAT rate of each payment's contract is looked up in rates; payments of an
// unknown contract use the default rate. Payments without a date are skipped.
func RevenueByMonth(payments []models.Payment, rates map[string]*float64) []MonthlyRevenue {
	buckets := make(map[string]*MonthlyRevenue)
	for _, p := range payments {
		if p.PaymentDate == nil {
			continue
		}
		key := p.PaymentDate.Format(monthKeyLayout)
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyRevenue{MonthKey: key}
			buckets[key] = b
		}
		ht, ttc := PaymentAmounts(p, money.RateOrDefault(rates[p.ContractID]))
		b.HT += ht
		b.TTC += ttc
		b.Payments++
	}

	months := make([]MonthlyRevenue, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, *b)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].MonthKey < months[j].MonthKey
	})
	return months
}

// VATRates indexes contract VAT rates by contract id.
func VATRates(contracts []models.Contract) map[string]*float64 {
	rates := make(map[string]*float64, len(contracts))
	for _, c := range contracts {
		rates[c.ID] = c.VATRate
	}
	return rates
}
