package relance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

func daysAgo(today time.Time, n int) *time.Time {
	t := today.AddDate(0, 0, -n)
	return &t
}

func amount(v float64) *float64 { return &v }

func TestBuildList(t *testing.T) {
	today := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)

	contracts := []models.Contract{
		{ID: "fresh", ClientName: "Boulangerie Martin", SignatureDate: daysAgo(today, 3)},
		{ID: "paid", SignatureDate: daysAgo(today, 90)},
		{
			ID:              "late",
			ClientName:      "Garage Dupont",
			BillingModel:    models.BillingOneShot,
			AmountOneShotHT: amount(1000),
			SignatureDate:   daysAgo(today, 45),
		},
		{ID: "exact", SignatureDate: daysAgo(today, 30)},
		{
			ID:            "reminded",
			SignatureDate: daysAgo(today, 60),
			RelanceStatus: models.Relance1,
			RelanceDate:   daysAgo(today, 8),
		},
		{ID: "undated"},
	}
	payments := []models.Payment{
		{ContractID: "paid"},
	}

	list := BuildList(contracts, payments, DefaultThresholds(), today)

	require.Len(t, list.Candidates, 4)
	assert.Equal(t, []string{"undated"}, list.Skipped)

	ids := make([]string, len(list.Candidates))
	for i, c := range list.Candidates {
		ids[i] = c.ContractID
	}
	assert.Equal(t, []string{"late", "exact", "reminded", "fresh"}, ids)

	late := list.Candidates[0]
	assert.Equal(t, 45, late.ElapsedDays)
	assert.Equal(t, LevelTier4, late.Level)
	assert.Equal(t, models.RelanceNone, late.Status)
	assert.False(t, late.FromManual)
	assert.InDelta(t, 1200.0, late.RemainingTTC, 1e-9)

	assert.Equal(t, LevelTier3, list.Candidates[1].Level)

	reminded := list.Candidates[2]
	assert.Equal(t, 8, reminded.ElapsedDays)
	assert.Equal(t, LevelTier1, reminded.Level)
	assert.True(t, reminded.FromManual)
	assert.Equal(t, models.Relance1, reminded.Status)

	assert.Equal(t, LevelNone, list.Candidates[3].Level)

	counts := CountByLevel(list.Candidates)
	assert.Equal(t, map[Level]int{LevelNone: 1, LevelTier1: 1, LevelTier3: 1, LevelTier4: 1}, counts)
}

func TestBuildList_Empty(t *testing.T) {
	list := BuildList(nil, nil, DefaultThresholds(), time.Now())

	assert.NotNil(t, list.Candidates)
	assert.Empty(t, list.Candidates)
	assert.Empty(t, list.Skipped)
}

func TestBuildList_PaymentWithoutAmountStillExcludes(t *testing.T) {
	today := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	contracts := []models.Contract{{ID: "a", SignatureDate: daysAgo(today, 40)}}
	payments := []models.Payment{{ContractID: "a", AmountHT: nil, AmountTTC: nil}}

	list := BuildList(contracts, payments, DefaultThresholds(), today)

	assert.Empty(t, list.Candidates)

	zero := 0.0
	payments = []models.Payment{{ContractID: "a", AmountHT: &zero}}

	list = BuildList(contracts, payments, DefaultThresholds(), today)

	assert.Empty(t, list.Candidates, "a zero payment still counts as a payment")
	assert.Empty(t, list.Skipped)
}

func TestBuildList_ElapsedDaysMatchesContract(t *testing.T) {
	today := time.Date(2024, 9, 1, 18, 30, 0, 0, time.UTC)
	contracts := []models.Contract{
		{ID: "signed", SignatureDate: daysAgo(today, 20)},
		{ID: "reminded", SignatureDate: daysAgo(today, 60), RelanceDate: daysAgo(today, 9)},
	}

	list := BuildList(contracts, nil, DefaultThresholds(), today)

	require.Len(t, list.Candidates, 2)
	for _, cand := range list.Candidates {
		for _, c := range contracts {
			if c.ID != cand.ContractID {
				continue
			}
			want, ok := ElapsedDays(c, today)
			require.True(t, ok)
			assert.Equal(t, want, cand.ElapsedDays, c.ID)
		}
	}
	assert.Equal(t, "signed", list.Candidates[0].ContractID)
	assert.True(t, list.Candidates[1].FromManual)
	assert.Equal(t, 9, list.Candidates[1].ElapsedDays)
}
