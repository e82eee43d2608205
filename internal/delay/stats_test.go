package delay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(*date("2024-03-01"), *date("2024-03-01")))
	assert.Equal(t, 5, DaysBetween(*date("2024-03-01"), *date("2024-03-06")))
	assert.Equal(t, -3, DaysBetween(*date("2024-03-06"), *date("2024-03-03")))
	assert.Equal(t, 29, DaysBetween(*date("2024-02-01"), *date("2024-03-01")), "leap year february")

	// time of day is ignored
	morning := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(morning, evening))

	// dates are read in their own location
	cet := time.FixedZone("CET", 3600)
	signed := time.Date(2024, 3, 30, 0, 30, 0, 0, cet)
	paid := time.Date(2024, 4, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetween(signed, paid))
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Nil(t, stats.Global.Mean)
	assert.Nil(t, stats.Global.Median)
	assert.Nil(t, stats.Global.Min)
	assert.Nil(t, stats.Global.Max)
	assert.Equal(t, 0, stats.Global.Count)
	assert.Empty(t, stats.ByMonth)
}

func TestComputeStats_SkipsRowsWithoutDates(t *testing.T) {
	stats := ComputeStats([]Row{
		{ContractID: "a", SignatureDate: nil, PaymentDate: date("2024-01-10")},
		{ContractID: "b", SignatureDate: date("2024-01-01"), PaymentDate: nil},
	})

	assert.Nil(t, stats.Global.Mean)
	assert.Equal(t, 0, stats.Global.Count)
	assert.Empty(t, stats.ByMonth)
}

func TestComputeStats_KeepsFirstPaymentPerContract(t *testing.T) {
	rows := []Row{
		{ContractID: "a", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-02-15")},
		{ContractID: "a", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-11")},
		{ContractID: "a", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-03-01")},
	}

	delays := FirstPayments(rows)
	require.Len(t, delays, 1)
	assert.Equal(t, 10, delays[0].Days)
	assert.Equal(t, *date("2024-01-11"), delays[0].FirstPaymentDate)

	stats := ComputeStats(rows)
	require.NotNil(t, stats.Global.Mean)
	assert.Equal(t, 10.0, *stats.Global.Mean)
	assert.Equal(t, 1, stats.Global.Count)
	require.Len(t, stats.ByMonth, 1)
	assert.Equal(t, "2024-01", stats.ByMonth[0].MonthKey)
}

func TestComputeStats_Median(t *testing.T) {
	odd := ComputeStats([]Row{
		{ContractID: "a", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-02")},
		{ContractID: "b", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-04")},
		{ContractID: "c", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-03")},
	})
	require.NotNil(t, odd.Global.Median)
	assert.Equal(t, 2.0, *odd.Global.Median)

	even := ComputeStats([]Row{
		{ContractID: "a", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-02")},
		{ContractID: "b", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-05")},
		{ContractID: "c", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-03")},
		{ContractID: "d", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-04")},
	})
	require.NotNil(t, even.Global.Median)
	assert.Equal(t, 2.5, *even.Global.Median)
	assert.Equal(t, 1, *even.Global.Min)
	assert.Equal(t, 4, *even.Global.Max)
	assert.Equal(t, 2.5, *even.Global.Mean)
}

func TestComputeStats_NegativeDelay(t *testing.T) {
	stats := ComputeStats([]Row{
		{ContractID: "a", SignatureDate: date("2024-05-10"), PaymentDate: date("2024-05-07")},
	})

	require.NotNil(t, stats.Global.Min)
	assert.Equal(t, -3, *stats.Global.Min)
	assert.Equal(t, -3.0, stats.ByMonth[0].MeanDelay)
}

func TestComputeStats_ByMonth(t *testing.T) {
	stats := ComputeStats([]Row{
		{ContractID: "a", SignatureDate: date("2024-02-25"), PaymentDate: date("2024-03-01")},
		{ContractID: "b", SignatureDate: date("2024-02-20"), PaymentDate: date("2024-03-06")},
		{ContractID: "c", SignatureDate: date("2023-12-01"), PaymentDate: date("2024-01-01")},
		{ContractID: "d", SignatureDate: date("2024-05-01"), PaymentDate: date("2024-05-02")},
	})

	require.Len(t, stats.ByMonth, 3)
	assert.Equal(t, []MonthlyStat{
		{MonthKey: "2024-01", MeanDelay: 31, Count: 1},
		{MonthKey: "2024-03", MeanDelay: 10, Count: 2},
		{MonthKey: "2024-05", MeanDelay: 1, Count: 1},
	}, stats.ByMonth)
}

func TestComputeStats_Idempotent(t *testing.T) {
	rows := []Row{
		{ContractID: "a", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-08")},
		{ContractID: "b", SignatureDate: date("2024-01-03"), PaymentDate: date("2024-02-01")},
	}

	assert.Equal(t, ComputeStats(rows), ComputeStats(rows))
}

func TestJoinRows(t *testing.T) {
	contracts := []models.Contract{
		{ID: "a", SignatureDate: date("2024-01-01")},
		{ID: "b"},
	}
	payments := []models.Payment{
		{ContractID: "a", PaymentDate: date("2024-01-10")},
		{ContractID: "b", PaymentDate: date("2024-01-12")},
		{ContractID: "ghost", PaymentDate: date("2024-01-15")},
	}

	rows := JoinRows(contracts, payments)

	require.Len(t, rows, 2)
	assert.Equal(t, Row{ContractID: "a", SignatureDate: date("2024-01-01"), PaymentDate: date("2024-01-10")}, rows[0])
	assert.Nil(t, rows[1].SignatureDate)

	stats := ComputeStats(rows)
	assert.Equal(t, 1, stats.Global.Count)
}
