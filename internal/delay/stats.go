// Package delay measures how long clients take to pay after signing.
//
// The aggregation keeps, for every contract, its first payment only and
// reports the number of calendar days between signature and that payment,
// globally and bucketed by the month of the first payment.
package delay

import (
	"math"
	"sort"
	"time"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

const day = 24 * time.Hour

// MonthKeyLayout is the layout of MonthlyStat.MonthKey.
const MonthKeyLayout = "2006-01"

// Row is one payment joined with its contract's signature date.
type Row struct {
	ContractID    string
	SignatureDate *time.Time
	PaymentDate   *time.Time
}

// GlobalStats summarizes the per-contract delays. Every pointer is nil when
// no contract qualified, so that "no data" is not confused with zero.
type GlobalStats struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Min    *int     `json:"min"`
	Max    *int     `json:"max"`
	Count  int      `json:"count"`
}

// MonthlyStat is the mean delay of contracts first paid during MonthKey.
type MonthlyStat struct {
	MonthKey  string  `json:"monthKey"`
	MeanDelay float64 `json:"meanDelay"`
	Count     int     `json:"count"`
}

type Stats struct {
	Global  GlobalStats   `json:"global"`
	ByMonth []MonthlyStat `json:"byMonth"`
}

// JoinRows pairs every payment with the signature date of its contract.
// Payments of unknown contracts are dropped.
func JoinRows(contracts []models.Contract, payments []models.Payment) []Row {
	signed := make(map[string]*time.Time, len(contracts))
	for _, c := range contracts {
		signed[c.ID] = c.SignatureDate
	}

	rows := make([]Row, 0, len(payments))
	for _, p := range payments {
		sig, ok := signed[p.ContractID]
		if !ok {
			continue
		}
		rows = append(rows, Row{
			ContractID:    p.ContractID,
			SignatureDate: sig,
			PaymentDate:   p.PaymentDate,
		})
	}
	return rows
}

// ContractDelay is the first-payment delay of a single contract.
type ContractDelay struct {
	ContractID       string
	SignatureDate    time.Time
	FirstPaymentDate time.Time
	Days             int
}

// DaysBetween returns the number of calendar days from one date to another,
// ignoring time of day. The result is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	a := midnight(from)
	b := midnight(to)
	return int(math.Round(float64(b.Sub(a)) / float64(day)))
}

// midnight keeps the calendar date of t, read in its own location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FirstPayments reduces rows to one entry per contract, holding the earliest
// payment. Rows missing either date are ignored. The result is ordered by
// contract id.
func FirstPayments(rows []Row) []ContractDelay {
	first := make(map[string]Row)
	for _, r := range rows {
		if r.SignatureDate == nil || r.PaymentDate == nil {
			continue
		}
		cur, ok := first[r.ContractID]
		if !ok || r.PaymentDate.Before(*cur.PaymentDate) {
			first[r.ContractID] = r
		}
	}

	delays := make([]ContractDelay, 0, len(first))
	for id, r := range first {
		delays = append(delays, ContractDelay{
			ContractID:       id,
			SignatureDate:    *r.SignatureDate,
			FirstPaymentDate: *r.PaymentDate,
			Days:             DaysBetween(*r.SignatureDate, *r.PaymentDate),
		})
	}
	sort.Slice(delays, func(i, j int) bool {
		return delays[i].ContractID < delays[j].ContractID
	})
	return delays
}

// ComputeStats aggregates first-payment delays over all contracts found in rows.
func ComputeStats(rows []Row) Stats {
	delays := FirstPayments(rows)

	return Stats{
		Global:  global(delays),
		ByMonth: byMonth(delays),
	}
}

func global(delays []ContractDelay) GlobalStats {
	if len(delays) == 0 {
		return GlobalStats{}
	}

	days := make([]int, len(delays))
	sum := 0
	for i, d := range delays {
		days[i] = d.Days
		sum += d.Days
	}
	sort.Ints(days)

	n := len(days)
	mean := float64(sum) / float64(n)
	var median float64
	if n%2 == 1 {
		median = float64(days[n/2])
	} else {
		median = float64(days[n/2-1]+days[n/2]) / 2
	}
	lo, hi := days[0], days[n-1]

	return GlobalStats{
		Mean:   &mean,
		Median: &median,
		Min:    &lo,
		Max:    &hi,
		Count:  n,
	}
}

func byMonth(delays []ContractDelay) []MonthlyStat {
	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[string]*bucket)
	for _, d := range delays {
		key := d.FirstPaymentDate.Format(MonthKeyLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += d.Days
		b.count++
	}

	months := make([]MonthlyStat, 0, len(buckets))
	for key, b := range buckets {
		months = append(months, MonthlyStat{
			MonthKey:  key,
			MeanDelay: float64(b.sum) / float64(b.count),
			Count:     b.count,
		})
	}
	// YYYY-MM keys sort chronologically as strings
	sort.Slice(months, func(i, j int) bool {
		return months[i].MonthKey < months[j].MonthKey
	})
	return months
}
