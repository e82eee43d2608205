package relance

import (
	"sort"
	"time"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/billing"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/delay"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

// Candidate is an unpaid contract together with its reminder level.
type Candidate struct {
	ContractID    string               `json:"contractId"`
	Reference     string               `json:"reference,omitempty"`
	ClientName    string               `json:"clientName,omitempty"`
	Status        models.RelanceStatus `json:"status"`
	ReferenceDate time.Time            `json:"referenceDate"`
	FromManual    bool                 `json:"fromManualRelance"`
	ElapsedDays   int                  `json:"elapsedDays"`
	Level         Level                `json:"level"`
	RemainingTTC  float64              `json:"resteDuTtc"`
}

// List is the outcome of BuildList. Skipped holds the ids of unpaid contracts
// that have neither a signature nor a manual reminder date.
type List struct {
	Candidates []Candidate `json:"candidates"`
	Skipped    []string    `json:"skipped,omitempty"`
}

// ReferenceDate returns the date reminders are counted from: the last manual
// reminder when there is one, the signature date otherwise.
func ReferenceDate(c models.Contract) (ref time.Time, manual bool, ok bool) {
	if c.RelanceDate != nil {
		return *c.RelanceDate, true, true
	}
	if c.SignatureDate != nil {
		return *c.SignatureDate, false, true
	}
	return time.Time{}, false, false
}

// ElapsedDays returns the number of calendar days between the contract's
// reference date and today. ok is false when the contract has no date to
// count from.
func ElapsedDays(c models.Contract, today time.Time) (days int, ok bool) {
	ref, _, ok := ReferenceDate(c)
	if !ok {
		return 0, false
	}
	return delay.DaysBetween(ref, today), true
}

// BuildList returns the reminder candidates among contracts. Any contract with
// at least one recorded payment is left out. Candidates are ordered by elapsed
// days, most overdue first.
func BuildList(contracts []models.Contract, payments []models.Payment, t Thresholds, today time.Time) List {
	paid := make(map[string]bool, len(payments))
	for _, p := range payments {
		paid[p.ContractID] = true
	}

	list := List{Candidates: []Candidate{}}
	for _, c := range contracts {
		if paid[c.ID] {
			continue
		}
		elapsed, ok := ElapsedDays(c, today)
		if !ok {
			list.Skipped = append(list.Skipped, c.ID)
			continue
		}
		ref, manual, _ := ReferenceDate(c)

		snapshot := billing.ComputeSnapshot(c, nil)
		status := c.RelanceStatus
		if status == "" {
			status = models.RelanceNone
		}

		list.Candidates = append(list.Candidates, Candidate{
			ContractID:    c.ID,
			Reference:     c.Reference,
			ClientName:    c.ClientName,
			Status:        status,
			ReferenceDate: ref,
			FromManual:    manual,
			ElapsedDays:   elapsed,
			Level:         t.Level(elapsed),
			RemainingTTC:  snapshot.RemainingTTC,
		})
	}

	sort.SliceStable(list.Candidates, func(i, j int) bool {
		a, b := list.Candidates[i], list.Candidates[j]
		if a.ElapsedDays != b.ElapsedDays {
			return a.ElapsedDays > b.ElapsedDays
		}
		return a.ContractID < b.ContractID
	})
	return list
}

// CountByLevel tallies candidates per level.
func CountByLevel(candidates []Candidate) map[Level]int {
	counts := make(map[Level]int)
	for _, c := range candidates {
		counts[c.Level]++
	}
	return counts
}
