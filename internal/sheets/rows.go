package sheets

import (
	"time"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/delay"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/money"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/relance"
)

const dateLayout = "02/01/2006"

// Table is a header row plus the data rows to append below it.
type Table struct {
	Headers []interface{}
	Rows    [][]interface{}
}

// RelanceRows converts a reminder list into sheet rows, one per candidate.
// today is written in the last column so successive exports stay apart.
func RelanceRows(list relance.List, today time.Time) Table {
	table := Table{
		Headers: []interface{}{
			"Contrat", "Référence", "Client", "Statut", "Date de référence",
			"Relance manuelle", "Jours écoulés", "Niveau", "Reste dû TTC", "Exporté le",
		},
	}

	exported := today.Format(dateLayout)
	for _, c := range list.Candidates {
		manual := "non"
		if c.FromManual {
			manual = "oui"
		}
		table.Rows = append(table.Rows, []interface{}{
			c.ContractID,                       // A: Contrat
			c.Reference,                        // B: Référence
			c.ClientName,                       // C: Client
			string(c.Status),                   // D: Statut
			c.ReferenceDate.Format(dateLayout), // E: Date de référence
			manual,                             // F: Relance manuelle
			c.ElapsedDays,                      // G: Jours écoulés
			string(c.Level),                    // H: Niveau
			money.Round2(c.RemainingTTC),       // I: Reste dû TTC
			exported,                           // J: Exporté le
		})
	}

	return table
}

// DelayRows converts delay statistics into sheet rows: one "Global" row
// followed by one row per month of first payment.
func DelayRows(stats delay.Stats) Table {
	table := Table{
		Headers: []interface{}{
			"Période", "Délai moyen (j)", "Délai médian (j)", "Min (j)", "Max (j)", "Contrats",
		},
	}

	g := stats.Global
	table.Rows = append(table.Rows, []interface{}{
		"Global",
		optionalFloat(g.Mean),
		optionalFloat(g.Median),
		optionalInt(g.Min),
		optionalInt(g.Max),
		g.Count,
	})

	for _, m := range stats.ByMonth {
		table.Rows = append(table.Rows, []interface{}{
			m.MonthKey,
			money.Round2(m.MeanDelay),
			"",
			"",
			"",
			m.Count,
		})
	}

	return table
}

func optionalFloat(v *float64) interface{} {
	if v == nil {
		return money.Placeholder
	}
	return money.Round2(*v)
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return money.Placeholder
	}
	return *v
}
