package models

import "time"

// BillingModel describes how a contract's engagement is invoiced.
type BillingModel string

const (
	BillingOneShot   BillingModel = "one_shot"
	BillingRecurring BillingModel = "recurring"
	BillingMixed     BillingModel = "mixed"
)

// BillingPeriod is the invoicing frequency of a contract.
type BillingPeriod string

const (
	PeriodOneTime   BillingPeriod = "one_time"
	PeriodMonthly   BillingPeriod = "monthly"
	PeriodQuarterly BillingPeriod = "quarterly"
	PeriodYearly    BillingPeriod = "yearly"
)

// RelanceStatus is the manual reminder status set by an account manager.
type RelanceStatus string

const (
	RelanceNone RelanceStatus = "none"
	Relance1    RelanceStatus = "relance_1"
	Relance2    RelanceStatus = "relance_2"
	Relance3    RelanceStatus = "relance_3"
)

type Contract struct {
	// Core identifiers
	ID         string `json:"id"`          // Contract UUID as stored in the backend
	Reference  string `json:"reference"`   // Human-readable contract reference (may be empty)
	ClientID   string `json:"client_id"`   // Owning client UUID
	ClientName string `json:"client_name"` // Client display name from the joined client row

	// Billing terms
	BillingModel     BillingModel  `json:"billing_model"`
	BillingPeriod    BillingPeriod `json:"billing_period"`
	AmountOneShotHT  *float64      `json:"amount_one_shot_ht"` // One-shot portion, excl. VAT
	AmountMonthlyHT  *float64      `json:"amount_monthly_ht"`  // Monthly portion, excl. VAT
	AmountHT         *float64      `json:"amount_ht"`          // Base amount, excl. VAT
	VATRate          *float64      `json:"vat_rate"`           // Percent; nil means the default rate
	CommitmentMonths *int          `json:"commitment_months"`  // Number of months of commitment

	// Dates
	SignatureDate *time.Time `json:"signature_date"` // nil if not signed yet

	// Manual reminder tracking
	RelanceStatus RelanceStatus `json:"relance_status"`
	RelanceDate   *time.Time    `json:"relance_date"` // Date of the last manual reminder
}

// Payment is a recorded payment against a contract. At least one of AmountHT
// or AmountTTC is expected to be set; the other is derived from the VAT rate.
type Payment struct {
	ContractID  string     `json:"contract_id"`
	PaymentDate *time.Time `json:"payment_date"`
	AmountHT    *float64   `json:"amount_ht"`
	AmountTTC   *float64   `json:"amount_ttc"`
}

// AgencySettings holds the agency-wide reminder thresholds, in days.
// Zero values mean "not configured".
type AgencySettings struct {
	RelanceDays1 int `json:"relance_days_1"`
	RelanceDays2 int `json:"relance_days_2"`
	RelanceDays3 int `json:"relance_days_3"`
}
