package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/money"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

// ContractRow is a contract as the backend returns it. Numeric fields may hold
// a number, a numeric string or nil. Client is the joined client row, which
// arrives either as an object or as a one-element array.
type ContractRow struct {
	ID               string          `json:"id"`
	Reference        *string         `json:"reference"`
	ClientID         *string         `json:"client_id"`
	ClientName       string          `json:"-"`
	Client           json.RawMessage `json:"client"`
	BillingModel     *string         `json:"billing_model"`
	BillingPeriod    *string         `json:"billing_period"`
	AmountOneShotHT  any             `json:"amount_one_shot_ht"`
	AmountMonthlyHT  any             `json:"amount_monthly_ht"`
	AmountHT         any             `json:"amount_ht"`
	VATRate          any             `json:"vat_rate"`
	CommitmentMonths any             `json:"commitment_months"`
	SignatureDate    *string         `json:"signature_date"`
	RelanceStatus    *string         `json:"relance_status"`
	RelanceDate      *string         `json:"relance_date"`
}

// PaymentRow is a payment as the backend returns it.
type PaymentRow struct {
	ContractID  string  `json:"contract_id"`
	PaymentDate *string `json:"payment_date"`
	AmountHT    any     `json:"amount_ht"`
	AmountTTC   any     `json:"amount_ttc"`
}

// SettingsRow is the agency settings row.
type SettingsRow struct {
	RelanceDays1 any `json:"relance_days_1"`
	RelanceDays2 any `json:"relance_days_2"`
	RelanceDays3 any `json:"relance_days_3"`
}

type clientRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Decoder normalizes backend rows into pkg/models types. Values that cannot be
// understood degrade to nil and are logged; decoding never fails a row.
type Decoder struct {
	log zerolog.Logger
}

// NewDecoder creates a new row decoder
func NewDecoder() *Decoder {
	return &Decoder{
		log: logger.WithComponent("store-decoder"),
	}
}

// DecodeContract normalizes a contract row
func (d *Decoder) DecodeContract(row ContractRow) models.Contract {
	c := models.Contract{
		ID:              row.ID,
		Reference:       deref(row.Reference),
		ClientID:        deref(row.ClientID),
		ClientName:      row.ClientName,
		BillingModel:    models.BillingModel(strings.TrimSpace(deref(row.BillingModel))),
		BillingPeriod:   models.BillingPeriod(strings.TrimSpace(deref(row.BillingPeriod))),
		AmountOneShotHT: money.ToNumber(row.AmountOneShotHT),
		AmountMonthlyHT: money.ToNumber(row.AmountMonthlyHT),
		AmountHT:        money.ToNumber(row.AmountHT),
		VATRate:         money.ToNumber(row.VATRate),
		SignatureDate:   d.date(row.ID, "signature_date", row.SignatureDate),
		RelanceStatus:   models.RelanceStatus(strings.TrimSpace(deref(row.RelanceStatus))),
		RelanceDate:     d.date(row.ID, "relance_date", row.RelanceDate),
	}

	if months := money.ToNumber(row.CommitmentMonths); months != nil {
		m := int(math.Round(*months))
		c.CommitmentMonths = &m
	}

	if c.RelanceStatus == "" {
		c.RelanceStatus = models.RelanceNone
	}

	if c.ClientName == "" && len(row.Client) > 0 {
		client, err := decodeClient(row.Client)
		if err != nil {
			d.log.Warn().
				Err(err).
				Str("contract_id", row.ID).
				Msg("Unreadable client join, ignoring")
		} else {
			c.ClientName = client.Name
			if c.ClientID == "" {
				c.ClientID = client.ID
			}
		}
	}

	return c
}

// DecodePayment normalizes a payment row
func (d *Decoder) DecodePayment(row PaymentRow) models.Payment {
	return models.Payment{
		ContractID:  row.ContractID,
		PaymentDate: d.date(row.ContractID, "payment_date", row.PaymentDate),
		AmountHT:    money.ToNumber(row.AmountHT),
		AmountTTC:   money.ToNumber(row.AmountTTC),
	}
}

// DecodeSettings normalizes the agency settings row. Unknown thresholds are
// left at zero.
func (d *Decoder) DecodeSettings(row SettingsRow) models.AgencySettings {
	return models.AgencySettings{
		RelanceDays1: days(row.RelanceDays1),
		RelanceDays2: days(row.RelanceDays2),
		RelanceDays3: days(row.RelanceDays3),
	}
}

// DecodeContracts normalizes a batch of contract rows
func (d *Decoder) DecodeContracts(rows []ContractRow) []models.Contract {
	contracts := make([]models.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, d.DecodeContract(row))
	}
	return contracts
}

// DecodePayments normalizes a batch of payment rows
func (d *Decoder) DecodePayments(rows []PaymentRow) []models.Payment {
	payments := make([]models.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, d.DecodePayment(row))
	}
	return payments
}

func (d *Decoder) date(id, field string, value *string) *time.Time {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	t, err := ParseDate(*value)
	if err != nil {
		d.log.Warn().
			Err(err).
			Str("id", id).
			Str("field", field).
			Msg("Invalid date, treating as missing")
		return nil
	}
	return &t
}

// ParseDate parses the date and timestamp layouts used by the backend.
func ParseDate(value string) (time.Time, error) {
	cleaned := strings.TrimSpace(value)

	formats := []string{
		"2006-01-02",                       // date column
		time.RFC3339Nano,                   // REST timestamps
		"2006-01-02T15:04:05",              // timestamp without zone
		"2006-01-02 15:04:05.999999999-07", // timestamptz::text
		"2006-01-02 15:04:05-07",
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, NewDecodeError("date", value, "unsupported date format")
}

func decodeClient(raw json.RawMessage) (clientRow, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return clientRow{}, nil
	}

	if raw[0] == '[' {
		var clients []clientRow
		if err := json.Unmarshal(raw, &clients); err != nil {
			return clientRow{}, fmt.Errorf("client array: %w", err)
		}
		if len(clients) == 0 {
			return clientRow{}, nil
		}
		return clients[0], nil
	}

	var client clientRow
	if err := json.Unmarshal(raw, &client); err != nil {
		return clientRow{}, fmt.Errorf("client object: %w", err)
	}
	return client, nil
}

func days(v any) int {
	n := money.ToNumber(v)
	if n == nil {
		return 0
	}
	return int(math.Round(*n))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
