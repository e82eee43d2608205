package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

// Numeric columns are selected as text so that the decimal representation
// reaches the decoder untouched, exactly like values from the REST API.
const contractColumns = `
	c.id::text, c.reference, c.client_id::text, COALESCE(cl.name, ''),
	c.billing_model, c.billing_period,
	c.amount_one_shot_ht::text, c.amount_monthly_ht::text, c.amount_ht::text,
	c.vat_rate::text, c.commitment_months::text,
	c.signature_date::text, c.relance_status, c.relance_date::text`

const contractFrom = `
	FROM contracts c
	LEFT JOIN clients cl ON cl.id = c.client_id`

const paymentColumns = `
	contract_id::text, payment_date::text, amount_ht::text, amount_ttc::text`

// PostgresConfig holds the connection settings of the backend database.
type PostgresConfig struct {
	URL            string
	MaxConns       int32
	ConnectTimeout time.Duration
}

// PostgresSource reads the CRM tables from the backend PostgreSQL database.
// A single pool is created at startup and shared by every read.
type PostgresSource struct {
	pool    *pgxpool.Pool
	decoder *Decoder
	log     zerolog.Logger
}

// NewPostgresSource connects to the backend database and verifies the connection.
func NewPostgresSource(ctx context.Context, cfg PostgresConfig) (*PostgresSource, error) {
	const op = "NewPostgresSource"

	log := logger.WithComponent("store-postgres")

	if cfg.URL == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingDatabaseURL)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse database URL: %w", op, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: database connection failed: %w", op, err)
	}

	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("Connected to backend database")

	return NewPostgresSourceWithPool(pool), nil
}

// NewPostgresSourceWithPool wraps an existing pool.
func NewPostgresSourceWithPool(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{
		pool:    pool,
		decoder: NewDecoder(),
		log:     logger.WithComponent("store-postgres"),
	}
}

// Close releases the connection pool
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// Contracts returns every contract with its client name
func (s *PostgresSource) Contracts(ctx context.Context) ([]models.Contract, error) {
	const op = "Contracts"

	rows, err := s.pool.Query(ctx, `SELECT `+contractColumns+contractFrom+` ORDER BY c.id`)
	if err != nil {
		return nil, NewQueryError(op, "contracts", err)
	}

	raw, err := pgx.CollectRows(rows, scanContract)
	if err != nil {
		return nil, NewQueryError(op, "contracts", err)
	}

	s.log.Debug().Int("rows", len(raw)).Msg("Contracts read")

	return s.decoder.DecodeContracts(raw), nil
}

// Contract returns the contract with the given id
func (s *PostgresSource) Contract(ctx context.Context, id string) (*models.Contract, error) {
	const op = "Contract"

	rows, err := s.pool.Query(ctx, `SELECT `+contractColumns+contractFrom+` WHERE c.id::text = $1`, id)
	if err != nil {
		return nil, NewQueryError(op, "contracts", err)
	}

	raw, err := pgx.CollectExactlyOneRow(rows, scanContract)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NewQueryError(op, "contracts", ErrContractNotFound)
	}
	if err != nil {
		return nil, NewQueryError(op, "contracts", err)
	}

	c := s.decoder.DecodeContract(raw)
	return &c, nil
}

// Payments returns every recorded payment
func (s *PostgresSource) Payments(ctx context.Context) ([]models.Payment, error) {
	const op = "Payments"

	rows, err := s.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY payment_date`)
	if err != nil {
		return nil, NewQueryError(op, "payments", err)
	}

	raw, err := pgx.CollectRows(rows, scanPayment)
	if err != nil {
		return nil, NewQueryError(op, "payments", err)
	}

	s.log.Debug().Int("rows", len(raw)).Msg("Payments read")

	return s.decoder.DecodePayments(raw), nil
}

// PaymentsForContract returns the payments recorded against one contract
func (s *PostgresSource) PaymentsForContract(ctx context.Context, contractID string) ([]models.Payment, error) {
	const op = "PaymentsForContract"

	rows, err := s.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE contract_id::text = $1 ORDER BY payment_date`,
		contractID,
	)
	if err != nil {
		return nil, NewQueryError(op, "payments", err)
	}

	raw, err := pgx.CollectRows(rows, scanPayment)
	if err != nil {
		return nil, NewQueryError(op, "payments", err)
	}

	return s.decoder.DecodePayments(raw), nil
}

// Settings returns the agency reminder thresholds
func (s *PostgresSource) Settings(ctx context.Context) (models.AgencySettings, error) {
	const op = "Settings"

	var row SettingsRow
	var d1, d2, d3 *string
	err := s.pool.QueryRow(ctx, `
		SELECT relance_days_1::text, relance_days_2::text, relance_days_3::text
		FROM agency_settings
		LIMIT 1`).Scan(&d1, &d2, &d3)
	if errors.Is(err, pgx.ErrNoRows) {
		s.log.Warn().Msg("No agency settings row, using defaults")
		return models.AgencySettings{}, nil
	}
	if err != nil {
		return models.AgencySettings{}, NewQueryError(op, "agency_settings", err)
	}

	row.RelanceDays1, row.RelanceDays2, row.RelanceDays3 = d1, d2, d3
	return s.decoder.DecodeSettings(row), nil
}

func scanContract(row pgx.CollectableRow) (ContractRow, error) {
	var (
		c                         ContractRow
		oneShot, monthly, base    *string
		vatRate, commitmentMonths *string
	)
	err := row.Scan(
		&c.ID, &c.Reference, &c.ClientID, &c.ClientName,
		&c.BillingModel, &c.BillingPeriod,
		&oneShot, &monthly, &base,
		&vatRate, &commitmentMonths,
		&c.SignatureDate, &c.RelanceStatus, &c.RelanceDate,
	)
	if err != nil {
		return ContractRow{}, err
	}

	c.AmountOneShotHT = oneShot
	c.AmountMonthlyHT = monthly
	c.AmountHT = base
	c.VATRate = vatRate
	c.CommitmentMonths = commitmentMonths
	return c, nil
}

func scanPayment(row pgx.CollectableRow) (PaymentRow, error) {
	var (
		p       PaymentRow
		ht, ttc *string
	)
	if err := row.Scan(&p.ContractID, &p.PaymentDate, &ht, &ttc); err != nil {
		return PaymentRow{}, err
	}
	p.AmountHT = ht
	p.AmountTTC = ttc
	return p, nil
}
