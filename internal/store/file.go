package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

// Export is the JSON document produced by dumping the backend tables through
// its REST API.
type Export struct {
	Contracts []ContractRow `json:"contracts"`
	Payments  []PaymentRow  `json:"payments"`
	Settings  *SettingsRow  `json:"settings"`
}

// FileSource serves backend rows from an in-memory export.
type FileSource struct {
	contracts []models.Contract
	payments  []models.Payment
	settings  models.AgencySettings
	log       zerolog.Logger
}

// OpenFileSource reads and decodes an export file
func OpenFileSource(path string) (*FileSource, error) {
	const op = "OpenFileSource"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open export: %w", op, err)
	}
	defer f.Close()

	return NewFileSource(f)
}

// NewFileSource decodes an export from r. Numbers are kept as json.Number so
// that they go through the same normalization as backend strings.
func NewFileSource(r io.Reader) (*FileSource, error) {
	const op = "NewFileSource"

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read export: %w", op, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var export Export
	if err := dec.Decode(&export); err != nil {
		return nil, WrapQueryError(op, "", fmt.Errorf("%w: %v", ErrInvalidExport, err), "malformed JSON")
	}

	decoder := NewDecoder()
	src := &FileSource{
		contracts: decoder.DecodeContracts(export.Contracts),
		payments:  decoder.DecodePayments(export.Payments),
		log:       logger.WithComponent("store-file"),
	}
	if export.Settings != nil {
		src.settings = decoder.DecodeSettings(*export.Settings)
	}

	src.log.Info().
		Int("contracts", len(src.contracts)).
		Int("payments", len(src.payments)).
		Bool("settings", export.Settings != nil).
		Msg("Backend export loaded")

	return src, nil
}

// Contracts returns every contract of the export
func (s *FileSource) Contracts(ctx context.Context) ([]models.Contract, error) {
	out := make([]models.Contract, len(s.contracts))
	copy(out, s.contracts)
	return out, nil
}

// Contract returns the contract with the given id
func (s *FileSource) Contract(ctx context.Context, id string) (*models.Contract, error) {
	for _, c := range s.contracts {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, NewQueryError("Contract", "contracts", ErrContractNotFound)
}

// Payments returns every payment of the export
func (s *FileSource) Payments(ctx context.Context) ([]models.Payment, error) {
	out := make([]models.Payment, len(s.payments))
	copy(out, s.payments)
	return out, nil
}

// PaymentsForContract returns the payments of one contract
func (s *FileSource) PaymentsForContract(ctx context.Context, contractID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range s.payments {
		if p.ContractID == contractID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Settings returns the agency settings of the export
func (s *FileSource) Settings(ctx context.Context) (models.AgencySettings, error) {
	return s.settings, nil
}
