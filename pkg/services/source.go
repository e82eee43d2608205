package services

import (
	"context"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/pkg/models"
)

// Source defines read access to the CRM backend. Implementations return rows
// already normalized into pkg/models types.
type Source interface {
	// Contracts returns every contract with its client name.
	Contracts(ctx context.Context) ([]models.Contract, error)

	// Contract returns a single contract, or an error wrapping
	// store.ErrContractNotFound.
	Contract(ctx context.Context, id string) (*models.Contract, error)

	// Payments returns every recorded payment.
	Payments(ctx context.Context) ([]models.Payment, error)

	// PaymentsForContract returns the payments recorded against one contract.
	PaymentsForContract(ctx context.Context, contractID string) ([]models.Payment, error)

	// Settings returns the agency settings. Missing settings are not an error;
	// the zero value is returned instead.
	Settings(ctx context.Context) (models.AgencySettings, error)
}
