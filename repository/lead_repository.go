package repository

import (
	"context"

	"lo-site/domain"
)

// LeadRepository hands a validated lead to the tenant's CRM.
type LeadRepository interface {
	Forward(ctx context.Context, lead domain.Lead) error
}
