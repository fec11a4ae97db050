package repository

import (
	"context"
	"sync"

	"lo-site/domain"
)

// LeadRepositoryMemory keeps forwarded leads in memory. It stands in for
// the CRM when no forward URL is configured.
type LeadRepositoryMemory struct {
	mu    sync.Mutex
	leads []domain.Lead
}

func NewLeadRepositoryMemory() *LeadRepositoryMemory {
	return &LeadRepositoryMemory{
		leads: []domain.Lead{},
	}
}

func (r *LeadRepositoryMemory) Forward(_ context.Context, lead domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, lead)
	return nil
}

// Leads returns a copy of everything forwarded so far.
func (r *LeadRepositoryMemory) Leads() []domain.Lead {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Lead, len(r.leads))
	copy(out, r.leads)
	return out
}
