package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lo-site/domain"
)

// HTTPLeadRepository posts leads to {baseURL}/tenants/{tenantID}/leads.
type HTTPLeadRepository struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPLeadRepository(baseURL, apiKey string, timeout time.Duration) *HTTPLeadRepository {
	return &HTTPLeadRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *HTTPLeadRepository) Forward(ctx context.Context, lead domain.Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("encode lead: %w", err)
	}

	endpoint := fmt.Sprintf("%s/tenants/%s/leads", r.baseURL, url.PathEscape(lead.TenantID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build lead request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", lead.ID)
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("forward lead: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("forward lead: CRM status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
