package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lo-site/domain"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	FetchProfile(ctx context.Context, slug string) (domain.Profile, error)
}

// HTTPProfileRepository reads profiles from {baseURL}/profiles/{slug}.
type HTTPProfileRepository struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPProfileRepository(baseURL, apiKey string, timeout time.Duration) *HTTPProfileRepository {
	return &HTTPProfileRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *HTTPProfileRepository) FetchProfile(ctx context.Context, slug string) (domain.Profile, error) {
	endpoint := r.baseURL + "/profiles/" + url.PathEscape(slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("fetch profile %q: %w", slug, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, slug)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Profile{}, fmt.Errorf("fetch profile %q: status %d: %s", slug, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var profile domain.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile %q: %w", slug, err)
	}
	if profile.Slug == "" {
		profile.Slug = slug
	}
	return profile, nil
}

// StaticProfileRepository serves profiles defined in configuration.
type StaticProfileRepository struct {
	profiles map[string]domain.Profile
}

func NewStaticProfileRepository(profiles []domain.Profile) *StaticProfileRepository {
	m := make(map[string]domain.Profile, len(profiles))
	for _, p := range profiles {
		m[p.Slug] = p
	}
	return &StaticProfileRepository{profiles: m}
}

func (r *StaticProfileRepository) FetchProfile(_ context.Context, slug string) (domain.Profile, error) {
	p, ok := r.profiles[slug]
	if !ok {
		return domain.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, slug)
	}
	return p, nil
}
