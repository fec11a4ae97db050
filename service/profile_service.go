package service

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"lo-site/domain"
	"lo-site/repository"
)

const (
	profileCachePrefix  = "profile:"
	profileFetchTimeout = 10 * time.Second
)

// ProfileService resolves tenant profiles through a cache. Concurrent
// misses for the same slug share one upstream fetch.
type ProfileService struct {
	repo   repository.ProfileRepository
	cache  repository.CacheRepository
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

func NewProfileService(repo repository.ProfileRepository, cache repository.CacheRepository, ttl time.Duration, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *ProfileService) Resolve(ctx context.Context, slug string) (domain.Profile, error) {
	key := profileCachePrefix + slug
	if raw, ok := s.cache.Get(ctx, key); ok {
		var p domain.Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return p, nil
		}
		s.logger.Warn("discarding unreadable cached profile", zap.String("slug", slug))
	}

	v, err, _ := s.group.Do(slug, func() (interface{}, error) {
		// la búsqueda es compartida: no depende del primer cliente
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), profileFetchTimeout)
		defer cancel()

		p, err := s.repo.FetchProfile(fctx, slug)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(p)
		if err == nil {
			err = s.cache.Set(fctx, key, string(data), s.ttl)
		}
		if err != nil {
			s.logger.Warn("profile not cached", zap.String("slug", slug), zap.Error(err))
		}
		return p, nil
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return v.(domain.Profile), nil
}

// TenantSlug derives the tenant slug from a request host. Subdomains of
// rootDomain map to their left-most label below the root; the root
// itself, "www", localhost and bare IPs map to defaultSlug. Any other
// host is treated as a custom domain and keyed by its first label.
func TenantSlug(host, rootDomain, defaultSlug string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	rootDomain = strings.ToLower(rootDomain)

	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return defaultSlug
	}
	host = strings.TrimPrefix(host, "www.")

	if rootDomain != "" {
		if host == rootDomain {
			return defaultSlug
		}
		if sub, ok := strings.CutSuffix(host, "."+rootDomain); ok {
			labels := strings.Split(sub, ".")
			return labels[len(labels)-1]
		}
	}

	first, _, _ := strings.Cut(host, ".")
	return first
}
