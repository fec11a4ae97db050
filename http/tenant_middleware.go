package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lo-site/domain"
	"lo-site/repository"
	"lo-site/service"
)

type profileKey struct{}

// WithProfile returns a copy of ctx carrying the tenant profile.
func WithProfile(ctx context.Context, p domain.Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

func ProfileFromContext(ctx context.Context) (domain.Profile, bool) {
	p, ok := ctx.Value(profileKey{}).(domain.Profile)
	return p, ok
}

type TenantOptions struct {
	RootDomain  string
	DefaultSlug string
}

// TenantMiddleware resolves the profile for the request host once and
// threads it through the request context.
func TenantMiddleware(
	profiles *service.ProfileService,
	opts TenantOptions,
	logger *zap.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := service.TenantSlug(r.Host, opts.RootDomain, opts.DefaultSlug)

		profile, err := profiles.Resolve(r.Context(), slug)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				writeError(w, logger, http.StatusNotFound, "Unknown site")
				return
			}
			logger.Error("profile resolution failed", zap.String("slug", slug), zap.Error(err))
			writeError(w, logger, http.StatusBadGateway, "Profile service unavailable")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
	})
}

// LenientTenantMiddleware never rejects a request. When the profile cannot
// be resolved the request carries a profile holding only the host slug, so
// lead intake keeps answering with its own status codes.
func LenientTenantMiddleware(
	profiles *service.ProfileService,
	opts TenantOptions,
	logger *zap.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := service.TenantSlug(r.Host, opts.RootDomain, opts.DefaultSlug)

		profile, err := profiles.Resolve(r.Context(), slug)
		if err != nil {
			logger.Warn("profile resolution failed, using host slug",
				zap.String("slug", slug), zap.Error(err))
			profile = domain.Profile{Slug: slug}
		}

		next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
	})
}
