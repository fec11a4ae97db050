package http

import (
	"net/http"

	"go.uber.org/zap"

	"lo-site/service"
)

type Dependencies struct {
	Programs    *service.ProgramService
	Leads       *service.LeadService
	Profiles    *service.ProfileService
	Headlines   *service.HeadlineService
	LeadLimiter *RateLimiter
	Tenants     TenantOptions
	Logger      *zap.Logger
}

func NewRouter(d Dependencies) http.Handler {
	mux := http.NewServeMux()

	calculatorHandler := NewCalculatorHandler(d.Programs, d.Logger)
	leadHandler := NewLeadHandler(d.Leads, d.Logger)
	profileHandler := NewProfileHandler(d.Logger)
	headlineHandler := NewHeadlineHandler(d.Headlines, d.Logger)

	tenant := func(h http.HandlerFunc) http.Handler {
		return TenantMiddleware(d.Profiles, d.Tenants, d.Logger, h)
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/api/calculators/quote", calculatorHandler.Quote)
	mux.HandleFunc("/api/calculators/refinance", calculatorHandler.Refinance)
	mux.HandleFunc("/api/rates/pmi", calculatorHandler.PMIRate)

	// el método se valida antes del limitador para no consumir la cuota
	mux.Handle(
		"/api/leads",
		AllowMethod(
			http.MethodPost,
			d.Logger,
			RateLimitMiddleware(
				d.LeadLimiter,
				d.Logger,
				LenientTenantMiddleware(d.Profiles, d.Tenants, d.Logger, http.HandlerFunc(leadHandler.SubmitLead)),
			),
		),
	)

	mux.Handle("/api/profile", tenant(profileHandler.GetProfile))
	mux.Handle("/api/headlines", tenant(headlineHandler.SuggestHeadlines))

	return WithLogging(d.Logger, mux)
}

// AllowMethod answers 405 for any method other than method.
func AllowMethod(method string, logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeError(w, logger, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		next.ServeHTTP(w, r)
	})
}
