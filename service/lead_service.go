package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lo-site/domain"
	"lo-site/repository"
)

const leadSource = "website"

var ErrLeadForwardFailed = errors.New("lead could not be forwarded")

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Details map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for f := range e.Details {
		fields = append(fields, f)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// LeadOptions controls forwarding. With AlwaysAck set, a CRM failure is
// logged and Submit still succeeds, so a flaky CRM never shows the visitor
// an error. Leads lost that way only appear in the logs.
type LeadOptions struct {
	AlwaysAck      bool
	ForwardTimeout time.Duration
}

type LeadService struct {
	repo     repository.LeadRepository
	validate *validator.Validate
	opts     LeadOptions
	logger   *zap.Logger
	now      func() time.Time
}

func NewLeadService(repo repository.LeadRepository, opts LeadOptions, logger *zap.Logger) *LeadService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &LeadService{
		repo:     repo,
		validate: v,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Validate returns nil when the input is acceptable.
func (s *LeadService) Validate(input domain.LeadInput) *ValidationError {
	details := map[string][]string{}

	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			details["_"] = []string{err.Error()}
		}
		for _, fe := range verrs {
			details[fe.Field()] = append(details[fe.Field()], fieldMessage(fe))
		}
	}

	switch {
	case input.Consent == nil:
		details["consent"] = []string{"is required"}
	case !*input.Consent:
		details["consent"] = []string{"must be accepted"}
	}

	if len(details) == 0 {
		return nil
	}
	return &ValidationError{Details: details}
}

// Submit validates the lead and forwards it for the tenant. The returned
// error is a *ValidationError for bad input, or wraps ErrLeadForwardFailed
// when the CRM rejects it and AlwaysAck is off.
func (s *LeadService) Submit(ctx context.Context, tenantID, clientIP string, input domain.LeadInput) (domain.Lead, error) {
	input = normalizeLead(input)
	if verr := s.Validate(input); verr != nil {
		return domain.Lead{}, verr
	}

	lead := domain.Lead{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		LoanType:   input.LoanType,
		Message:    input.Message,
		Consent:    true,
		ClientIP:   clientIP,
		Source:     leadSource,
		ReceivedAt: s.now().UTC(),
	}

	// El envío no depende de que el visitante siga conectado
	fctx := context.WithoutCancel(ctx)
	if s.opts.ForwardTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(fctx, s.opts.ForwardTimeout)
		defer cancel()
	}

	if err := s.repo.Forward(fctx, lead); err != nil {
		s.logger.Error("lead forward failed",
			zap.String("lead_id", lead.ID),
			zap.String("tenant_id", tenantID),
			zap.Bool("always_ack", s.opts.AlwaysAck),
			zap.Error(err),
		)
		if !s.opts.AlwaysAck {
			return lead, fmt.Errorf("%w: %v", ErrLeadForwardFailed, err)
		}
		return lead, nil
	}

	s.logger.Info("lead forwarded",
		zap.String("lead_id", lead.ID),
		zap.String("tenant_id", tenantID),
		zap.String("loan_type", string(lead.LoanType)),
	)
	return lead, nil
}

func normalizeLead(in domain.LeadInput) domain.LeadInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	return in
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
