// Package registry wraps the remote DINARDAP operations the console
// exposes: citizen lookup, identity validation, and audit-trail search.
// Each service call is one upstream request reshaped into typed results.
package registry

import (
	"context"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"

	"dinardap-console/internal/platform/metrics"
	"dinardap-console/internal/upstream"
	dErrors "dinardap-console/pkg/domain-errors"
)

// Fixed service-level messages, raised before any network call.
const (
	MsgNameSearchUnsupported = "La búsqueda por nombres o apellidos no está disponible. Por favor, use solo el número de cédula."
	MsgMissingCriteria       = "Debe proporcionar al menos un criterio de búsqueda (cédula)"
	MsgInvalidCedula         = "La cédula debe contener 10 dígitos numéricos."
	msgNoResults             = "No se encontraron resultados"
)

// validCedula reports whether the value is a well-formed national ID:
// exactly 10 digits. Malformed values are rejected before any call.
func validCedula(cedula string) bool {
	if len(cedula) != 10 {
		return false
	}
	for _, r := range cedula {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func checkCedula(cedula string) error {
	if cedula == "" {
		return dErrors.New(dErrors.CodeInvalidInput, MsgMissingCriteria)
	}
	if !validCedula(cedula) {
		return dErrors.New(dErrors.CodeInvalidInput, MsgInvalidCedula)
	}
	return nil
}

// Caller is the slice of the upstream client the services need. Narrowed
// to an interface so tests can count outgoing calls.
type Caller interface {
	Get(ctx context.Context, operation, path string, query url.Values) (*upstream.Envelope, error)
}

// CitizenCache is implemented by cache.CitizenCache; nil disables caching.
type CitizenCache interface {
	Find(ctx context.Context, cedula string) (*CitizenRecord, error)
	Save(ctx context.Context, cedula string, record *CitizenRecord) error
}

// Service bundles the domain query operations.
type Service struct {
	client  Caller
	cache   CitizenCache
	log     *slog.Logger
	metrics *metrics.Metrics
}

// Option customizes a Service.
type Option func(*Service)

// WithCache enables the short-lived citizen lookup cache.
func WithCache(c CitizenCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics enables cache-hit counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds the query service set.
func NewService(client Caller, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{client: client, log: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LookupCitizen fetches the full record for a national ID. The record's
// shape is open: unknown fields are preserved and passed through.
func (s *Service) LookupCitizen(ctx context.Context, cedula string) (*CitizenRecord, error) {
	if err := checkCedula(cedula); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Find(ctx, cedula)
		if err != nil {
			s.log.WarnContext(ctx, "citizen cache unavailable", "error", err)
		} else if cached != nil {
			if s.metrics != nil {
				s.metrics.CitizenCacheHits.Inc()
			}
			return cached, nil
		}
	}

	env, err := s.client.Get(ctx, "citizen_lookup", "/v1/dinardap/consulta-ciudadano/"+url.PathEscape(cedula), nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		message := env.Message
		if message == "" {
			message = msgNoResults
		}
		return nil, dErrors.New(dErrors.CodeNotFound, message)
	}

	var record CitizenRecord
	if err := env.DecodeData(&record); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, cedula, &record); err != nil {
			s.log.WarnContext(ctx, "could not cache citizen record", "error", err)
		}
	}
	return &record, nil
}

// ValidateIdentity checks whether the national ID corresponds to a valid
// identity and returns the registry's verdict with its optional reason.
func (s *Service) ValidateIdentity(ctx context.Context, cedula string) (*ValidationResult, error) {
	if err := checkCedula(cedula); err != nil {
		return nil, err
	}

	env, err := s.client.Get(ctx, "identity_validation", "/v1/dinardap/validacion-identidad/"+url.PathEscape(cedula), nil)
	if err != nil {
		return nil, err
	}

	var result ValidationResult
	if err := env.DecodeData(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchAudit pages through the registry's audit trail. Absent filter
// fields are omitted from the outgoing query entirely.
func (s *Service) SearchAudit(ctx context.Context, filter AuditFilter) (*AuditPage, error) {
	env, err := s.client.Get(ctx, "audit_search", "/v1/dinardap/auditoria", filter.Values())
	if err != nil {
		return nil, err
	}

	var page AuditPage
	if err := env.DecodeData(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Search adapts the search form onto the lookup endpoint. The registry
// has no name search: name criteria fail immediately with a fixed message
// and zero network calls.
func (s *Service) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Nombres != "" || params.Apellidos != "" {
		return nil, dErrors.New(dErrors.CodeUnsupported, MsgNameSearchUnsupported)
	}
	if err := checkCedula(params.Cedula); err != nil {
		return nil, err
	}

	record, err := s.LookupCitizen(ctx, params.Cedula)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeNotFound {
			return &SearchResult{Data: []CitizenRecord{}, Total: 0, Message: dErrors.MessageOf(err)}, nil
		}
		return nil, err
	}

	return &SearchResult{Data: []CitizenRecord{*record}, Total: 1}, nil
}

// Profile fans out lookup and validation concurrently for the detail
// page. The two calls are independent; either failure fails the profile.
func (s *Service) Profile(ctx context.Context, cedula string) (*Profile, error) {
	if err := checkCedula(cedula); err != nil {
		return nil, err
	}

	var profile Profile
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		record, err := s.LookupCitizen(gctx, cedula)
		if err != nil {
			return err
		}
		profile.Citizen = record
		return nil
	})
	g.Go(func() error {
		result, err := s.ValidateIdentity(gctx, cedula)
		if err != nil {
			return err
		}
		profile.Validation = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &profile, nil
}
