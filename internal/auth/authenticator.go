package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/rpc"
)

const (
	AdminIDHeader = "X-Admin-Id"
	UserIDHeader  = "X-User-Id"
)

var idHeaders = map[Role]string{
	RoleAdmin: AdminIDHeader,
	RoleUser:  UserIDHeader,
}

// Authenticator resolves the principal once per call, from a bearer token
// when one is presented and otherwise from the identity headers if those are
// trusted.
type Authenticator struct {
	issuer       *Issuer
	trustHeaders bool
	logger       *slog.Logger
}

func NewAuthenticator(issuer *Issuer, trustHeaders bool, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		issuer:       issuer,
		trustHeaders: trustHeaders,
		logger:       logger,
	}
}

// Require rejects calls whose principal is missing (401) or holds another
// role (403), and otherwise stores the principal in the request context.
func (a *Authenticator) Require(role Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := a.resolve(r, role)
		if err != nil {
			a.logger.Warn("identity rejected",
				"error", err,
				"route", r.Pattern,
				"request_id", rpc.RequestIDFrom(r.Context()),
			)
			rpc.WriteError(w, r, a.logger, err)
			return
		}
		if p.Role != role {
			rpc.WriteError(w, r, a.logger, fmt.Errorf("%w: %s principal cannot call a %s operation", domain.ErrForbidden, p.Role, role))
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), p)))
	}
}

func (a *Authenticator) resolve(r *http.Request, want Role) (Principal, error) {
	if authz := r.Header.Get("Authorization"); authz != "" {
		token, ok := strings.CutPrefix(authz, "Bearer ")
		if !ok || token == "" {
			return Principal{}, fmt.Errorf("%w: malformed authorization header", domain.ErrUnauthenticated)
		}
		if a.issuer == nil {
			return Principal{}, fmt.Errorf("%w: bearer tokens are not enabled", domain.ErrUnauthenticated)
		}
		p, err := a.issuer.Verify(token)
		if err != nil {
			return Principal{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
		}
		return p, nil
	}

	if !a.trustHeaders {
		return Principal{}, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated)
	}

	if raw := r.Header.Get(idHeaders[want]); raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Principal{}, fmt.Errorf("%w: %s %q is not an id", domain.ErrUnauthenticated, idHeaders[want], raw)
		}
		return Principal{ID: id, Role: want}, nil
	}

	for role, header := range idHeaders {
		if role != want && r.Header.Get(header) != "" {
			return Principal{}, fmt.Errorf("%w: %s principal cannot call a %s operation", domain.ErrForbidden, role, want)
		}
	}
	return Principal{}, fmt.Errorf("%w: missing %s header", domain.ErrUnauthenticated, idHeaders[want])
}
