// Package middleware adapts the engine to net/http: it resolves the
// calling subject from the request, carries it through the request
// context, and runs guard policies before protected handlers.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	aegis "github.com/MrEthical07/aegis"
)

// SessionCookie is the default cookie carrying the session id.
const SessionCookie = "aegis_session"

type subjectKey struct{}

// WithSubject returns a context carrying s. Identity always travels
// explicitly in the context of one request, never in package state.
func WithSubject(ctx context.Context, s *aegis.Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// SubjectFromContext returns the subject placed by WithSubject.
func SubjectFromContext(ctx context.Context) (*aegis.Subject, bool) {
	s, ok := ctx.Value(subjectKey{}).(*aegis.Subject)
	return s, ok
}

// ResolveSubject resolves the caller's subject from the session cookie
// and injects it into the request context. Requests without a usable
// session proceed anonymously; guards decide what anonymity may do.
func ResolveSubject(sm *aegis.SecurityManager, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.Anonymous()
			if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				resolved, err := sm.Subject(r.Context(), cookie.Value)
				if err != nil {
					if !errors.Is(err, aegis.ErrInvalidSession) {
						logger.Warn("subject resolution failed", zap.Error(err))
					}
				} else {
					subject = resolved
				}
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
		})
	}
}

// Guard runs the registered policy for operation against the context
// subject before the wrapped handler. Denials never reach the handler:
// a missing identity yields 401, insufficient rights 403.
func Guard(sm *aegis.SecurityManager, operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				subject = sm.Anonymous()
			}
			if err := sm.Check(r.Context(), operation, subject); err != nil {
				status := http.StatusForbidden
				if errors.Is(err, aegis.ErrUnauthenticated) {
					status = http.StatusUnauthorized
				}
				http.Error(w, http.StatusText(status), status)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
