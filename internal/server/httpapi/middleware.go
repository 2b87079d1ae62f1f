package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/google/uuid"
)

type ctxKey string

const (
	callerKey    ctxKey = "caller"
	requestIDKey ctxKey = "requestID"
)

// requireAuth resolves the bearer token to a caller identity before the
// handler runs. A missing or unverifiable token is rejected here, so
// handlers and guards only ever see verified identities.
func (s *HTTPServer) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, common.ErrorUnauthenticated)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, common.ErrorUnauthenticated)
			return
		}

		username, err := auth.GetUsernameFromToken(parts[1], s.jwtSecret)
		if err != nil {
			writeError(w, common.ErrorUnauthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// withRequestID tags every request with an id for log correlation and
// logs the request line.
func (s *HTTPServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		s.logger.Info(ctx, "request", "request_id", id, "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerFromContext returns the verified caller identity set by
// requireAuth.
func callerFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(callerKey).(string)
	return username, ok && username != ""
}
