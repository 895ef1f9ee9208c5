package authapi

import (
	"context"
	"net/http"
	"time"

	"parley/internal/auth/session"
)

type contextKey struct{ name string }

var subjectKey = contextKey{"auth.subject"}

// SubjectFromContext returns the authenticated username placed by
// RequireAuth, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey).(string)
	return s, ok && s != ""
}

// RequireAuth gates a protected route.
//
// Per request: extract the token (cookie or bearer header); missing and
// invalid tokens are rejected identically — a redirect to the login page for
// interactive clients, a structured 401 for API callers — and the protected
// handler is never invoked. Valid tokens near expiry are silently reissued:
// the fresh cookie rides on this response while the handler still observes
// the original, still-valid token.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()

		token, ok := h.tokenFromRequest(r)
		if !ok {
			h.reject(w, r)
			return
		}

		claims, err := h.sessions.Verify(token, now)
		if err != nil {
			h.reject(w, r)
			return
		}

		threshold := h.sessCfg.RefreshThreshold
		if newToken, exp, outcome, rerr := h.sessions.RefreshIfNeeded(token, threshold, now); rerr == nil {
			h.metrics.ObserveRefresh(outcome.String())
			if outcome == session.RefreshOutcomeRefreshed {
				h.setSessionCookie(w, newToken, exp, now)
			}
		} else {
			h.log.Error("auth.refresh.fail", "err", rerr)
		}

		ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}
