package authapi

import (
	"net/http"
	"strings"
	"time"
)

// tokenFromRequest extracts the session token from the designated transport
// locations: the session cookie for browsers, or an Authorization bearer
// header for API-style callers. The cookie wins when both are present.
func (h *Handler) tokenFromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(h.sessCfg.CookieName); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v, true
		}
	}

	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		if v := strings.TrimSpace(auth[len(prefix):]); v != "" {
			return v, true
		}
	}

	return "", false
}

// wantsJSON decides the rejection shape for a request: structured 401 for
// API callers, redirect-to-login for interactive ones.
func wantsJSON(r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("Authorization")) != "" {
		return true
	}
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(accept, "text/html") {
		return false
	}
	// Fetch/XHR callers typically send no Accept worth routing on; JSON
	// bodies mark them as API traffic.
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// setSessionCookie carries a (possibly refreshed) token back to the client.
// Lifetime matches the token's remaining TTL in seconds.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, exp, now time.Time) {
	maxAge := int(exp.Sub(now).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessCfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.sessCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie on the client.
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessCfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.sessCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
