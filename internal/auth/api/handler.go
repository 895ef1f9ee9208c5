package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"parley/internal/auth/credential"
	"parley/internal/auth/session"
)

// MetricsRecorder receives auth outcome observations. The default is a
// no-op so handlers stay testable without a metrics registry.
type MetricsRecorder interface {
	ObserveLogin(result string)
	ObserveRefresh(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveLogin(string)   {}
func (noopMetrics) ObserveRefresh(string) {}

// Handler wires the HTTP auth endpoints to the session service.
type Handler struct {
	log      *slog.Logger
	sessions *session.Service
	sessCfg  session.Config
	metrics  MetricsRecorder

	maxBodyBytes int64
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithMetrics overrides the default no-op metrics recorder.
func WithMetrics(m MetricsRecorder) HandlerOption {
	return func(h *Handler) {
		if h == nil || m == nil {
			return
		}
		h.metrics = m
	}
}

// NewHandler constructs an auth Handler over a session service.
func NewHandler(log *slog.Logger, sessions *session.Service, opts ...HandlerOption) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if sessions == nil {
		return nil, errors.New("auth: nil session service")
	}

	h := &Handler{
		log:          log,
		sessions:     sessions,
		sessCfg:      sessions.Config(),
		metrics:      noopMetrics{},
		maxBodyBytes: 1 << 20,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}

	return h, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/logout", h.handleLogout)
	mux.HandleFunc("/auth/check", h.handleCheck)
	mux.HandleFunc("/auth/refresh", h.handleRefresh)
}

// ---- handlers ----

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		serveLoginPage(w, http.StatusOK, "")
	case http.MethodPost:
		h.doLogin(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) doLogin(w http.ResponseWriter, r *http.Request) {
	username, plaintext, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	token, exp, err := h.sessions.Login(r.Context(), username, plaintext, now)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			h.metrics.ObserveLogin("unauthenticated")
			// One message for unknown username and wrong password alike.
			if wantsJSON(r) {
				writeError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password")
			} else {
				serveLoginPage(w, http.StatusUnauthorized, "Incorrect username or password.")
			}
			return
		}
		h.metrics.ObserveLogin("error")
		h.log.Error("auth.login.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.metrics.ObserveLogin("success")
	h.setSessionCookie(w, token, exp, now)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: exp})
		return
	}
	http.Redirect(w, r, "/chatbot", http.StatusSeeOther)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	username, plaintext, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Register(r.Context(), username, plaintext); err != nil {
		if errors.Is(err, credential.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "already_exists", "username already exists")
			return
		}
		h.log.Error("auth.register.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, userInfo{Username: username})
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Stateless sessions: there is nothing server-side to revoke. Logout
	// clears the client's copy; the token itself stays valid until expiry.
	h.clearSessionCookie(w)

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token, ok := h.tokenFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusOK, checkResponse{Authenticated: false})
		return
	}

	claims, err := h.sessions.Verify(token, time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusOK, checkResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{
		Authenticated: true,
		User:          &userInfo{Username: claims.Subject},
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	now := time.Now().UTC()

	token, ok := h.tokenFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}
	if _, err := h.sessions.Verify(token, now); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	newToken, exp, outcome, err := h.sessions.RefreshIfNeeded(token, h.sessCfg.RefreshThreshold, now)
	if err != nil {
		h.log.Error("auth.refresh.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	h.metrics.ObserveRefresh(outcome.String())

	switch outcome {
	case session.RefreshOutcomeRefreshed:
		h.setSessionCookie(w, newToken, exp, now)
		writeJSON(w, http.StatusOK, refreshResponse{Refreshed: true})
	case session.RefreshOutcomeNotNeeded:
		writeJSON(w, http.StatusOK, refreshResponse{Refreshed: false})
	default:
		// Verify passed above, so an Invalid outcome means the token went
		// stale between the two calls; reject like any other invalid token.
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
	}
}

// readCredentials pulls username/password from a JSON body or an HTML form.
func (h *Handler) readCredentials(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	var username, plaintext string

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req credentialsRequest
		if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return "", "", false
		}
		username, plaintext = req.Username, req.Password
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_form", "invalid form body")
			return "", "", false
		}
		username = r.PostFormValue("username")
		plaintext = r.PostFormValue("password")
	}

	username = strings.TrimSpace(username)
	if username == "" || plaintext == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return "", "", false
	}
	return username, plaintext, true
}
