package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// Handler serves the protected chat surface. Every route it registers is
// wrapped by the caller-supplied access-control middleware.
type Handler struct {
	log       *slog.Logger
	catalog   *Catalog
	completer Completer
}

// NewHandler constructs a chat Handler. completer may be nil; /api/chat then
// answers 503 until a backend is configured.
func NewHandler(log *slog.Logger, catalog *Catalog, completer Completer) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Handler{log: log, catalog: catalog, completer: completer}
}

// Register wires chat routes onto the mux behind the given middleware.
func (h *Handler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	if h == nil || mux == nil || protect == nil {
		return
	}
	mux.Handle("/chatbot", protect(http.HandlerFunc(h.handlePage)))
	mux.Handle("/api/models", protect(http.HandlerFunc(h.handleModels)))
	mux.Handle("/api/chat", protect(http.HandlerFunc(h.handleChat)))
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	serveChatPage(w, h.catalog)
}

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Models  []Model `json:"models"`
		Default string  `json:"default"`
	}{Models: h.catalog.List(), Default: h.catalog.DefaultID()})
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Content string `json:"content"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = h.catalog.DefaultID()
	}
	if _, ok := h.catalog.Get(model); !ok {
		writeError(w, http.StatusBadRequest, "unknown_model", "model not in catalog")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "messages are required")
		return
	}

	if h.completer == nil {
		writeError(w, http.StatusServiceUnavailable, "no_backend", ErrNoCompleter.Error())
		return
	}

	content, err := h.completer.Complete(r.Context(), model, req.Messages)
	if err != nil {
		h.log.Error("chat.complete.fail", "model", model, "err", err)
		writeError(w, http.StatusBadGateway, "completion_failed", "completion backend error")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Content: content})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{Error: struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{Code: code, Message: msg}})
}
