package web

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"chat-room/auth"
	"chat-room/errors"
	"chat-room/runtime"
	"chat-room/search"
	"chat-room/services"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// Handlers carries the dependencies of every route. baseCtx bounds the
// lifetime of websocket sessions, which outlive their upgrade request.
type Handlers struct {
	log         *slog.Logger
	baseCtx     context.Context
	authService services.IAuthService
	tokens      *auth.TokenIssuer
	coordinator *runtime.Coordinator
	index       *search.Index
}

func NewHandlers(log *slog.Logger, baseCtx context.Context, authService services.IAuthService,
	tokens *auth.TokenIssuer, coordinator *runtime.Coordinator, index *search.Index) *Handlers {
	return &Handlers{
		log:         log,
		baseCtx:     baseCtx,
		authService: authService,
		tokens:      tokens,
		coordinator: coordinator,
		index:       index,
	}
}

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// statusReply mirrors the reply shape the original web client expects.
type statusReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// Register creates a new account and returns its first session token.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, statusReply{Status: "error", Message: "Invalid request body"})
		return
	}

	token, err := h.authService.Register(body.Username, body.Password)
	switch {
	case err == nil:
		h.log.Info("User registered", "username", body.Username)
		writeJSON(w, http.StatusOK, statusReply{Status: "success", Message: "User registered successfully", Token: string(token)})
	case stderrors.Is(err, errors.ErrUserAlreadyExists):
		writeJSON(w, http.StatusBadRequest, statusReply{Status: "error", Message: "Username already exists"})
	case stderrors.Is(err, errors.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, statusReply{Status: "error", Message: "Invalid username or password format"})
	default:
		h.log.Error("Registration failed", "username", body.Username, "error", err)
		writeJSON(w, http.StatusInternalServerError, statusReply{Status: "error", Message: "Registration failed"})
	}
}

// Login verifies credentials and returns a session token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, statusReply{Status: "error", Message: "Invalid request body"})
		return
	}

	token, err := h.authService.Login(body.Username, body.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, statusReply{Status: "success", Message: "Login successful", Token: string(token)})
	case stderrors.Is(err, errors.ErrUnknownUser):
		writeJSON(w, http.StatusNotFound, statusReply{Status: "error", Message: "User not found"})
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, statusReply{Status: "error", Message: "Invalid password"})
	default:
		h.log.Error("Login failed", "username", body.Username, "error", err)
		writeJSON(w, http.StatusInternalServerError, statusReply{Status: "error", Message: "Login failed"})
	}
}

type searchResult struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

// Search queries the live-message index.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	if terms == "" {
		writeJSON(w, http.StatusBadRequest, statusReply{Status: "error", Message: "Missing query parameter q"})
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxSearchLimit)
		}
	}

	hits, err := h.index.Search(r.Context(), terms, limit)
	if err != nil {
		h.log.Error("Search failed", "terms", terms, "error", err)
		writeJSON(w, http.StatusInternalServerError, statusReply{Status: "error", Message: "Search failed"})
		return
	}

	results := lo.Map(hits, func(hit search.Hit, _ int) searchResult {
		return searchResult{ID: hit.ID, Username: hit.Username, Content: hit.Content}
	})
	writeJSON(w, http.StatusOK, results)
}

// Health is a liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

// Index serves the embedded chat client.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, staticFS, "static/index.html")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
