package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/bookshelf/internal/application"
	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

// maxBodyBytes caps register and login request bodies.
const maxBodyBytes = 1 << 16

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	auth     *application.AuthService
	resolver *application.IdentityResolver
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	auth *application.AuthService,
	resolver *application.IdentityResolver,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:     auth,
		resolver: resolver,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging, CORS and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("GET /api/v1/auth/me", h.Me)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging. CORS sits
	// outside the mux so preflight requests never reach method routing.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = corsMiddleware(corsOrigins, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Register creates an account from a JSON username and password.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidUsername), errors.Is(err, application.ErrInvalidPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, driven.ErrDuplicateUsername):
			writeError(w, http.StatusConflict, "username already registered")
		case errors.Is(err, driven.ErrStoreUnavailable):
			h.writeUnavailable(w, "register", err)
		default:
			h.logger.Error("failed to register user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toRegisterResponse(user))
}

// Login exchanges form-encoded username and password fields for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	token, err := h.auth.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidCredentials):
			writeUnauthorized(w, "incorrect username or password")
		case errors.Is(err, driven.ErrStoreUnavailable):
			h.writeUnavailable(w, "login", err)
		default:
			h.logger.Error("failed to log in", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(token))
}

// Me returns the user the bearer token resolves to.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}

	identity, err := h.resolver.Resolve(r.Context(), token)
	if err != nil {
		h.writeUnavailable(w, "resolve identity", err)
		return
	}
	if !identity.Authenticated() {
		writeUnauthorized(w, "could not validate credentials")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(identity.User))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) writeUnavailable(w http.ResponseWriter, op string, err error) {
	h.logger.Warn("store unavailable", "op", op, "error", err)
	writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
}

// bearerToken extracts the credentials of an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
