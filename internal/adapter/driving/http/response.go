package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/bookshelf/internal/application"
	"github.com/ericfisherdev/bookshelf/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeUnauthorized writes a 401 with the bearer challenge header.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, message)
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// RegisterRequest is the JSON body for the register endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is the JSON representation of a newly created account.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// TokenResponse is the JSON representation of an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserResponse is the JSON representation of the authenticated user.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toRegisterResponse(u model.User) RegisterResponse {
	return RegisterResponse{ID: u.ID, Username: u.Username}
}

// toTokenResponse reports the token lifetime in whole seconds.
func toTokenResponse(t application.AccessToken) TokenResponse {
	return TokenResponse{
		AccessToken: t.Token,
		TokenType:   t.Type,
		ExpiresIn:   int64(t.ExpiresIn / time.Second),
	}
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
