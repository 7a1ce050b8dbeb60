package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID uint64 `json:"user_id"`
	Token  string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes mounts the JSON auth endpoints on mux.
func RegisterRoutes(mux *http.ServeMux, svc Service) {
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		handleCredentials(w, r, svc.Register)
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		handleCredentials(w, r, svc.Login)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST only")
			return
		}
		svc.Logout(TokenFromRequest(r))
		w.WriteHeader(http.StatusNoContent)
	})
}

func handleCredentials(w http.ResponseWriter, r *http.Request, fn func(username, password string) (uint64, string, error)) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	userID, token, err := fn(req.Username, req.Password)
	if err != nil {
		writeError(w, statusForAuthError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{UserID: userID, Token: token})
}

// TokenFromRequest extracts the session token from the Authorization header
// (Bearer scheme) or the "token" query parameter.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

func statusForAuthError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Auth] write response: %v", err)
	}
}
