package handler

import (
	"log"
	"net/http"
	"strings"

	usecase "termstore/internal/application/usecase"
)

// AuthHandler serves /api/v1/register/, /api/v1/login/, /api/v1/logout/
// and /api/v1/check-token/.
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "auth handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	switch strings.TrimRight(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/") {
	case "/register":
		h.register(w, r)
	case "/login":
		h.login(w, r)
	case "/logout":
		h.logout(w, r)
	case "/check-token":
		h.checkToken(w, r)
	default:
		writeErr(w, http.StatusNotFound, "Not found")
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	if _, err := h.uc.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		writeUsecaseErr(w, err)
		return
	}

	log.Printf("[auth_handler] registered username=%s", req.Username)
	writeSuccess(w, http.StatusCreated, "User registered successfully", nil)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	t, err := h.uc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"token": t.Token})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	if err := h.uc.Logout(r.Context(), req.Token); err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) checkToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	p, err := h.uc.Verify(r.Context(), req.Token)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{
		"data": map[string]any{
			"username": p.Username,
			"email":    p.Email,
			"role":     string(p.Role),
		},
	})
}
