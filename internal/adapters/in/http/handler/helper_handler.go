package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	usecase "termstore/internal/application/usecase"
)

// ============================================================
// HTTP helpers
// ============================================================

// The wire contract wraps everything in a status/message envelope:
//   {"status":"success", ...} / {"status":"error","message":"..."}
// and clients switch on the exact message strings, so the mappings in
// writeUsecaseErr are load-bearing.

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, code int, message string, extra map[string]any) {
	body := map[string]any{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, code, body)
}

func writeErr(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{
		"status":  "error",
		"message": message,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeUsecaseErr maps usecase sentinels to the wire's exact message
// strings and status codes. Unknown errors become a plain 500.
func writeUsecaseErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrSessionTokenInvalid):
		writeErr(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, usecase.ErrSessionTokenExpired):
		writeErr(w, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		writeErr(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, usecase.ErrUsernameTaken):
		writeErr(w, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, usecase.ErrEmailRegistered):
		writeErr(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, usecase.ErrProductNotFound):
		writeErr(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, usecase.ErrNotEnoughStock):
		writeErr(w, http.StatusBadRequest, "Not enough stock")
	case errors.Is(err, usecase.ErrCartEmpty):
		writeErr(w, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, usecase.ErrInvalidCoupon):
		writeErr(w, http.StatusBadRequest, "Invalid coupon")
	case errors.Is(err, usecase.ErrOrderNotFound):
		writeErr(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, usecase.ErrOrderNotRemovable):
		writeErr(w, http.StatusBadRequest, "Order cannot be removed")
	case errors.Is(err, usecase.ErrAuthInvalidArgument),
		errors.Is(err, usecase.ErrCartInvalidArgument),
		errors.Is(err, usecase.ErrCatalogInvalidArgument),
		errors.Is(err, usecase.ErrOrderInvalidArgument):
		writeErr(w, http.StatusBadRequest, "Invalid data")
	default:
		writeErr(w, http.StatusInternalServerError, "Internal server error")
	}
}
