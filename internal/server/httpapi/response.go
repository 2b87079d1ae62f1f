package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/messagely/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel errors onto status codes. Anything
// unrecognized becomes a generic 500 so internal detail never leaks.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrorDuplicate):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username taken, please pick another"})
	case errors.Is(err, common.ErrorInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input"})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrorUnauthenticated), errors.Is(err, common.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
