package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"partyorder/menu-svc/internal/domain"

	"go.uber.org/zap"
)

type errorBody struct {
	ErrorType  string             `json:"errorType"`
	Message    string             `json:"message,omitempty"`
	Issues     []domain.Violation `json:"issues,omitempty"`
	CategoryID string             `json:"categoryId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps service errors to responses. Anything unrecognised is
// logged and reported as a generic failure.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		schemaErr *domain.SchemaInvalidError
		parseErr  *domain.ParseError
		linkErr   *domain.CategoryLinkError
	)
	switch {
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{ErrorType: "SCHEMA", Message: "schema invalid", Issues: schemaErr.Violations})
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusBadRequest, errorBody{ErrorType: "PARSE", Message: parseErr.Message})
	case errors.As(err, &linkErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{ErrorType: "CATEGORY_LINK", Message: linkErr.Error(), CategoryID: linkErr.CategoryID})
	case errors.Is(err, domain.ErrNoValidItems):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{ErrorType: "NO_VALID_ITEMS", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidHierarchy):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{ErrorType: "INVALID_HIERARCHY", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{ErrorType: "NOT_FOUND", Message: "not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorBody{ErrorType: "UNAUTHORIZED", Message: "unauthorized"})
	default:
		h.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{ErrorType: "INTERNAL", Message: "operation failed"})
	}
}
