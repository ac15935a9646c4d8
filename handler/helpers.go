package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/reconcile"
)

// respondWithJSON writes a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondWithError writes a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"error":   errorType,
		"message": message,
		"code":    statusCode,
	})
}

// respondWithServiceError maps service-layer errors to HTTP responses.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr *apperrors.ValidationError
	var dependencyErr *apperrors.DependencyError

	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, "Validation error", validationErr.Error())
	case errors.Is(err, apperrors.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, "Invalid transition", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found", "Resource not found")
	case errors.Is(err, apperrors.ErrPolicyDenied):
		respondWithError(w, http.StatusForbidden, "Forbidden", "Operation not permitted for this account")
	case errors.As(err, &dependencyErr):
		respondWithError(w, http.StatusBadGateway, "Dependency failure", dependencyErr.Error())
	default:
		log.Printf("[http] internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal error", "An unexpected error occurred")
	}
}

// pathID parses the {id} path variable.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// reportOps flattens per-item reconciliation results for the API response.
func reportOps(results []reconcile.Result) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		entry := map[string]interface{}{
			"index": res.Index,
			"op":    res.Op.String(),
		}
		if res.Err != nil {
			entry["error"] = res.Err.Error()
		}
		out = append(out, entry)
	}
	return out
}
