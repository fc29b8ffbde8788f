package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	platformlogging "github.com/zenGate-Global/portfolio-pro-saas/platform/go/logging"
)

const (
	ProblemTypeValidation      = "https://portfolio.pro/problems/validation-error"
	ProblemTypeUnauthenticated = "https://portfolio.pro/problems/unauthenticated"
	ProblemTypeForbidden       = "https://portfolio.pro/problems/forbidden"
	ProblemTypeNotFound        = "https://portfolio.pro/problems/not-found"
	ProblemTypeConflict        = "https://portfolio.pro/problems/conflict"
	ProblemTypeInternal        = "https://portfolio.pro/problems/internal-error"
)

// ProblemDetails is the RFC 7807 body returned for every failed request.
type ProblemDetails struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// NewProblem builds a ProblemDetails value.
func NewProblem(title, detail, problemType string, status int, errs map[string][]string) ProblemDetails {
	return ProblemDetails{
		Type:   problemType,
		Title:  title,
		Status: status,
		Detail: detail,
		Errors: errs,
	}
}

// ProblemForError maps an error onto its HTTP status and problem body.
// Collaborator failures and unknown errors never leak their message.
func ProblemForError(err error) ProblemDetails {
	var vErr *apperror.ValidationError
	switch {
	case errors.As(err, &vErr):
		return NewProblem("Validation failed", "request validation failed", ProblemTypeValidation, http.StatusBadRequest, vErr.Fields)
	case errors.Is(err, apperror.ErrValidation):
		return NewProblem("Validation failed", err.Error(), ProblemTypeValidation, http.StatusBadRequest, nil)
	case errors.Is(err, apperror.ErrUnauthenticated):
		return NewProblem("Unauthenticated", err.Error(), ProblemTypeUnauthenticated, http.StatusUnauthorized, nil)
	case errors.Is(err, apperror.ErrUnauthorized):
		return NewProblem("Forbidden", err.Error(), ProblemTypeForbidden, http.StatusForbidden, nil)
	case errors.Is(err, apperror.ErrNotFound):
		return NewProblem("Not found", err.Error(), ProblemTypeNotFound, http.StatusNotFound, nil)
	case errors.Is(err, apperror.ErrConflict):
		return NewProblem("Conflict", err.Error(), ProblemTypeConflict, http.StatusConflict, nil)
	default:
		return NewProblem("Internal error", "internal error", ProblemTypeInternal, http.StatusInternalServerError, nil)
	}
}

// WriteError renders err as a problem response, logging anything that maps to a 5xx.
func WriteError(w http.ResponseWriter, r *http.Request, fallback *zap.Logger, err error) {
	problem := ProblemForError(err)
	if problem.Status >= http.StatusInternalServerError {
		logger := platformlogging.FromRequest(r, fallback)
		if logger != nil {
			logger.Error("request failed", zap.Error(err))
		}
	}
	WriteProblem(w, problem)
}

// WriteProblem writes an application/problem+json response.
func WriteProblem(w http.ResponseWriter, problem ProblemDetails) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	_ = json.NewEncoder(w).Encode(problem)
}

// WriteJSON writes body as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}
