package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/catalog"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

const (
	codeBadRequest   = "bad_request"
	codeInvalidEvent = "invalid_event"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeUnavailable  = "storage_unavailable"
	codeInternal     = "internal"
)

// errorResponse is the error envelope of every endpoint.
type errorResponse struct {
	Code       string                        `json:"code"`
	Message    string                        `json:"message"`
	RequestID  string                        `json:"requestId,omitempty"`
	Violations []gamification.FieldViolation `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// fail maps a service error to its HTTP response.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *gamification.ValidationError
		perr *gamification.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:       codeInvalidEvent,
			Message:    verr.Error(),
			RequestID:  middleware.GetReqID(r.Context()),
			Violations: verr.Violations,
		})
	case errors.Is(err, catalog.ErrLessonNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, "lesson not found")
	case errors.Is(err, catalog.ErrNoQuiz), errors.Is(err, catalog.ErrAnswerCount):
		writeError(w, r, http.StatusBadRequest, codeBadRequest, err.Error())
	case errors.As(err, &perr):
		h.logger.Error("storage unavailable",
			zap.Int64("user_id", perr.UserID),
			zap.String("op", perr.Op),
			zap.Error(perr.Err),
		)
		writeError(w, r, http.StatusServiceUnavailable, codeUnavailable, "progress storage is temporarily unavailable")
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
