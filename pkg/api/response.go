package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/matzehuels/taskgraph/pkg/errors"
)

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err), apperrors.Is(err, apperrors.ErrCodeCycleDetected):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrCodeTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}

	body := errorBody{
		Error:     apperrors.UserMessage(err),
		Code:      string(code),
		RequestID: requestIDFrom(r.Context()),
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request", body.RequestID)
		if apperrors.GetCode(err) == "" {
			body.Error = "Internal server error"
		}
	}
	writeJSON(w, status, body)
}
