package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/engine"
	errx "github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/core/error"
)

const maxRequestBodyBytes = 1 << 20

const (
	errorCodeInvalidRequest = "invalid_request"
	errorCodeTimeout        = "model_timeout"
	errorCodeBudget         = "max_round_trips"
	errorCodeRuntime        = "runtime_error"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiErrorResponse{
		Error: apiError{
			Code:    code,
			Message: message,
		},
	})
}

func writeInvalidRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, errorCodeInvalidRequest, message)
}

func writeMappedError(w http.ResponseWriter, err error) {
	status, code := mapTurnError(err)
	writeError(w, status, code, err.Error())
}

func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain exactly one JSON object")
	}

	return nil
}

func mapTurnError(err error) (int, string) {
	var appErr *errx.AppError
	switch {
	case errors.Is(err, engine.ErrModelTimeout):
		return http.StatusGatewayTimeout, errorCodeTimeout
	case errors.Is(err, engine.ErrMaxRoundTrips):
		return http.StatusBadGateway, errorCodeBudget
	case errors.As(err, &appErr):
		return appErr.Status, errorCodeRuntime
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusInternalServerError, errorCodeRuntime
	default:
		return http.StatusInternalServerError, errorCodeRuntime
	}
}
