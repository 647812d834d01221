package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sociials/logs/shared/api"
	internal_errors "github.com/sociials/logs/shared/errors"
	"github.com/sociials/logs/shared/logger"
)

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("encoding json response", "error", err)
		statusCode = http.StatusInternalServerError
		body, _ = json.Marshal(api.ErrorResponse{Error: internal_errors.MsgInternal})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// WriteErrorAndStatusCode writes {"error": msg}. Errors that are not
// ErrorWithStatusCode collapse to a generic 500 so internals never leak.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		WriteJSON(w, e.StatusCode, api.ErrorResponse{Error: e.Message})
		return
	}
	// default error is 500
	WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: internal_errors.MsgInternal})
}

func Decode(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return fmt.Errorf("body is invalid json: %w", err)
	}
	return nil
}
