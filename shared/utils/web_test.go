package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_errors "github.com/sociials/logs/shared/errors"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		input    any
		expected string
		code     int
	}{
		{
			name:     "Valid JSON",
			status:   http.StatusOK,
			input:    map[string]string{"message": "hello"},
			expected: `{"message":"hello"}`,
			code:     http.StatusOK,
		},
		{
			name:     "Custom status",
			status:   http.StatusTeapot,
			input:    map[string]int{"n": 1},
			expected: `{"n":1}`,
			code:     http.StatusTeapot,
		},
		{
			name:     "Invalid JSON (channel)",
			status:   http.StatusOK,
			input:    make(chan int),
			expected: `{"error":"Internal server error"}`,
			code:     http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteJSON(rr, tt.status, tt.input)

			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.expected+"\n", rr.Body.String())
		})
	}
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		expected string
	}{
		{
			name:     "config error",
			err:      internal_errors.Config("status"),
			code:     http.StatusInternalServerError,
			expected: `{"error":"Missing Discord configuration for status"}`,
		},
		{
			name:     "upstream error keeps status",
			err:      internal_errors.Upstream(http.StatusNotFound, errors.New("Unknown Channel")),
			code:     http.StatusNotFound,
			expected: `{"error":"Failed to fetch messages from Discord"}`,
		},
		{
			name:     "wrapped status error",
			err:      errors.Join(errors.New("outer"), internal_errors.Upstream(http.StatusForbidden, nil)),
			code:     http.StatusForbidden,
			expected: `{"error":"Failed to fetch messages from Discord"}`,
		},
		{
			name:     "plain error is hidden",
			err:      errors.New("dial tcp 1.2.3.4:443: i/o timeout"),
			code:     http.StatusInternalServerError,
			expected: `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteErrorAndStatusCode(rr, tt.err)
			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, tt.expected+"\n", rr.Body.String())
		})
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Field string `json:"field"`
	}
	require.NoError(t, Decode(strings.NewReader(`{"field":"value"}`), &out))
	assert.Equal(t, "value", out.Field)

	assert.Error(t, Decode(strings.NewReader(`{"field":`), &out))
}
