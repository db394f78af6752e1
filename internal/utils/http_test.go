package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name            string
		respond         func(c echo.Context) error
		expectedCode    int
		expectedMessage string
	}{
		{
			name:            "bad request",
			respond:         func(c echo.Context) error { return BadRequestResponse(c, "Invalid request format") },
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Invalid request format",
		},
		{
			name:            "not found default message",
			respond:         func(c echo.Context) error { return NotFoundResponse(c, "") },
			expectedCode:    http.StatusNotFound,
			expectedMessage: "Resource not found",
		},
		{
			name:            "conflict",
			respond:         func(c echo.Context) error { return ConflictResponse(c, "Duplicate request") },
			expectedCode:    http.StatusConflict,
			expectedMessage: "Duplicate request",
		},
		{
			name:            "conflict default message",
			respond:         func(c echo.Context) error { return ConflictResponse(c, "") },
			expectedCode:    http.StatusConflict,
			expectedMessage: "Conflict",
		},
		{
			name:            "internal server error default message",
			respond:         func(c echo.Context) error { return InternalServerErrorResponse(c, "") },
			expectedCode:    http.StatusInternalServerError,
			expectedMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, tt.respond(c))
			assert.Equal(t, tt.expectedCode, rec.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.False(t, response.Success)
			assert.Equal(t, tt.expectedMessage, response.Error)
			assert.Equal(t, tt.expectedCode, response.Code)
		})
	}
}
