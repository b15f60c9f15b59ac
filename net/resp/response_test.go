package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeshark-lucifer/pos-system/ecode"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess_Data(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	Success(w, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "value", decode(t, w)["key"])
}

func TestSuccess_StringBecomesMessage(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	Success(w, "all done")

	assert.Equal(t, "all done", decode(t, w)["message"])
}

func TestSuccess_Empty(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	Success(w)

	assert.Equal(t, "ok", decode(t, w)["message"])
}

func TestWithStatusCode(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WithStatusCode(w, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestFail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		exception  *Exception
		wantStatus int
		wantCode   int
		wantMsg    string
	}{
		{"unauthorized", UnAuthorized("invalid token"), http.StatusUnauthorized, ecode.Unauthorized, "invalid token"},
		{"forbidden", Forbidden("nope"), http.StatusForbidden, ecode.AccessDenied, "nope"},
		{"not found", NotFound("missing"), http.StatusNotFound, ecode.NothingFound, "missing"},
		{"conflict", Conflict("duplicate"), http.StatusConflict, ecode.Conflict, "duplicate"},
		{"too many", TooManyRequests("slow down"), http.StatusTooManyRequests, ecode.LimitExceed, "slow down"},
		{"server error", InternalServer("boom"), http.StatusInternalServerError, ecode.ServerErr, "boom"},
		{"message falls back to code text", BadRequest(""), http.StatusBadRequest, ecode.RequestErr, ecode.Text(ecode.RequestErr)},
		{"nil exception", nil, http.StatusInternalServerError, ecode.ServerErr, ecode.Text(ecode.ServerErr)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Fail(w, tt.exception)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.EqualValues(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestFail_ValidationErrors(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	Fail(w, BadRequest("validation failed", []string{"email is required"}))

	body := decode(t, w)
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	assert.Equal(t, "email is required", errs[0])
}
