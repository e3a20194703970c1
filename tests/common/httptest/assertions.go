//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertSuccessResponse checks the status and, for 2xx, decodes the body into target.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code, "response: %s", w.Body.String()) {
		return
	}
	if expectedStatus >= 200 && expectedStatus < 300 && target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "response: %s", w.Body.String())
	}
}

// AssertErrorCode checks status and the stable machine readable code.
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "response: %s", w.Body.String())

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "response: %s", w.Body.String()) {
		assert.Equal(t, expectedCode, body.Error.Code)
		assert.NotEmpty(t, body.Error.Message)
	}
}

// AssertReplayed checks that a response was served from the idempotency ledger.
func AssertReplayed(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
}
