// Package testutil provides common test utilities for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the decoded form of every JSON response.
type Envelope struct {
	Success        bool                `json:"success"`
	Message        string              `json:"message"`
	Data           json.RawMessage     `json:"data"`
	Pagination     map[string]int      `json:"pagination"`
	FiltersApplied map[string]any      `json:"filters_applied"`
	Error          string              `json:"error"`
	Code           string              `json:"code"`
	Errors         map[string][]string `json:"errors"`
	Details        map[string]any      `json:"details"`
}

// NewJSONRequest creates an HTTP request with a JSON body. Strings are sent
// as is, so tests can post malformed JSON; other values are marshaled.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var bodyReader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		if b != "" {
			bodyReader = bytes.NewBufferString(b)
		}
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Do executes req against handler and decodes the envelope.
func Do(t *testing.T, handler http.Handler, req *http.Request) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body must be an envelope: %s", rec.Body.String())
	return rec, env
}

// DecodeData unmarshals the envelope data into T.
func DecodeData[T any](t *testing.T, env Envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), "failed to unmarshal data")
	return v
}

// AssertStatus asserts the response status code matches expected.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status code: %s", rr.Body.String())
}
