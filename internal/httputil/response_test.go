package httputil

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProblem(t *testing.T) {
	problem := NewProblem(http.StatusBadGateway, "AI provider unavailable")
	problem.Kind = "UpstreamUnavailable"
	problem.RequestID = "req-1"

	rec := httptest.NewRecorder()
	WriteProblem(rec, problem)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UpstreamUnavailable", body["kind"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, "Bad Gateway", body["title"])
	assert.Equal(t, 502.0, body["status"])
	assert.Contains(t, body["type"], "rfc9110")
}

func TestNewProblemUnmappedStatus(t *testing.T) {
	problem := NewProblem(http.StatusTeapot, "")
	assert.Equal(t, "about:blank", problem.Type)
	assert.Equal(t, "I'm a teapot", problem.Title)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "detail")
	assert.NotContains(t, string(raw), "request_id")
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"id": "a1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"a1"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, math.Inf(1))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}
