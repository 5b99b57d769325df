package main

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntQuery(t *testing.T) {
	assert.Equal(t, 30, intQuery("", 30))
	assert.Equal(t, 7, intQuery("7", 30))
	assert.Equal(t, 30, intQuery("abc", 30))
	assert.Equal(t, 30, intQuery("-1", 30))
}

func TestFloatQuery(t *testing.T) {
	assert.InDelta(t, 25.0, floatQuery("", 25.0), 0.001)
	assert.InDelta(t, 10.5, floatQuery("10.5", 25.0), 0.001)
	assert.InDelta(t, 25.0, floatQuery("junk", 25.0), 0.001)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, 200, map[string]string{"status": "ok"})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, 400, "location is required")

	assert.Equal(t, 400, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "location is required", body["error"])
}
