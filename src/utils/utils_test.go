package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONError(rec, "nope", http.StatusConflict)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "nope", body["error"])
}

func TestGenerateETag(t *testing.T) {
	a, err := GenerateETag(map[string]int{"x": 1})
	require.NoError(t, err)
	b, err := GenerateETag(map[string]int{"x": 1})
	require.NoError(t, err)
	c, err := GenerateETag(map[string]int{"x": 2})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)

	_, err = GenerateETag(func() {})
	assert.Error(t, err)
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 1.23, RoundFloat(1.234, 2))
	assert.Equal(t, 1.24, RoundFloat(1.235001, 2))
	assert.Equal(t, -2.5, RoundFloat(-2.54, 1))
	assert.Equal(t, 3.0, RoundFloat(2.6, 0))
}
