package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRateSource returns a fixed rate or an error
type fakeRateSource struct {
	rate float64
	err  error
}

func (f *fakeRateSource) GetRate(from, to string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.rate, nil
}

func TestHandleGetRate(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(&fakeRateSource{rate: 1400}, logger)

	req := httptest.NewRequest("GET", "/api/currency/rate", nil)
	w := httptest.NewRecorder()

	handler.HandleGetRate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	assert.Contains(t, response, "data")
	assert.Contains(t, response, "metadata")

	data := response["data"].(map[string]interface{})
	assert.Equal(t, 1400.0, data["rate"])
}

func TestHandleGetRate_Unavailable(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(&fakeRateSource{err: fmt.Errorf("api down")}, logger)

	req := httptest.NewRequest("GET", "/api/currency/rate", nil)
	w := httptest.NewRecorder()

	handler.HandleGetRate(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleConvert(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(&fakeRateSource{rate: 1400}, logger)

	requestBody := map[string]interface{}{
		"from_currency": "USD",
		"to_currency":   "KRW",
		"amount":        10.0,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest("POST", "/api/currency/convert", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()

	handler.HandleConvert(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, 14000.0, data["to_amount"])
}

func TestHandleConvert_InvalidAmount(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(&fakeRateSource{rate: 1400}, logger)

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"from_currency": "USD",
		"to_currency":   "KRW",
		"amount":        -5.0,
	})

	req := httptest.NewRequest("POST", "/api/currency/convert", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()

	handler.HandleConvert(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRoutes(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(&fakeRateSource{rate: 1400}, logger)

	router := chi.NewRouter()

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	}, "RegisterRoutes should not panic")
}
