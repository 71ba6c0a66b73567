package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/freshfold/laundry-api/config"
	"github.com/freshfold/laundry-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServerStartup is an acceptance test that verifies the server can start
func TestServerStartup(t *testing.T) {
	router := setupRouter()
	assert.NotNil(t, router, "Router should be initialized")
}

// TestAPIHealthEndpointAcceptance calls the health endpoint over a real listener
func TestAPIHealthEndpointAcceptance(t *testing.T) {
	server := httptest.NewServer(setupRouter())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	require.NoError(t, err, "Should be able to reach the server")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "Health endpoint should return 200 OK")

	var response struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response), "Response should be valid JSON")

	assert.True(t, response.Success, "Success field should be true")
	assert.Equal(t, healthMessage, response.Message)
	assert.NotEmpty(t, response.Timestamp)
}

// TestDatabaseStatusAcceptance lists the migrated tables over a real listener
func TestDatabaseStatusAcceptance(t *testing.T) {
	config.SetDB(testutil.OpenTestDB(t))
	defer config.SetDB(nil)

	server := httptest.NewServer(setupRouter())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/database/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var response struct {
		Success bool     `json:"success"`
		Tables  []string `json:"tables"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Contains(t, response.Tables, "laundry_orders")
}

// TestCORSPreflight checks browsers may call the API with a bearer token
func TestCORSPreflight(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	req.Header.Set("Origin", "https://app.freshfold.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	recorder := &testResponseWriter{header: make(http.Header)}
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.statusCode)
	assert.Equal(t, "*", recorder.header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, recorder.header.Get("Access-Control-Allow-Headers"), "Authorization")
}

// TestHealthEndpointAvailability tests that the health endpoint is available immediately
func TestHealthEndpointAvailability(t *testing.T) {
	router := setupRouter()

	// Make multiple requests to ensure consistency
	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest("GET", "/api/v1/health", nil)
		recorder := &testResponseWriter{header: make(http.Header)}
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.statusCode,
			fmt.Sprintf("Request %d should succeed", i+1))

		var response map[string]interface{}
		json.Unmarshal(recorder.body, &response)
		assert.Equal(t, true, response["success"],
			fmt.Sprintf("Request %d should have success=true", i+1))
	}
}

// TestHealthEndpointResponseTime tests that the endpoint responds quickly
func TestHealthEndpointResponseTime(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	recorder := &testResponseWriter{header: make(http.Header)}

	start := time.Now()
	router.ServeHTTP(recorder, req)
	duration := time.Since(start)

	// Health check should be very fast (under 100ms)
	assert.Less(t, duration, 100*time.Millisecond,
		"Health endpoint should respond in less than 100ms")
}

// testResponseWriter is a helper for acceptance testing
type testResponseWriter struct {
	header     http.Header
	body       []byte
	statusCode int
}

func (w *testResponseWriter) Header() http.Header {
	return w.header
}

func (w *testResponseWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	w.body = append(w.body, b...)
	return len(b), nil
}

func (w *testResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}
