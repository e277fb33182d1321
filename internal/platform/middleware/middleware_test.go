// Copyright (c) 2026 TaskHive. All rights reserved.

package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/platform/middleware"
	"github.com/taskhive/taskhive/internal/platform/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestRateLimit_RejectsOverLimit: requests beyond the window's permit budget
receive 429 with a machine-readable code and a positive Retry-After header.
*/
func TestRateLimit_RejectsOverLimit(t *testing.T) {
	limiter := ratelimit.New(2, time.Minute)
	handler := middleware.RateLimit(limiter, 5)(okHandler())

	doRequest := func() *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, "/signin", nil)
		request.RemoteAddr = "203.0.113.7:4411"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, doRequest().Code)
	assert.Equal(t, http.StatusOK, doRequest().Code)

	rejected := doRequest()
	assert.Equal(t, http.StatusTooManyRequests, rejected.Code)

	retryAfter, err := strconv.Atoi(rejected.Header().Get("Retry-After"))
	require.NoError(t, err, "Retry-After must be numeric")
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 60)

	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rejected.Body.Bytes(), &envelope))
	assert.Equal(t, "RATE_LIMITED", envelope.Code)
	assert.NotEmpty(t, envelope.Error)
}

/*
TestRateLimit_PartitionsByClient: one client exhausting its budget must not
affect another.
*/
func TestRateLimit_PartitionsByClient(t *testing.T) {
	limiter := ratelimit.New(1, time.Minute)
	handler := middleware.RateLimit(limiter, 5)(okHandler())

	doRequest := func(addr string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = addr
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, doRequest("203.0.113.7:1000"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest("203.0.113.7:2000"), "same host, new port")
	assert.Equal(t, http.StatusOK, doRequest("203.0.113.8:1000"), "different host unaffected")
}

/*
TestClientKey covers the identity precedence: forwarded header, then peer
address, then the anonymous sentinel.
*/
func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"forwarded_single", "198.51.100.9", "203.0.113.7:1000", "198.51.100.9"},
		{"forwarded_chain_takes_first", "198.51.100.9, 10.0.0.1", "203.0.113.7:1000", "198.51.100.9"},
		{"remote_addr_host", "", "203.0.113.7:1000", "203.0.113.7"},
		{"remote_addr_without_port", "", "203.0.113.7", "203.0.113.7"},
		{"anonymous", "", "", "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				request.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			assert.Equal(t, tt.want, middleware.ClientKey(request))
		})
	}
}
