package uac

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/0xPuncker/uac-task-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	client, err := New(config.UACConfig{URL: url, Token: "test-token", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func TestClient_ListTasks(t *testing.T) {
	filter := TaskFilter{Name: "*", Type: "", UpdatedTimeType: "Offset", UpdatedTime: "-30d"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/uc/resources/task/list", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{
			"name":            "*",
			"type":            "",
			"updatedTimeType": "Offset",
			"updatedTime":     "-30d",
		}, body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"name":"Job1","summary":"nightly run"}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/uc/")

	raw, err := client.ListTasks(context.Background(), filter)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Job1","summary":"nightly run"}]`, string(raw))
}

func TestClient_ListTasksAdvanced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/resources/task/listadv", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Write([]byte(`{"data":[{"name":"Job2","agent":"agent-01","command":"ls"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	raw, err := client.ListTasksAdvanced(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[{"name":"Job2","agent":"agent-01","command":"ls"}]}`, string(raw))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name         string
		responseCode int
		responseBody string
		wantStatus   int
	}{
		{
			name:         "unauthorized",
			responseCode: http.StatusUnauthorized,
			responseBody: `{"error":"token expired"}`,
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name:         "server error",
			responseCode: http.StatusInternalServerError,
			responseBody: "",
			wantStatus:   http.StatusInternalServerError,
		},
		{
			name:         "malformed response",
			responseCode: http.StatusOK,
			responseBody: "invalid json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.responseCode)
				w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			raw, err := client.ListTasksAdvanced(context.Background())
			require.Error(t, err)
			assert.Nil(t, raw)

			var apiErr *APIError
			if tt.wantStatus != 0 {
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				assert.Equal(t, tt.responseBody, apiErr.Body)
			} else {
				assert.False(t, errors.As(err, &apiErr))
			}
		})
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListTasks(ctx, TaskFilter{Name: "*"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.UACConfig
	}{
		{"unparseable url", config.UACConfig{URL: "http://[::1", Token: "t"}},
		{"unsupported scheme", config.UACConfig{URL: "ftp://uac.example.com", Token: "t"}},
		{"missing host", config.UACConfig{URL: "https://", Token: "t"}},
		{"relative url", config.UACConfig{URL: "uac.example.com/uc", Token: "t"}},
		{"empty token", config.UACConfig{URL: "https://uac.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}
