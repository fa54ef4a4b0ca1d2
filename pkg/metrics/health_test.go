package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetHealth() {
	healthChecker = newHealthChecker()
}

func TestGetHealth_AllHealthy(t *testing.T) {
	resetHealth()
	SetVersion("1.0.0")

	UpdateComponent(ComponentWebsocket, true, "")
	UpdateComponent(ComponentComposition, true, "")

	health := GetHealth()
	assert.Equal(t, "healthy", health.Status)
	assert.Len(t, health.Components, 2)
	assert.Equal(t, "1.0.0", health.Version)
}

func TestGetHealth_OneUnhealthy(t *testing.T) {
	resetHealth()

	UpdateComponent(ComponentWebsocket, false, "connection refused")
	UpdateComponent(ComponentComposition, true, "")

	health := GetHealth()
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "unhealthy: connection refused", health.Components[ComponentWebsocket])
}

func TestGetReadiness(t *testing.T) {
	tests := []struct {
		name       string
		setup      func()
		wantStatus string
	}{
		{
			name: "all critical ready",
			setup: func() {
				UpdateComponent(ComponentWebsocket, true, "")
				UpdateComponent(ComponentComposition, true, "")
			},
			wantStatus: "ready",
		},
		{
			name: "composition not received",
			setup: func() {
				UpdateComponent(ComponentWebsocket, true, "")
			},
			wantStatus: "not_ready",
		},
		{
			name: "websocket down",
			setup: func() {
				UpdateComponent(ComponentWebsocket, false, "reconnecting")
				UpdateComponent(ComponentComposition, true, "")
			},
			wantStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetHealth()
			tt.setup()
			assert.Equal(t, tt.wantStatus, GetReadiness().Status)
		})
	}
}

func TestUpdateComponentOverwrites(t *testing.T) {
	resetHealth()

	UpdateComponent("test", true, "ok")
	UpdateComponent("test", false, "error")

	comp := healthChecker.components["test"]
	assert.False(t, comp.Healthy)
	assert.Equal(t, "error", comp.Message)
}

func TestHealthHandlers(t *testing.T) {
	resetHealth()
	UpdateComponent(ComponentWebsocket, true, "")

	rec := httptest.NewRecorder()
	HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "waiting for composition", status.Message)
}
