package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthontrack/internal/store"
	"healthontrack/pkg/cache"
	"healthontrack/pkg/config"
	"healthontrack/pkg/llm"
)

type stubAI struct {
	reply string
	err   error
}

func (s stubAI) Reply(_ context.Context, _ string, _ []llm.Turn) (string, error) {
	return s.reply, s.err
}

func newTestServer(t *testing.T, ai llm.Client) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory(true)
	cfg := &config.Config{
		LLMTimeout:    time.Second,
		TrainCacheTTL: time.Minute,
	}
	local := cache.NewLocal(cache.LocalConfig{
		DefaultExpiration: time.Minute,
		CleanupInterval:   time.Minute,
	})
	t.Cleanup(func() { local.Close() })

	r := gin.New()
	New(st, ai, local, cfg, zap.NewNop()).Register(r)
	return r, st
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSignup(t *testing.T) {
	r, _ := newTestServer(t, stubAI{})

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "secret", "role": "passenger",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "passenger", body["role"])
	assert.Equal(t, "TR-001", body["train_id"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, body, "password_hash")

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{"name": "Bob"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Name, email, password, and role are required", decode(t, w)["message"])
	})

	t.Run("invalid role", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
			"name": "Bob", "email": "bob@example.com", "password": "x", "role": "conductor",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid role", decode(t, w)["message"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
			"name": "Alice Again", "email": "alice@example.com", "password": "other", "role": "doctor",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "User with this email already exists", decode(t, w)["message"])
	})
}

func TestLogin(t *testing.T) {
	r, _ := newTestServer(t, stubAI{})

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "passenger@demo.com", "password": "password123", "role": "passenger",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "passenger@demo.com", body["email"])
	assert.NotContains(t, body, "password_hash")

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"email": "passenger@demo.com", "password": "nope", "role": "passenger",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decode(t, w)["message"])
	})

	t.Run("unknown email same message", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"email": "nobody@demo.com", "password": "password123", "role": "passenger",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decode(t, w)["message"])
	})

	t.Run("role mismatch", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"email": "passenger@demo.com", "password": "password123", "role": "doctor",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid role for this user", decode(t, w)["message"])
	})
}

func TestEmergencyFlow(t *testing.T) {
	r, _ := newTestServer(t, stubAI{})

	w := doJSON(t, r, http.MethodPost, "/api/emergency", gin.H{
		"passengerId": "user_demo_passenger",
		"trainId":     "TR-001",
		"description": "Chest pain",
		"severity":    "critical",
		"location":    "Coach B2",
		"status":      "resolved", // must be ignored
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "Coach B2", created["location"])
	assert.Equal(t, "John Doe", created["passenger_name"])
	id := created["id"].(string)

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/emergency", gin.H{"passengerId": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Passenger ID, train ID, description, and severity are required", decode(t, w)["message"])
	})

	t.Run("invalid severity", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/emergency", gin.H{
			"passengerId": "x", "trainId": "TR-001", "description": "d", "severity": "extreme",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid severity level", decode(t, w)["message"])
	})

	t.Run("pending queue", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/emergency?status=pending", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, id, rows[0]["id"])
		assert.Equal(t, "John Doe", rows[0]["passenger_name"])
	})

	t.Run("by passenger", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/emergency?passengerId=user_demo_passenger", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
	})

	t.Run("invalid query", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/emergency?status=resolved", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid query parameters", decode(t, w)["message"])
	})

	t.Run("get unknown id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/emergency/emr_missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Emergency request not found", decode(t, w)["message"])
	})

	t.Run("patch invalid status leaves record unchanged", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/emergency/"+id, gin.H{"status": "escalated"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid status", decode(t, w)["message"])

		w = doJSON(t, r, http.MethodGet, "/api/emergency/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pending", decode(t, w)["status"])
	})

	t.Run("illegal transition", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/emergency/"+id, gin.H{"status": "resolved"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Illegal status transition from the current state", decode(t, w)["message"])
	})

	t.Run("assign doctor", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/emergency/"+id, gin.H{
			"status":           "assigned",
			"assignedDoctorId": "user_demo_doctor",
		})
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "assigned", body["status"])
		assert.Equal(t, "user_demo_doctor", body["assigned_doctor_id"])
		assert.Equal(t, "Dr. Smith", body["doctor_name"])
	})

	t.Run("override bypasses transition check", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/emergency/"+id, gin.H{
			"status": "assigned", "override": true,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("patch unknown id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/emergency/emr_missing", gin.H{"status": "assigned"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMessages(t *testing.T) {
	r, _ := newTestServer(t, stubAI{})

	w := doJSON(t, r, http.MethodPost, "/api/emergency", gin.H{
		"passengerId": "user_demo_passenger", "trainId": "TR-001",
		"description": "Dizzy", "severity": "medium",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	emrID := decode(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/messages", gin.H{
		"emergencyRequestId": emrID,
		"senderId":           "user_demo_passenger",
		"message":            "I feel dizzy",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	first := decode(t, w)
	assert.Equal(t, "text", first["message_type"])
	assert.Equal(t, "I feel dizzy", first["message"])
	assert.Equal(t, "John Doe", first["sender_name"])

	w = doJSON(t, r, http.MethodPost, "/api/messages", gin.H{
		"emergencyRequestId": emrID,
		"senderId":           "user_demo_doctor",
		"message":            "Please sit down",
		"messageType":        "text",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/messages", gin.H{"senderId": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Emergency request ID, sender ID, and message are required", decode(t, w)["message"])
	})

	t.Run("invalid type", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/messages", gin.H{
			"emergencyRequestId": emrID, "senderId": "x", "message": "m", "messageType": "video",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list in order", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/messages?emergencyRequestId="+emrID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "I feel dizzy", rows[0]["message"])
		assert.Equal(t, "Please sit down", rows[1]["message"])
	})

	t.Run("requires thread id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/messages", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVitals(t *testing.T) {
	r, _ := newTestServer(t, stubAI{})

	t.Run("latest with no readings", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/vitals?patientId=user_demo_passenger&latest=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", string(bytes.TrimSpace(w.Body.Bytes())))
	})

	hr := 72
	w := doJSON(t, r, http.MethodPost, "/api/vitals", gin.H{
		"patientId":  "user_demo_passenger",
		"recordedBy": "user_demo_doctor",
		"heartRate":  hr,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(72), body["heart_rate"])
	assert.Nil(t, body["temperature"])
	assert.Equal(t, "Dr. Smith", body["recorded_by_name"])

	w = doJSON(t, r, http.MethodPost, "/api/vitals", gin.H{
		"patientId":   "user_demo_passenger",
		"recordedBy":  "user_demo_doctor",
		"heartRate":   96,
		"temperature": 38.2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/vitals", gin.H{"patientId": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Patient ID and recorded by are required", decode(t, w)["message"])
	})

	t.Run("latest", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/vitals?patientId=user_demo_passenger&latest=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(96), decode(t, w)["heart_rate"])
	})

	t.Run("series newest first", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/vitals?patientId=user_demo_passenger", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, float64(96), rows[0]["heart_rate"])
	})
}

func TestPrescriptions(t *testing.T) {
	r, _ := newTestServer(t, stubAI{})

	w := doJSON(t, r, http.MethodPost, "/api/prescriptions", gin.H{
		"patientId":      "user_demo_passenger",
		"doctorId":       "user_demo_doctor",
		"medicationName": "Aspirin",
		"dosage":         "75mg",
		"frequency":      "once daily",
		"duration":       "7 days",
		"instructions":   "After food",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, "Dr. Smith", data["doctor_name"])
	rxID := data["id"].(string)

	t.Run("missing fields envelope", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/prescriptions", gin.H{"patientId": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Missing required fields", body["message"])
	})

	t.Run("list with count", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/prescriptions?patientId=user_demo_passenger", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("status update", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/prescriptions/"+rxID, gin.H{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "completed", body["data"].(map[string]interface{})["status"])
	})

	t.Run("invalid status", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/prescriptions/"+rxID, gin.H{"status": "expired"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/prescriptions/rx_missing", gin.H{"status": "cancelled"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Prescription not found", decode(t, w)["message"])
	})
}

func TestTrains(t *testing.T) {
	r, _ := newTestServer(t, stubAI{})

	w := doJSON(t, r, http.MethodGet, "/api/trains", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Express 12A", rows[0]["name"])
	equipment, ok := rows[0]["medical_equipment"].([]interface{})
	require.True(t, ok, "equipment must serialize as an array")
	assert.Len(t, equipment, 5)
	assert.Contains(t, equipment, "AED")

	t.Run("location update invalidates cached listing", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/trains/TR-001/location", gin.H{
			"currentLocation": "Surat Junction",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Surat Junction", decode(t, w)["current_location"])

		w = doJSON(t, r, http.MethodGet, "/api/trains", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		assert.Equal(t, "Surat Junction", rows[0]["current_location"])
	})

	t.Run("missing location", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/trains/TR-001/location", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Current location is required", decode(t, w)["message"])
	})

	t.Run("unknown train", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/trains/TR-404/location", gin.H{
			"currentLocation": "Nowhere",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Train not found", decode(t, w)["message"])
	})
}

func TestAssistant(t *testing.T) {
	t.Run("reply passthrough", func(t *testing.T) {
		r, _ := newTestServer(t, stubAI{reply: "Please stay calm and hydrate."})
		w := doJSON(t, r, http.MethodPost, "/api/assistant", gin.H{
			"prompt": "I have a headache",
			"conversationHistory": []gin.H{
				{"sender": "You", "message": "Hello"},
				{"sender": "Dr. AI Assistant", "message": "Hello, how can I help?"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Please stay calm and hydrate.", decode(t, w)["reply"])
	})

	t.Run("prompt required", func(t *testing.T) {
		r, _ := newTestServer(t, stubAI{reply: "x"})
		w := doJSON(t, r, http.MethodPost, "/api/assistant", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Prompt is required", decode(t, w)["error"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		r, _ := newTestServer(t, stubAI{err: errors.New("upstream down")})
		w := doJSON(t, r, http.MethodPost, "/api/assistant", gin.H{"prompt": "help"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to get AI response", decode(t, w)["error"])
	})
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t, stubAI{})
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}
