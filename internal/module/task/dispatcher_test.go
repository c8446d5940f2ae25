package task

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pictora/server/internal/shared/config"
)

func newTestDispatcher(t *testing.T, handler http.HandlerFunc) Dispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewDispatcher(config.VendorConfig{
		DashScopeBaseURL: srv.URL,
		DashScopeAPIKey:  "sk-dash",
		ArkBaseURL:       srv.URL,
		ArkAPIKey:        "sk-ark",
		FailureThreshold: 5,
	}, zap.NewNop())
}

func TestDispatchAsync(t *testing.T) {
	var gotAsync, gotAuth, gotPath string
	var gotBody map[string]any
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotAsync = r.Header.Get("X-DashScope-Async")
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{
			"request_id": "req-1",
			"output": {"task_id": "task-1", "task_status": "PENDING"}
		}`))
	})

	vr, err := Build(validRequest(TypeImageToImage))
	require.NoError(t, err)

	result, err := d.Dispatch(context.Background(), vr)
	require.NoError(t, err)
	assert.Equal(t, "task-1", result.TaskID)
	assert.Equal(t, "req-1", result.RequestID)
	assert.Empty(t, result.ResultURL)
	assert.Equal(t, "enable", gotAsync)
	assert.Equal(t, "Bearer sk-dash", gotAuth)
	assert.Equal(t, pathImageSynthesis, gotPath)
	assert.Equal(t, modelImageEdit, gotBody["model"])
}

func TestDispatchSync(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-DashScope-Async"))
		assert.Equal(t, "Bearer sk-ark", r.Header.Get("Authorization"))
		assert.Equal(t, pathArkImages, r.URL.Path)
		w.Write([]byte(`{"data": [{"url": "https://cdn.example.com/out.png"}]}`))
	})

	vr, err := Build(validRequest(TypeMultiImageCompose))
	require.NoError(t, err)

	result, err := d.Dispatch(context.Background(), vr)
	require.NoError(t, err)
	assert.Empty(t, result.TaskID)
	assert.Equal(t, "https://cdn.example.com/out.png", result.ResultURL)
	assert.NotEmpty(t, result.Raw)
}

func TestDispatchVendorRejection(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code": "InvalidParameter", "message": "images is required"}`))
	})

	vr, err := Build(validRequest(TypeImageToImage))
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), vr)
	ve, ok := IsVendorError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ve.StatusCode)
	assert.Equal(t, "InvalidParameter", ve.Code)
	assert.Equal(t, "images is required", ve.Message)
}

func TestDispatchArkRejection(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"code": "AuthenticationError", "message": "invalid api key"}}`))
	})

	vr, err := Build(validRequest(TypeMultiImageCompose))
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), vr)
	ve, ok := IsVendorError(err)
	require.True(t, ok)
	assert.Equal(t, FamilyArk, ve.Family)
	assert.Equal(t, "AuthenticationError", ve.Code)
}

func TestDispatchMissingAPIKey(t *testing.T) {
	d := NewDispatcher(config.VendorConfig{FailureThreshold: 5}, zap.NewNop())

	vr, err := Build(validRequest(TypeImageToImage))
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), vr)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestDispatchCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code": "InternalError", "message": "boom"}`))
	}))
	t.Cleanup(srv.Close)

	d := NewDispatcher(config.VendorConfig{
		DashScopeBaseURL: srv.URL,
		DashScopeAPIKey:  "sk-dash",
		ArkBaseURL:       srv.URL,
		ArkAPIKey:        "sk-ark",
		FailureThreshold: 2,
	}, zap.NewNop())

	vr, err := Build(validRequest(TypeImageToImage))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = d.Dispatch(context.Background(), vr)
		_, ok := IsVendorError(err)
		require.True(t, ok)
	}

	_, err = d.Dispatch(context.Background(), vr)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	// The Ark breaker is independent of the DashScope one.
	arkReq, err := Build(validRequest(TypeMultiImageCompose))
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), arkReq)
	assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
}
