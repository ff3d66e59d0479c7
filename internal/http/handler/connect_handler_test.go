package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vipul43/classmate-sync/internal/http/handler"
	"github.com/vipul43/classmate-sync/internal/service"
)

func TestConnectHandler_Start(t *testing.T) {
	h := handler.NewConnectHandler(&fakeConnectionService{
		startFunc: func(ctx context.Context, userID string) (string, error) {
			return "https://accounts.google.com/o/oauth2/auth?state=s1&user=" + userID, nil
		},
	}, "http://localhost:5173", nil)

	w := serve(t, h.Start, http.MethodGet, "/google/connect", "", "user-1")

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"url":"https://accounts.google.com/o/oauth2/auth?state=s1&user=user-1"}`, w.Body.String())
}

func TestConnectHandler_Callback(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		err      error
		location string
	}{
		{
			name:     "connected",
			target:   "/google/callback?code=c1&state=s1",
			location: "https://classmate.app/settings?google=connected",
		},
		{
			name:     "unknown state",
			target:   "/google/callback?code=c1&state=stale",
			err:      service.BadRequest("Unknown or expired state"),
			location: "https://classmate.app/settings?google_error=BadRequest",
		},
		{
			name:     "consent denied",
			target:   "/google/callback?error=access_denied&state=s1",
			location: "https://classmate.app/settings?google_error=access_denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := handler.NewConnectHandler(&fakeConnectionService{
				completeFunc: func(ctx context.Context, state, code string) (string, error) {
					called = true
					return "user-1", tt.err
				},
			}, "https://classmate.app/settings", nil)

			// The callback is reached without a bearer token.
			w := serve(t, h.Callback, http.MethodGet, tt.target, "", "")

			require.Equal(t, http.StatusFound, w.Code)
			require.Equal(t, tt.location, w.Header().Get("Location"))
			require.Equal(t, tt.name != "consent denied", called)
		})
	}
}

func TestConnectHandler_Status(t *testing.T) {
	expires := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	h := handler.NewConnectHandler(&fakeConnectionService{
		statusFunc: func(ctx context.Context, userID string) (service.ConnectionStatus, error) {
			return service.ConnectionStatus{Connected: true, ExpiresAt: &expires}, nil
		},
	}, "", nil)

	w := serve(t, h.Status, http.MethodGet, "/google/status", "", "user-1")

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"connected":true,"expires_at":"2025-03-14T10:00:00Z"}`, w.Body.String())
}

func TestConnectHandler_Disconnect(t *testing.T) {
	h := handler.NewConnectHandler(&fakeConnectionService{
		disconnectFunc: func(ctx context.Context, userID string) error {
			return &service.Error{Kind: service.KindNoCredential, Message: "Google account is not connected"}
		},
	}, "", nil)

	w := serve(t, h.Disconnect, http.MethodDelete, "/google/connect", "", "user-1")

	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	require.JSONEq(t, `{"error":"NoCredential","message":"Google account is not connected"}`, w.Body.String())
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, handler.StatusFor(service.KindUnauthorized))
	require.Equal(t, http.StatusBadRequest, handler.StatusFor(service.KindBadRequest))
	require.Equal(t, http.StatusPreconditionFailed, handler.StatusFor(service.KindNoCredential))
	require.Equal(t, http.StatusPreconditionFailed, handler.StatusFor(service.KindRefreshFailed))
	require.Equal(t, http.StatusBadGateway, handler.StatusFor(service.KindProviderError))
	require.Equal(t, http.StatusInternalServerError, handler.StatusFor("Mystery"))
}
