package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vipul43/classmate-sync/internal/service"
)

// ConnectionService runs the Google connect protocol.
type ConnectionService interface {
	Start(ctx context.Context, userID string) (string, error)
	Complete(ctx context.Context, state, code string) (string, error)
	Status(ctx context.Context, userID string) (service.ConnectionStatus, error)
	Disconnect(ctx context.Context, userID string) error
}

// ConnectHandler serves /google routes.
type ConnectHandler struct {
	svc    ConnectionService
	appURL string
	logger *zap.Logger
}

func NewConnectHandler(svc ConnectionService, appURL string, logger *zap.Logger) *ConnectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectHandler{svc: svc, appURL: appURL, logger: logger}
}

// Start handles GET /google/connect and returns the consent URL.
func (h *ConnectHandler) Start(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	authURL, err := h.svc.Start(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": authURL})
}

// Callback handles GET /google/callback. Google redirects the browser here,
// so the outcome is reported back to the app as a query parameter.
func (h *ConnectHandler) Callback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		h.logger.Warn("google consent denied", zap.String("reason", providerErr))
		c.Redirect(http.StatusFound, h.redirectURL("google_error", "access_denied"))
		return
	}

	userID, err := h.svc.Complete(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		h.logger.Warn("google connect failed", zap.Error(err))
		c.Redirect(http.StatusFound, h.redirectURL("google_error", string(service.KindOf(err))))
		return
	}

	h.logger.Debug("google callback completed", zap.String("user_id", userID))
	c.Redirect(http.StatusFound, h.redirectURL("google", "connected"))
}

// Status handles GET /google/status.
func (h *ConnectHandler) Status(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	status, err := h.svc.Status(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Disconnect handles DELETE /google/connect.
func (h *ConnectHandler) Disconnect(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	if err := h.svc.Disconnect(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c)
}

func (h *ConnectHandler) redirectURL(key, value string) string {
	u, err := url.Parse(h.appURL)
	if err != nil || h.appURL == "" {
		return "/?" + url.Values{key: {value}}.Encode()
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
