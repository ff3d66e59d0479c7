package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vipul43/classmate-sync/internal/http/middleware"
	"github.com/vipul43/classmate-sync/internal/service"
)

var kindStatus = map[service.ErrorKind]int{
	service.KindUnauthorized:  http.StatusUnauthorized,
	service.KindBadRequest:    http.StatusBadRequest,
	service.KindNoCredential:  http.StatusPreconditionFailed,
	service.KindRefreshFailed: http.StatusPreconditionFailed,
	service.KindProviderError: http.StatusBadGateway,
	service.KindInternal:      http.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind service.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := service.KindOf(err)
	message := "Internal server error"

	var svcErr *service.Error
	if errors.As(err, &svcErr) && kind != service.KindInternal {
		message = svcErr.Message
	}

	status := StatusFor(kind)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "message": message})
}

// bindJSON decodes the request body into req. An empty body leaves req
// zero-valued so the service reports the missing field by name.
func bindJSON(c *gin.Context, logger *zap.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, logger, "Invalid request body")
		return false
	}
	return true
}

func respondSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func badRequest(c *gin.Context, logger *zap.Logger, message string) {
	respondError(c, logger, service.BadRequest(message))
}

// currentUser returns the authenticated caller. Routes are mounted behind
// RequireUser, so a miss here is answered like a missing token.
func currentUser(c *gin.Context, logger *zap.Logger) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, logger, service.Unauthorized("Missing bearer token"))
		return "", false
	}
	return userID, true
}
